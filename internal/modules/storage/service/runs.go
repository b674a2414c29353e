package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"

	"strategy_orchestrator/internal/models"
	"strategy_orchestrator/pkg/db"
)

// RunStore куда пайплайн пишет итог каждого прогона.
type RunStore interface {
	SaveRun(ctx context.Context, rec models.RunRecord) error
}

const createRunsTable = `
CREATE TABLE IF NOT EXISTS strategy_runs (
	id          BIGSERIAL PRIMARY KEY,
	strategy    TEXT        NOT NULL,
	success     BOOLEAN     NOT NULL,
	details     JSONB,
	error       TEXT,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
)`

const insertRun = `
INSERT INTO strategy_runs (strategy, success, details, error, started_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6)`

// PgRunStore пишет в strategy_runs через общий ленивый пул.
// Каждая запись относится к одной стратегии и одному прогону, поэтому без блокировок.
type PgRunStore struct {
	pool *db.LazyPool

	mu       sync.Mutex
	migrated bool
}

func NewPgRunStore(pool *db.LazyPool) *PgRunStore {
	return &PgRunStore{pool: pool}
}

func (s *PgRunStore) SaveRun(ctx context.Context, rec models.RunRecord) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("PgRunStore.SaveRun: %w", err)
		}
	}()

	tm, err := s.pool.Get(ctx)
	if err != nil {
		return err
	}
	if err = s.migrate(ctx, tm); err != nil {
		return err
	}

	var details []byte
	if rec.Details != nil {
		details, err = sonic.Marshal(rec.Details)
		if err != nil {
			return err
		}
	}

	return tm.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, insertRun,
			rec.Strategy, rec.Success, details, rec.Error, rec.StartedAt, rec.FinishedAt)
		return err
	})
}

func (s *PgRunStore) migrate(ctx context.Context, tm *db.PgTxManager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.migrated {
		return nil
	}
	if _, err := tm.Conn().Exec(ctx, createRunsTable); err != nil {
		return err
	}
	s.migrated = true
	return nil
}

// MemoryRunKeep сколько последних прогонов на стратегию держит MemoryRunStore.
const MemoryRunKeep = 100

// MemoryRunStore когда db_dsn не задан, и для тестов.
// Хранит не больше keep последних записей на стратегию, старые вытесняются.
type MemoryRunStore struct {
	mu      sync.RWMutex
	keep    int
	counts  map[string]int
	records []models.RunRecord
}

func NewMemoryRunStore() *MemoryRunStore {
	return NewMemoryRunStoreWith(MemoryRunKeep)
}

func NewMemoryRunStoreWith(keep int) *MemoryRunStore {
	if keep < 1 {
		keep = 1
	}
	return &MemoryRunStore{keep: keep, counts: make(map[string]int)}
}

func (s *MemoryRunStore) SaveRun(_ context.Context, rec models.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts[rec.Strategy] >= s.keep {
		for i, r := range s.records {
			if r.Strategy == rec.Strategy {
				s.records = append(s.records[:i], s.records[i+1:]...)
				break
			}
		}
		s.counts[rec.Strategy]--
	}
	s.records = append(s.records, rec)
	s.counts[rec.Strategy]++
	return nil
}

func (s *MemoryRunStore) Records(strategy string) []models.RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.RunRecord, 0)
	for _, r := range s.records {
		if strategy == "" || r.Strategy == strategy {
			out = append(out, r)
		}
	}
	return out
}
