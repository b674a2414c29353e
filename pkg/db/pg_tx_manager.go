package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"strategy_orchestrator/pkg/logger"
)

var ErrNoDSN = errors.New("db: dsn is empty")

type PoolConfig struct {
	DSN string
}

type PgTxManager struct {
	poolMaster *pgxpool.Pool
}

func NewPgTxManager(poolMaster *pgxpool.Pool) *PgTxManager {
	return &PgTxManager{
		poolMaster: poolMaster,
	}
}

func (m *PgTxManager) Close() {
	m.poolMaster.Close()
}

func NewPool(ctx context.Context, conf PoolConfig) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, conf.DSN)
}

func (m *PgTxManager) RunMaster(ctx context.Context, fn func(ctxTx context.Context, tx pgx.Tx) error) error {
	options := pgx.TxOptions{
		IsoLevel: pgx.ReadCommitted,
	}
	return m.inTx(ctx, m.poolMaster, options, fn)
}

func (m *PgTxManager) Conn() Transaction {
	return m.poolMaster
}

func (m *PgTxManager) inTx(
	ctx context.Context,
	pool *pgxpool.Pool,
	options pgx.TxOptions,
	f func(ctxTx context.Context, tx pgx.Tx) error,
) (err error) {
	tx, err := pool.BeginTx(ctx, options)
	if err != nil {
		return fmt.Errorf("failed to begin tx, err: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Info("%v", p)
			_ = tx.Rollback(ctx)
			panic(p) // fallthrough panic after rollback on caught panic
		} else if err != nil {
			_ = tx.Rollback(ctx) // if error during computations
		} else {
			err = tx.Commit(ctx) // all good
		}
	}()

	err = f(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to run fn, err: %w", err)
	}

	return nil
}

// LazyPool общий на все стратегии пул, который создаётся при первом обращении.
// Если подключиться не вышло, следующий вызов попробует снова.
type LazyPool struct {
	conf PoolConfig

	mu sync.Mutex
	m  *PgTxManager
}

func NewLazyPool(conf PoolConfig) *LazyPool {
	return &LazyPool{conf: conf}
}

func (l *LazyPool) Get(ctx context.Context) (*PgTxManager, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.m != nil {
		return l.m, nil
	}
	if l.conf.DSN == "" {
		return nil, ErrNoDSN
	}

	poolMaster, err := NewPool(ctx, l.conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create poolMaster: %w", err)
	}
	if err = poolMaster.Ping(ctx); err != nil {
		poolMaster.Close()
		return nil, fmt.Errorf("failed to ping poolMaster: %w", err)
	}
	l.m = NewPgTxManager(poolMaster)
	return l.m, nil
}

func (l *LazyPool) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.m != nil {
		l.m.Close()
		l.m = nil
	}
}
