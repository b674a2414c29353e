package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"strategy_orchestrator/internal/models"
	"strategy_orchestrator/pkg/db"
)

func TestMemoryRunStoreFiltersByStrategy(t *testing.T) {
	s := NewMemoryRunStore()
	now := time.Now()
	_ = s.SaveRun(context.Background(), models.RunRecord{Strategy: "a", Success: true, StartedAt: now, FinishedAt: now})
	_ = s.SaveRun(context.Background(), models.RunRecord{Strategy: "b", Success: false, Error: "boom"})
	_ = s.SaveRun(context.Background(), models.RunRecord{Strategy: "a"})

	if got := len(s.Records("a")); got != 2 {
		t.Fatalf("records(a) = %d, want 2", got)
	}
	if got := len(s.Records("")); got != 3 {
		t.Fatalf("records() = %d, want 3", got)
	}
}

func TestMemoryRunStoreKeepsOnlyRecentRunsPerStrategy(t *testing.T) {
	s := NewMemoryRunStoreWith(3)
	for i := 0; i < 8; i++ {
		_ = s.SaveRun(context.Background(), models.RunRecord{Strategy: "busy", Error: strconv.Itoa(i)})
	}
	_ = s.SaveRun(context.Background(), models.RunRecord{Strategy: "quiet"})

	busy := s.Records("busy")
	if len(busy) != 3 {
		t.Fatalf("records(busy) = %d, want 3", len(busy))
	}
	if busy[0].Error != "5" || busy[2].Error != "7" {
		t.Fatalf("oldest runs not evicted: %+v", busy)
	}
	if got := len(s.Records("quiet")); got != 1 {
		t.Fatalf("eviction touched another strategy: %d", got)
	}
	if got := len(s.Records("")); got != 4 {
		t.Fatalf("records() = %d, want 4", got)
	}
}

func TestPgRunStoreWithoutDSNFails(t *testing.T) {
	s := NewPgRunStore(db.NewLazyPool(db.PoolConfig{}))
	if err := s.SaveRun(context.Background(), models.RunRecord{Strategy: "a"}); err == nil {
		t.Fatal("expected error without dsn")
	}
}
