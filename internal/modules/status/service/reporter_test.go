package service

import (
	"testing"
	"time"

	"strategy_orchestrator/internal/models"
)

type listSource struct {
	items []*models.LoadedStrategy
	next  time.Time
}

func (s listSource) Strategies() []*models.LoadedStrategy {
	return s.items
}

func (s listSource) NextRun(string) time.Time {
	return s.next
}

func TestReporterStatus(t *testing.T) {
	fresh := models.NewLoadedStrategy(models.StrategyConfig{Name: "fresh", Enabled: true, CronSchedule: "@hourly"}, nil, "")
	failed := models.NewLoadedStrategy(models.StrategyConfig{Name: "failed", Enabled: true, CronSchedule: "*/5 * * * *"}, nil, "")
	failed.Record(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), models.Failed(models.ErrData))

	state := NewState()
	state.SetReady(true)
	state.MarkLoaded(time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC))
	r := NewReporterWith(listSource{items: []*models.LoadedStrategy{failed, fresh}}, state)
	r.now = func() time.Time { return time.Date(2026, 1, 2, 3, 5, 0, 0, time.UTC) }

	rep := r.Status()
	if rep.Status != StatusOperational || !rep.Ready {
		t.Fatalf("report = %+v", rep)
	}
	if rep.LastUpdate != "2026-01-02T03:05:00Z" {
		t.Fatalf("lastUpdate = %s", rep.LastUpdate)
	}
	if rep.LoadedAt == nil || !rep.LoadedAt.Equal(time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)) {
		t.Fatalf("loadedAt = %v", rep.LoadedAt)
	}
	if len(rep.Strategies) != 2 {
		t.Fatalf("strategies = %+v", rep.Strategies)
	}

	f := rep.Strategies[0]
	if f.Name != "failed" || f.LastSuccess == nil || *f.LastSuccess || f.Runs != 1 || f.LastRunAt == nil {
		t.Fatalf("failed entry = %+v", f)
	}
	if f.LastError != models.ErrData.Error() {
		t.Fatalf("lastError = %q", f.LastError)
	}
	if n := rep.Strategies[1]; n.LastRunAt != nil || n.LastSuccess != nil || n.Runs != 0 {
		t.Fatalf("fresh entry = %+v", n)
	}
}

func TestReporterEmpty(t *testing.T) {
	rep := NewReporterWith(listSource{}, NewState()).Status()
	if rep.Strategies == nil || len(rep.Strategies) != 0 {
		t.Fatal("strategies must be an empty list")
	}
	if rep.Ready {
		t.Fatal("not ready before load")
	}
	if rep.LoadedAt != nil {
		t.Fatalf("loadedAt before load = %v", rep.LoadedAt)
	}
}
