package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"strategy_orchestrator/internal/models"
	storage "strategy_orchestrator/internal/modules/storage/service"
)

type fakeStrategy struct {
	details models.Details
	err     error
	panics  bool
	calls   int
}

func (f *fakeStrategy) Initialize(context.Context, models.StrategyConfig) error { return nil }

func (f *fakeStrategy) Run(ctx context.Context) (models.Details, error) {
	f.calls++
	if f.panics {
		panic("boom")
	}
	return f.details, f.err
}

type failingStore struct{}

func (failingStore) SaveRun(context.Context, models.RunRecord) error { return errors.New("db down") }

func newTestRunner(store storage.RunStore) *Runner {
	return &Runner{log: zap.NewNop(), store: store, timeout: time.Second, now: time.Now}
}

func loaded(name string, s models.Strategy) *models.LoadedStrategy {
	return models.NewLoadedStrategy(models.StrategyConfig{Name: name, Enabled: true, CronSchedule: "* * * * *"}, s, "")
}

func TestRunnerSuccessRecordsState(t *testing.T) {
	store := storage.NewMemoryRunStore()
	r := newTestRunner(store)
	ls := loaded("a", &fakeStrategy{details: models.Details{"decision": ""}})

	res := r.Run(context.Background(), ls, TriggerManual)
	if !res.Success || res.Error != "" {
		t.Fatalf("expected success, got %+v", res)
	}
	st := ls.State()
	if st.Runs != 1 || st.LastResult == nil || !st.LastResult.Success || st.LastRunAt.IsZero() {
		t.Fatalf("state not recorded: %+v", st)
	}
	if got := store.Records("a"); len(got) != 1 || !got[0].Success {
		t.Fatalf("run not persisted: %+v", got)
	}
}

func TestRunnerFailureIsResultNotPanic(t *testing.T) {
	r := newTestRunner(storage.NewMemoryRunStore())

	ls := loaded("bad", &fakeStrategy{err: models.ErrInsufficientData})
	res := r.Run(context.Background(), ls, TriggerSchedule)
	if res.Success || !errors.Is(res.Err, models.ErrInsufficientData) {
		t.Fatalf("expected insufficient data failure, got %+v", res)
	}
	if ls.State().LastError == "" {
		t.Fatal("lastError must be set")
	}

	ls = loaded("panics", &fakeStrategy{panics: true})
	res = r.Run(context.Background(), ls, TriggerSchedule)
	if res.Success || !errors.Is(res.Err, models.ErrExecution) {
		t.Fatalf("panic must become execution error, got %+v", res)
	}
}

func TestRunnerPersistFailureFailsRun(t *testing.T) {
	r := newTestRunner(failingStore{})
	ls := loaded("a", &fakeStrategy{details: models.Details{}})

	res := r.Run(context.Background(), ls, TriggerManual)
	if res.Success || !errors.Is(res.Err, models.ErrExecution) {
		t.Fatalf("expected execution error, got %+v", res)
	}
}

func TestRunnerNilPipeline(t *testing.T) {
	r := newTestRunner(storage.NewMemoryRunStore())
	res := r.Run(context.Background(), loaded("empty", nil), TriggerManual)
	if res.Success || !errors.Is(res.Err, models.ErrLoad) {
		t.Fatalf("expected load error, got %+v", res)
	}
}

func TestCheckRisk(t *testing.T) {
	risk := models.Risk{
		TakeProfit:   models.RiskRule{Enabled: true, Percentage: 5},
		StopLoss:     models.RiskRule{Enabled: true, Percentage: 2},
		TrailingStop: models.RiskRule{Enabled: true, Percentage: 3},
	}
	pos := &models.Position{Entry: 100, Peak: 104}

	cases := []struct {
		price float64
		want  bool
	}{
		{105, true},   // тейк
		{98, true},    // стоп
		{100.8, true}, // трейлинг от пика 104
		{102, false},
	}
	for _, c := range cases {
		d, ok := CheckRisk(risk, pos, c.price)
		if ok != c.want {
			t.Fatalf("price %v: ok=%v want %v (%s)", c.price, ok, c.want, d.Reason)
		}
		if ok && d.Side != models.SideSell {
			t.Fatalf("price %v: expected SELL", c.price)
		}
	}

	if _, ok := CheckRisk(risk, nil, 50); ok {
		t.Fatal("no position, no risk exit")
	}
}
