package service

import (
	"time"

	"strategy_orchestrator/internal/models"
	scheduler "strategy_orchestrator/internal/modules/scheduler/service"
)

const StatusOperational = "operational"

type Source interface {
	Strategies() []*models.LoadedStrategy
	NextRun(name string) time.Time
}

type Report struct {
	Status     string           `json:"status"`
	Ready      bool             `json:"ready"`
	UptimeSec  int64            `json:"uptimeSec"`
	Strategies []StrategyStatus `json:"strategies"`
	LastUpdate string           `json:"lastUpdate"`
	LoadedAt   *time.Time       `json:"loadedAt,omitempty"`
}

type StrategyStatus struct {
	Name        string     `json:"name"`
	Enabled     bool       `json:"enabled"`
	Schedule    string     `json:"schedule"`
	Symbol      string     `json:"symbol"`
	NextRunAt   *time.Time `json:"nextRunAt,omitempty"`
	LastRunAt   *time.Time `json:"lastRunAt,omitempty"`
	LastSuccess *bool      `json:"lastSuccess,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
	InFlight    bool       `json:"inFlight"`
	Runs        int64      `json:"runs"`
}

// Reporter собирает снимок состояния, ничего не меняет.
type Reporter struct {
	src   Source
	state *State
	now   func() time.Time
}

func NewReporter(sched *scheduler.Scheduler, state *State) *Reporter {
	return NewReporterWith(sched, state)
}

func NewReporterWith(src Source, state *State) *Reporter {
	return &Reporter{src: src, state: state, now: time.Now}
}

func (r *Reporter) Status() Report {
	list := r.src.Strategies()
	out := make([]StrategyStatus, 0, len(list))
	for _, ls := range list {
		st := ls.State()
		item := StrategyStatus{
			Name:      ls.Name(),
			Enabled:   ls.Config.Enabled,
			Schedule:  ls.Config.CronSchedule,
			Symbol:    ls.Config.Trading.Symbol,
			LastError: st.LastError,
			InFlight:  st.InFlight,
			Runs:      st.Runs,
		}
		if next := r.src.NextRun(ls.Name()); !next.IsZero() {
			n := next.UTC()
			item.NextRunAt = &n
		}
		if !st.LastRunAt.IsZero() {
			at := st.LastRunAt.UTC()
			item.LastRunAt = &at
		}
		if st.LastResult != nil {
			ok := st.LastResult.Success
			item.LastSuccess = &ok
		}
		out = append(out, item)
	}

	rep := Report{
		Status:     StatusOperational,
		Ready:      r.state.Ready(),
		UptimeSec:  int64(r.state.Uptime().Seconds()),
		Strategies: out,
		LastUpdate: r.now().UTC().Format(time.RFC3339),
	}
	if at := r.state.LoadedAt(); !at.IsZero() {
		at = at.UTC()
		rep.LoadedAt = &at
	}
	return rep
}
