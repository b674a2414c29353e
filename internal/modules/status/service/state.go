package service

import (
	"sync/atomic"
	"time"
)

// State готовность процесса: ready ставится после загрузки стратегий.
type State struct {
	ready     atomic.Bool
	startedAt time.Time

	loadedUnix atomic.Int64 // unix seconds
}

func NewState() *State {
	return &State{startedAt: time.Now()}
}

func (s *State) SetReady(v bool) {
	s.ready.Store(v)
}

func (s *State) Ready() bool {
	return s.ready.Load()
}

func (s *State) MarkLoaded(t time.Time) {
	s.loadedUnix.Store(t.Unix())
}

func (s *State) LoadedAt() time.Time {
	u := s.loadedUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
