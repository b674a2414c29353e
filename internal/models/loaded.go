package models

import (
	"sync"
	"sync/atomic"
	"time"
)

// LoadedStrategy стратегия, прошедшая валидацию: конфиг, пайплайн и состояние прогонов.
// Живёт до остановки процесса.
type LoadedStrategy struct {
	Config   StrategyConfig
	Pipeline Strategy
	Dir      string

	inFlight atomic.Bool

	mu         sync.RWMutex
	lastRunAt  time.Time
	lastResult *RunResult
	lastError  string
	runs       int64
}

func NewLoadedStrategy(cfg StrategyConfig, p Strategy, dir string) *LoadedStrategy {
	return &LoadedStrategy{Config: cfg, Pipeline: p, Dir: dir}
}

func (l *LoadedStrategy) Name() string { return l.Config.Name }

// TryAcquire ставит флаг inFlight; false если прогон уже идёт.
func (l *LoadedStrategy) TryAcquire() bool {
	return l.inFlight.CompareAndSwap(false, true)
}

func (l *LoadedStrategy) Release() {
	l.inFlight.Store(false)
}

func (l *LoadedStrategy) InFlight() bool {
	return l.inFlight.Load()
}

// Record фиксирует итог прогона.
func (l *LoadedStrategy) Record(at time.Time, res RunResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastRunAt = at
	r := res
	l.lastResult = &r
	l.lastError = res.Error
	l.runs++
}

// StrategyState копия runtime-состояния для чтения снаружи.
type StrategyState struct {
	LastRunAt  time.Time
	LastResult *RunResult
	LastError  string
	InFlight   bool
	Runs       int64
}

func (l *LoadedStrategy) State() StrategyState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return StrategyState{
		LastRunAt:  l.lastRunAt,
		LastResult: l.lastResult,
		LastError:  l.lastError,
		InFlight:   l.inFlight.Load(),
		Runs:       l.runs,
	}
}
