package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"strategy_orchestrator/internal/models"
	alert "strategy_orchestrator/internal/modules/alert/service"
	pipeline "strategy_orchestrator/internal/modules/pipeline/service"
	"strategy_orchestrator/pkg/metrics"
)

type PipelineRunner interface {
	Run(ctx context.Context, ls *models.LoadedStrategy, trigger pipeline.Trigger) models.RunResult
}

// минимальный шаг @every, чаще стандартный cron тоже не умеет
const minEvery = time.Minute

// ParseSchedule стандартный 5-польный cron или дескриптор (@hourly, @every 5m).
// @every короче минуты отклоняется.
func ParseSchedule(spec string) (cron.Schedule, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid cron schedule %q: %v", models.ErrConfig, spec, err)
	}
	if every, ok := sched.(cron.ConstantDelaySchedule); ok && every.Delay < minEvery {
		return nil, fmt.Errorf("%w: schedule %q fires more often than every %s", models.ErrConfig, spec, minEvery)
	}
	return sched, nil
}

func ValidateSchedule(spec string) error {
	_, err := ParseSchedule(spec)
	return err
}

// Scheduler держит зарегистрированные стратегии и их cron-таймеры.
// В реестр попадает только стратегия, чей прогрев прошёл успешно.
type Scheduler struct {
	log      *zap.Logger
	runner   PipelineRunner
	notifier alert.Notifier
	cron     *cron.Cron
	now      func() time.Time
	parse    func(spec string) (cron.Schedule, error)

	// базовый контекст плановых прогонов, отменяется в Stop
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.RWMutex
	strategies map[string]*models.LoadedStrategy
	entries    map[string]cron.EntryID
}

func NewScheduler(log *zap.Logger, runner *pipeline.Runner, notifier alert.Notifier) *Scheduler {
	return NewSchedulerWith(log, runner, notifier)
}

func NewSchedulerWith(log *zap.Logger, runner PipelineRunner, notifier alert.Notifier) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cl := cronLogger{log.Sugar()}
	return &Scheduler{
		log:        log,
		runner:     runner,
		notifier:   notifier,
		cron:       cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		now:        time.Now,
		parse:      ParseSchedule,
		ctx:        ctx,
		cancel:     cancel,
		strategies: make(map[string]*models.LoadedStrategy),
		entries:    make(map[string]cron.EntryID),
	}
}

// Register прогревает стратегию синхронно и только при успехе ставит таймер.
func (s *Scheduler) Register(ctx context.Context, ls *models.LoadedStrategy) error {
	name := ls.Name()
	sched, err := s.parse(ls.Config.CronSchedule)
	if err != nil {
		return err
	}

	s.mu.RLock()
	_, dup := s.strategies[name]
	s.mu.RUnlock()
	if dup {
		return fmt.Errorf("%w: strategy %s already registered", models.ErrConfig, name)
	}

	if !ls.TryAcquire() {
		return fmt.Errorf("%w: %s", models.ErrAlreadyRunning, name)
	}
	res := s.runner.Run(ctx, ls, pipeline.TriggerWarmup)
	ls.Release()

	if !res.Success {
		s.log.Error("[SCHED] warm-up failed, strategy not scheduled",
			zap.String("strategy", name),
			zap.String("error", res.Error),
		)
		s.notifier.Notifyf(ctx, "strategy %s warm-up failed: %s", name, res.Error)
		return fmt.Errorf("warm-up %s: %w", name, res.Err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.strategies[name]; dup {
		return fmt.Errorf("%w: strategy %s already registered", models.ErrConfig, name)
	}
	id := s.cron.Schedule(sched, cron.FuncJob(func() { s.fire(name) }))
	s.strategies[name] = ls
	s.entries[name] = id
	metrics.RegisteredStrategies.Set(float64(len(s.entries)))

	s.log.Info("[SCHED] strategy scheduled",
		zap.String("strategy", name),
		zap.String("schedule", ls.Config.CronSchedule),
	)
	return nil
}

// fire срабатывание таймера. Если прошлый прогон ещё идёт, тик пропускается.
func (s *Scheduler) fire(name string) {
	ls, ok := s.Get(name)
	if !ok {
		return
	}
	if !ls.TryAcquire() {
		metrics.RejectedRuns.WithLabelValues(name, string(pipeline.TriggerSchedule)).Inc()
		s.log.Warn("[SCHED] previous run still in flight, tick skipped", zap.String("strategy", name))
		return
	}
	defer ls.Release()

	firedAt := s.now()
	res := s.runner.Run(s.ctx, ls, pipeline.TriggerSchedule)
	if !res.Success {
		s.log.Error("[SCHED] scheduled run failed",
			zap.String("strategy", name),
			zap.Time("fired_at", firedAt),
			zap.String("error", res.Error),
		)
	}
}

// Trigger ручной прогон вне расписания. Ошибка только если стратегии нет
// или она уже выполняется; неудача пайплайна возвращается в RunResult.
func (s *Scheduler) Trigger(ctx context.Context, name string) (models.RunResult, error) {
	ls, ok := s.Get(name)
	if !ok {
		return models.RunResult{}, fmt.Errorf("%w: strategy %s", models.ErrNotFound, name)
	}
	if !ls.TryAcquire() {
		metrics.RejectedRuns.WithLabelValues(name, string(pipeline.TriggerManual)).Inc()
		return models.RunResult{}, fmt.Errorf("%w: %s", models.ErrAlreadyRunning, name)
	}
	defer ls.Release()
	return s.runner.Run(ctx, ls, pipeline.TriggerManual), nil
}

// Unregister снимает таймер и убирает стратегию из реестра.
func (s *Scheduler) Unregister(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.entries[name]
	if !ok {
		return false
	}
	s.cron.Remove(id)
	delete(s.entries, name)
	delete(s.strategies, name)
	metrics.RegisteredStrategies.Set(float64(len(s.entries)))
	return true
}

func (s *Scheduler) Get(name string) (*models.LoadedStrategy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ls, ok := s.strategies[name]
	return ls, ok
}

// Strategies зарегистрированные стратегии по имени.
func (s *Scheduler) Strategies() []*models.LoadedStrategy {
	s.mu.RLock()
	out := make([]*models.LoadedStrategy, 0, len(s.strategies))
	for _, ls := range s.strategies {
		out = append(out, ls)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// NextRun время следующего срабатывания, zero если не зарегистрирована.
func (s *Scheduler) NextRun(name string) time.Time {
	s.mu.RLock()
	id, ok := s.entries[name]
	s.mu.RUnlock()
	if !ok {
		return time.Time{}
	}
	e := s.cron.Entry(id)
	if e.Next.IsZero() && e.Schedule != nil {
		// до Start cron не заполняет Next
		return e.Schedule.Next(s.now())
	}
	return e.Next
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop новые тики не запускаются, идущие прогоны дожидаемся до дедлайна ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	defer s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type cronLogger struct{ l *zap.SugaredLogger }

func (c cronLogger) Info(msg string, kv ...interface{}) { c.l.Debugw("[CRON] "+msg, kv...) }
func (c cronLogger) Error(err error, msg string, kv ...interface{}) {
	c.l.Errorw("[CRON] "+msg, append(kv, "error", err)...)
}
