package service

import (
	"context"
	"fmt"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"go.uber.org/zap"

	"strategy_orchestrator/internal/models"
	"strategy_orchestrator/internal/modules/config"
	storage "strategy_orchestrator/internal/modules/storage/service"
	"strategy_orchestrator/pkg/metrics"
)

type Trigger string

const (
	TriggerWarmup   Trigger = "warmup"
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
)

// Runner граница одного прогона стратегии: что бы ни случилось внутри,
// наружу уходит RunResult, а состояние LoadedStrategy обновляется.
// Флаг inFlight ставит вызывающий (планировщик).
type Runner struct {
	log     *zap.Logger
	store   storage.RunStore
	timeout time.Duration
	now     func() time.Time
}

func NewRunner(cfg *config.Config, log *zap.Logger, store storage.RunStore) *Runner {
	return &Runner{
		log:     log,
		store:   store,
		timeout: cfg.Pipeline.RunTimeout,
		now:     time.Now,
	}
}

func (r *Runner) Run(ctx context.Context, ls *models.LoadedStrategy, trigger Trigger) models.RunResult {
	name := ls.Name()
	span, ctx := opentracing.StartSpanFromContext(ctx, "pipeline.run")
	span.SetTag("strategy", name)
	span.SetTag("trigger", string(trigger))
	defer span.Finish()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	started := r.now()
	details, err := r.invoke(ctx, ls)
	finished := r.now()

	var res models.RunResult
	if err != nil {
		res = models.Failed(err)
	} else {
		res = models.Succeeded(details)
	}

	// пишем даже если контекст прогона уже истёк
	saveCtx, cancelSave := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancelSave()
	if saveErr := r.store.SaveRun(saveCtx, models.RunRecord{
		Strategy:   name,
		Success:    res.Success,
		Details:    res.Details,
		Error:      res.Error,
		StartedAt:  started,
		FinishedAt: finished,
	}); saveErr != nil && res.Success {
		res = models.Failed(fmt.Errorf("%w: persist run: %v", models.ErrExecution, saveErr))
	} else if saveErr != nil {
		r.log.Error("persist failed run", zap.String("strategy", name), zap.Error(saveErr))
	}

	ls.Record(finished, res)

	outcome := "success"
	if !res.Success {
		outcome = "failure"
		ext.Error.Set(span, true)
		span.SetTag("error.message", res.Error)
	}
	metrics.PipelineRuns.WithLabelValues(name, string(trigger), outcome).Inc()
	metrics.PipelineDuration.WithLabelValues(name).Observe(finished.Sub(started).Seconds())

	if res.Success {
		r.log.Info("pipeline run finished",
			zap.String("strategy", name),
			zap.String("trigger", string(trigger)),
			zap.Duration("took", finished.Sub(started)),
		)
	} else {
		r.log.Error("pipeline run failed",
			zap.String("strategy", name),
			zap.String("trigger", string(trigger)),
			zap.Time("at", finished),
			zap.String("error", res.Error),
		)
	}
	return res
}

// invoke вызывает пайплайн стратегии и превращает панику в ErrExecution.
func (r *Runner) invoke(ctx context.Context, ls *models.LoadedStrategy) (details models.Details, err error) {
	defer func() {
		if p := recover(); p != nil {
			details = nil
			err = fmt.Errorf("%w: panic: %v", models.ErrExecution, p)
		}
	}()
	if ls.Pipeline == nil {
		return nil, fmt.Errorf("%w: strategy %s has no pipeline", models.ErrLoad, ls.Name())
	}
	return ls.Pipeline.Run(ctx)
}
