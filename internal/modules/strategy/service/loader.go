package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"strategy_orchestrator/internal/models"
	scheduler "strategy_orchestrator/internal/modules/scheduler/service"
)

// Registrar прогревает и ставит стратегию на расписание.
type Registrar interface {
	Register(ctx context.Context, ls *models.LoadedStrategy) error
}

// Report итог загрузки: что поднялось и почему пропущено остальное (по каталогу).
type Report struct {
	Loaded  map[string]*models.LoadedStrategy
	Skipped map[string]error
}

type Loader struct {
	log       *zap.Logger
	registry  *Registry
	registrar Registrar
}

func NewLoader(log *zap.Logger, registry *Registry, sched *scheduler.Scheduler) *Loader {
	return NewLoaderWith(log, registry, sched)
}

func NewLoaderWith(log *zap.Logger, registry *Registry, registrar Registrar) *Loader {
	return &Loader{log: log, registry: registry, registrar: registrar}
}

// Load обходит подкаталоги root. Ошибка одной стратегии её пропускает
// и не мешает остальным; ошибка возвращается только если root не читается.
func (l *Loader) Load(ctx context.Context, root string) (Report, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return Report{}, fmt.Errorf("%w: read strategies dir %s: %v", models.ErrLoad, root, err)
	}

	rep := Report{
		Loaded:  make(map[string]*models.LoadedStrategy),
		Skipped: make(map[string]error),
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		ls, err := l.loadOne(ctx, dir, rep.Loaded)
		if err != nil {
			rep.Skipped[e.Name()] = err
			l.log.Warn("[LOAD] strategy skipped", zap.String("dir", dir), zap.Error(err))
			continue
		}
		rep.Loaded[ls.Name()] = ls
		l.log.Info("[LOAD] strategy loaded",
			zap.String("strategy", ls.Name()),
			zap.String("entry", ls.Config.Entry),
			zap.String("schedule", ls.Config.CronSchedule),
		)
	}

	l.log.Info("[LOAD] done", zap.Int("loaded", len(rep.Loaded)), zap.Int("skipped", len(rep.Skipped)))
	return rep, nil
}

func (l *Loader) loadOne(ctx context.Context, dir string, loaded map[string]*models.LoadedStrategy) (*models.LoadedStrategy, error) {
	cfg, err := ReadDescriptor(dir)
	if err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return nil, fmt.Errorf("%w: strategy %s is disabled", models.ErrConfig, cfg.Name)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("strategy %s: %w", cfg.Name, err)
	}
	if _, dup := loaded[cfg.Name]; dup {
		return nil, fmt.Errorf("%w: duplicate strategy name %s", models.ErrConfig, cfg.Name)
	}

	factory, ok := l.registry.Lookup(cfg.Entry)
	if !ok {
		return nil, fmt.Errorf("%w: strategy %s: unknown entry %q", models.ErrLoad, cfg.Name, cfg.Entry)
	}
	pipeline := factory()
	if err := pipeline.Initialize(ctx, cfg); err != nil {
		return nil, fmt.Errorf("%w: strategy %s: initialize: %v", models.ErrLoad, cfg.Name, err)
	}

	ls := models.NewLoadedStrategy(cfg, pipeline, dir)
	if err := l.registrar.Register(ctx, ls); err != nil {
		return nil, err
	}
	return ls, nil
}
