package scheduler

import (
	"context"

	"go.uber.org/fx"

	"strategy_orchestrator/internal/modules/scheduler/service"
)

func Module() fx.Option {
	return fx.Module("scheduler",
		fx.Provide(service.NewScheduler),
		fx.Invoke(func(lc fx.Lifecycle, s *service.Scheduler) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					s.Start()
					return nil
				},
				OnStop: s.Stop,
			})
		}),
	)
}
