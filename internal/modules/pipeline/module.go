package pipeline

import (
	"go.uber.org/fx"

	"strategy_orchestrator/internal/modules/pipeline/service"
)

func Module() fx.Option {
	return fx.Module("pipeline",
		fx.Provide(
			service.NewRunner,
			service.NewCycle,
		),
	)
}
