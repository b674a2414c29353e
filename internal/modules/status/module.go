package status

import (
	"go.uber.org/fx"

	"strategy_orchestrator/internal/modules/status/service"
)

func Module() fx.Option {
	return fx.Module("status",
		fx.Provide(
			service.NewState,
			service.NewReporter,
		),
	)
}
