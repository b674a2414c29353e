package indicator

import (
	"go.uber.org/fx"

	"strategy_orchestrator/internal/modules/indicator/service"
)

func Module() fx.Option {
	return fx.Module("indicator",
		fx.Provide(
			service.NewEngine,
		),
	)
}
