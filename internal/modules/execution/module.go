package execution

import (
	"go.uber.org/fx"

	"strategy_orchestrator/internal/modules/execution/service"
)

func Module() fx.Option {
	return fx.Module("execution",
		fx.Provide(
			fx.Annotate(service.NewPaper, fx.As(new(service.Executor))),
		),
	)
}
