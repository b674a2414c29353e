package market_data

import (
	"go.uber.org/fx"

	"strategy_orchestrator/internal/modules/market_data/service"
)

// Module поднимает провайдеров свечей binance spot/futures и общий адаптер.
func Module() fx.Option {
	return fx.Module("market_data",
		fx.Provide(
			service.NewSpotProvider,
			service.NewFuturesProvider,
			service.NewAdapter,
		),
	)
}
