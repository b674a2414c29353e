package main

import (
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"strategy_orchestrator/internal/modules/alert"
	"strategy_orchestrator/internal/modules/config"
	"strategy_orchestrator/internal/modules/execution"
	"strategy_orchestrator/internal/modules/http_server"
	"strategy_orchestrator/internal/modules/indicator"
	"strategy_orchestrator/internal/modules/market_data"
	"strategy_orchestrator/internal/modules/pipeline"
	"strategy_orchestrator/internal/modules/postgres"
	"strategy_orchestrator/internal/modules/scheduler"
	"strategy_orchestrator/internal/modules/status"
	"strategy_orchestrator/internal/modules/storage"
	"strategy_orchestrator/internal/modules/strategy"
	telegram "strategy_orchestrator/internal/modules/telegram_bot"
	"strategy_orchestrator/pkg/logger"
	"strategy_orchestrator/pkg/tracing"
)

func main() {
	app := fx.New(
		// прогрев всех стратегий идёт внутри OnStart
		fx.StartTimeout(5*time.Minute),
		fx.StopTimeout(2*time.Minute),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),

		config.Module(),
		logger.Module(),
		tracing.Module(),
		postgres.Module(),
		storage.Module(),
		alert.Module(),
		execution.Module(),
		market_data.Module(),
		indicator.Module(),
		pipeline.Module(),
		scheduler.Module(),
		status.Module(),
		http_server.Module(),
		strategy.Module(),
		telegram.Module(),
	)
	app.Run()
}
