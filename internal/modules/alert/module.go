package alert

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"strategy_orchestrator/internal/modules/alert/service"
	"strategy_orchestrator/internal/modules/config"
)

// Module: без TELEGRAM_* или при ошибке бота алерты идут в stdout.
func Module() fx.Option {
	return fx.Module("alert",
		fx.Provide(
			func(cfg *config.Config, log *zap.Logger) service.Notifier {
				if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
					tg, err := service.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, log)
					if err == nil {
						return tg
					}
					log.Warn("telegram init failed, falling back to stdout", zap.Error(err))
				}
				return service.NewStdout(log)
			},
		),
	)
}
