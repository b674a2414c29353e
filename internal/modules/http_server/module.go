package http_server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"strategy_orchestrator/internal/modules/config"
	"strategy_orchestrator/internal/modules/http_server/service"
)

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, router *gin.Engine) {
	srv := &http.Server{
		Addr:              cfg.Service.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("[HTTP] listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("[HTTP] serve stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("http_server",
		fx.Provide(
			service.NewHandler,
			service.NewRouter,
		),
		fx.Invoke(RunHTTP),
	)
}
