package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"strategy_orchestrator/internal/models"
	scheduler "strategy_orchestrator/internal/modules/scheduler/service"
	status "strategy_orchestrator/internal/modules/status/service"
)

type Triggerer interface {
	Trigger(ctx context.Context, name string) (models.RunResult, error)
}

type StatusProvider interface {
	Status() status.Report
}

// Handler операторский HTTP: статус, ручной запуск, пробы и метрики.
type Handler struct {
	log     *zap.Logger
	status  StatusProvider
	trigger Triggerer
	state   *status.State
}

func NewHandler(log *zap.Logger, reporter *status.Reporter, sched *scheduler.Scheduler, state *status.State) *Handler {
	return NewHandlerWith(log, reporter, sched, state)
}

func NewHandlerWith(log *zap.Logger, sp StatusProvider, t Triggerer, state *status.State) *Handler {
	return &Handler{log: log, status: sp, trigger: t, state: state}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/status", h.Status)
	router.POST("/run-pipeline/:strategyName", h.RunPipeline)

	router.GET("/livez", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/readyz", h.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.status.Status())
}

// RunPipeline 200 с результатом, 500 если пайплайн упал,
// 404 для неизвестной стратегии, 409 если она уже выполняется.
func (h *Handler) RunPipeline(c *gin.Context) {
	name := c.Param("strategyName")

	res, err := h.trigger.Trigger(c.Request.Context(), name)
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, models.RunResult{Error: "strategy " + name + " not found"})
		return
	case errors.Is(err, models.ErrAlreadyRunning):
		c.JSON(http.StatusConflict, models.RunResult{Error: "strategy " + name + " is already running"})
		return
	case err != nil:
		h.log.Error("[HTTP] trigger failed", zap.String("strategy", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.RunResult{Error: err.Error()})
		return
	}

	if !res.Success {
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Ready(c *gin.Context) {
	if !h.state.Ready() {
		c.String(http.StatusServiceUnavailable, "not ready")
		return
	}
	c.String(http.StatusOK, "ready")
}

// NewRouter gin без стандартного логгера, пишем через zap.
func NewRouter(log *zap.Logger, h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), accessLog(log))
	h.RegisterRoutes(router)
	return router
}

func accessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug("[HTTP] request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
