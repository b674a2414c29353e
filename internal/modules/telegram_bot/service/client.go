package service

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"strategy_orchestrator/internal/models"
	"strategy_orchestrator/internal/modules/config"
	scheduler "strategy_orchestrator/internal/modules/scheduler/service"
	status "strategy_orchestrator/internal/modules/status/service"
)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Triggerer interface {
	Trigger(ctx context.Context, name string) (models.RunResult, error)
}

type StatusProvider interface {
	Status() status.Report
}

// Commands операторские команды в чате: /status, /run <name>.
// Отвечает только в чат из конфига.
type Commands struct {
	bot     botAPI
	chatID  int64
	log     *zap.Logger
	status  StatusProvider
	trigger Triggerer
}

var ErrDisabled = errors.New("telegram commands disabled")

func NewCommands(cfg *config.Config, log *zap.Logger, reporter *status.Reporter, sched *scheduler.Scheduler) (*Commands, error) {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		return nil, ErrDisabled
	}
	b, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return NewCommandsWith(b, cfg.Telegram.ChatID, log, reporter, sched), nil
}

func NewCommandsWith(bot botAPI, chatID int64, log *zap.Logger, sp StatusProvider, t Triggerer) *Commands {
	return &Commands{bot: bot, chatID: chatID, log: log, status: sp, trigger: t}
}

func (c *Commands) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := c.bot.Send(msg); err != nil {
		c.log.Warn("[TG] send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// Start читает апдейты до отмены ctx или StopReceivingUpdates.
func (c *Commands) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := c.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				c.handleUpdate(ctx, update)
			}
		}
	}()
}

func (c *Commands) Stop() {
	c.bot.StopReceivingUpdates()
}
