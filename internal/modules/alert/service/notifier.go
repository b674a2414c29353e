package service

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier доставка алертов о решениях и сбоях стратегий.
type Notifier interface {
	Notify(ctx context.Context, msg string)
	Notifyf(ctx context.Context, format string, args ...any)
}

type sender interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
}

// Telegram пассивный нотифайер в один чат.
type Telegram struct {
	bot    sender
	chatID int64
	log    *zap.Logger
}

func NewTelegram(token string, chatID int64, log *zap.Logger) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: b, chatID: chatID, log: log}, nil
}

func (t *Telegram) Notify(_ context.Context, msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		t.log.Warn("telegram send failed", zap.Error(err))
	}
}

func (t *Telegram) Notifyf(ctx context.Context, format string, args ...any) {
	t.Notify(ctx, fmt.Sprintf(format, args...))
}

// Stdout заглушка: всё уходит в лог.
type Stdout struct {
	log *zap.Logger
}

func NewStdout(log *zap.Logger) *Stdout { return &Stdout{log: log} }

func (s *Stdout) Notify(_ context.Context, msg string) {
	s.log.Info("[ALERT] " + msg)
}

func (s *Stdout) Notifyf(ctx context.Context, format string, args ...any) {
	s.Notify(ctx, fmt.Sprintf(format, args...))
}
