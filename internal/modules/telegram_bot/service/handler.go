package service

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"strategy_orchestrator/internal/models"
)

var helpText = "*Команды*\n" +
	esc("/status — состояние стратегий\n/run <name> — запустить стратегию сейчас")

func (c *Commands) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}
	chatID := msg.Chat.ID
	if chatID != c.chatID {
		c.log.Warn("[TG] command from unknown chat ignored", zap.Int64("chat_id", chatID))
		return
	}

	switch msg.Command() {
	case "start", "help":
		c.send(chatID, helpText)
	case "status":
		c.send(chatID, formatStatus(c.status.Status()))
	case "run":
		c.handleRun(ctx, chatID, strings.TrimSpace(msg.CommandArguments()))
	default:
		c.send(chatID, "Неизвестная команда\n\n"+helpText)
	}
}

func (c *Commands) handleRun(ctx context.Context, chatID int64, name string) {
	if name == "" {
		c.send(chatID, esc("Укажи стратегию: /run <name>"))
		return
	}
	res, err := c.trigger.Trigger(ctx, name)
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.send(chatID, "❓ Стратегия `"+esc(name)+"` не найдена")
	case errors.Is(err, models.ErrAlreadyRunning):
		c.send(chatID, "⏳ `"+esc(name)+"` уже выполняется")
	case err != nil:
		c.log.Error("[TG] trigger failed", zap.String("strategy", name), zap.Error(err))
		c.send(chatID, "❌ "+esc(err.Error()))
	default:
		c.send(chatID, formatResult(name, res))
	}
}
