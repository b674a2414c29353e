package service

import (
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"strategy_orchestrator/internal/models"
	status "strategy_orchestrator/internal/modules/status/service"
)

// esc экранирует текст под MarkdownV2. Обратный слэш EscapeText не трогает.
func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, strings.ReplaceAll(s, `\`, `\\`))
}

func formatStatus(rep status.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*📊 Статус:* `%s`\n", esc(rep.Status))
	if len(rep.Strategies) == 0 {
		b.WriteString("\nСтратегий нет")
		return b.String()
	}
	for _, s := range rep.Strategies {
		fmt.Fprintf(&b, "\n*%s* `%s` %s\n", esc(s.Name), esc(s.Schedule), esc(s.Symbol))
		fmt.Fprintf(&b, "  runs: `%d` last: %s", s.Runs, lastMark(s))
		if s.InFlight {
			b.WriteString(" ⏳")
		}
		b.WriteString("\n")
		if s.LastError != "" {
			fmt.Fprintf(&b, "  error: `%s`\n", esc(s.LastError))
		}
	}
	fmt.Fprintf(&b, "\n_%s_", esc(rep.LastUpdate))
	return b.String()
}

func lastMark(s status.StrategyStatus) string {
	switch {
	case s.LastSuccess == nil:
		return "—"
	case *s.LastSuccess:
		return "✅"
	default:
		return "❌"
	}
}

func formatResult(name string, res models.RunResult) string {
	if !res.Success {
		return fmt.Sprintf("❌ *%s*\n`%s`", esc(name), esc(res.Error))
	}
	keys := make([]string, 0, len(res.Details))
	for k := range res.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "✅ *%s*\n", esc(name))
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: `%s`\n", esc(k), esc(fmt.Sprint(res.Details[k])))
	}
	return b.String()
}
