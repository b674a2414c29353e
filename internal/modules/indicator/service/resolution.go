package service

import "strategy_orchestrator/internal/models"

// Resolutions интервалы klines, общие для binance spot и USD-M futures, по возрастанию.
var Resolutions = []models.Resolution{
	{Minutes: 1, Token: "1m"},
	{Minutes: 5, Token: "5m"},
	{Minutes: 15, Token: "15m"},
	{Minutes: 30, Token: "30m"},
	{Minutes: 60, Token: "1h"},
	{Minutes: 240, Token: "4h"},
	{Minutes: 720, Token: "12h"},
	{Minutes: 1440, Token: "1d"},
	{Minutes: 10080, Token: "1w"},
}

// Resolve подбирает токен для таймфрейма в минутах.
// substituted=true значит точного совпадения нет и взят ближайший интервал;
// при равном расстоянии остаётся первый найденный (меньший).
func Resolve(table []models.Resolution, minutes int) (res models.Resolution, substituted bool) {
	if len(table) == 0 {
		return models.Resolution{}, false
	}
	best := table[0]
	bestDist := abs(minutes - best.Minutes)
	for _, r := range table {
		if r.Minutes == minutes {
			return r, false
		}
		if d := abs(minutes - r.Minutes); d < bestDist {
			best, bestDist = r, d
		}
	}
	return best, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
