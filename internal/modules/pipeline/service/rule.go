package service

import (
	"fmt"

	"strategy_orchestrator/internal/models"
)

// Decision итог оценки правила: SideNone значит ничего не делать.
type Decision struct {
	Side   models.Side
	Reason string
}

// Rule правило входа/выхода конкретной стратегии.
// snapshots отсортированы по времени, последний считается текущим.
type Rule interface {
	Evaluate(snapshots []models.IndicatorSnapshot, cfg models.StrategyConfig, pos *models.Position) Decision
}

// CheckRisk тейк/стоп/трейлинг для открытой позиции по текущей цене.
func CheckRisk(risk models.Risk, pos *models.Position, price float64) (Decision, bool) {
	if pos == nil || pos.Entry <= 0 {
		return Decision{}, false
	}
	if r := risk.TakeProfit; r.Enabled && price >= pos.Entry*(1+r.Percentage/100) {
		return Decision{Side: models.SideSell, Reason: fmt.Sprintf("take-profit %.2f%%: price=%.6f entry=%.6f", r.Percentage, price, pos.Entry)}, true
	}
	if r := risk.StopLoss; r.Enabled && price <= pos.Entry*(1-r.Percentage/100) {
		return Decision{Side: models.SideSell, Reason: fmt.Sprintf("stop-loss %.2f%%: price=%.6f entry=%.6f", r.Percentage, price, pos.Entry)}, true
	}
	if r := risk.TrailingStop; r.Enabled && pos.Peak > 0 && price <= pos.Peak*(1-r.Percentage/100) {
		return Decision{Side: models.SideSell, Reason: fmt.Sprintf("trailing-stop %.2f%%: price=%.6f peak=%.6f", r.Percentage, price, pos.Peak)}, true
	}
	return Decision{}, false
}
