package service

import (
	"github.com/pkg/errors"

	"strategy_orchestrator/internal/models"
)

// Engine считает снапшоты индикаторов. Состояния не держит.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// RequiredCandles сколько свечей нужно, чтобы получить lookback надёжных снапшотов.
func RequiredCandles(maxPeriod, lookback int) int {
	if lookback < 1 {
		lookback = 1
	}
	return maxPeriod*ReliableFactor + lookback - 1
}

// Snapshots по одному снапшоту на каждую из последних lookback свечей.
// EMA для свечи i считается по хвосту цен, оканчивающемуся на i, длиной
// ReliableFactor*max(periods); ранние снапшоты пачки смотрят на более старое окно.
func (e *Engine) Snapshots(candles []models.Candle, periods []int, lookback int) ([]models.IndicatorSnapshot, error) {
	if len(periods) == 0 {
		return nil, errors.New("snapshots: no ema periods")
	}
	if lookback < 1 {
		return nil, errors.Errorf("snapshots: lookback must be >= 1, got %d", lookback)
	}
	if len(candles) < lookback {
		return nil, errors.Wrapf(models.ErrInsufficientData, "snapshots: have %d candles, lookback %d", len(candles), lookback)
	}

	maxPeriod := 0
	for _, p := range periods {
		if p > maxPeriod {
			maxPeriod = p
		}
	}
	window := maxPeriod * ReliableFactor

	prices := make([]float64, len(candles))
	for i, c := range candles {
		prices[i] = c.Price
	}

	out := make([]models.IndicatorSnapshot, 0, lookback)
	for i := len(candles) - lookback; i < len(candles); i++ {
		start := i + 1 - window
		if start < 0 {
			start = 0
		}
		slice := prices[start : i+1]

		emas := make(map[int]float64, len(periods))
		for _, p := range periods {
			v, err := EMA(slice, p)
			if err != nil {
				return nil, errors.Wrapf(err, "snapshot at %d", candles[i].Timestamp)
			}
			emas[p] = v
		}
		c := candles[i]
		out = append(out, models.IndicatorSnapshot{
			Price:     c.Price,
			High:      c.High,
			Low:       c.Low,
			Timestamp: c.Timestamp,
			EMA:       emas,
		})
	}
	return out, nil
}
