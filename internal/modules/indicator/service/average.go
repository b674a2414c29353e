package service

import (
	"github.com/pkg/errors"

	"strategy_orchestrator/internal/models"
)

// ReliableFactor сколько периодов прогрева нужно EMA, чтобы ей можно было верить.
const ReliableFactor = 3

// SMA среднее последних period значений.
func SMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.Errorf("sma: period must be positive, got %d", period)
	}
	if len(prices) < period {
		return 0, errors.Wrapf(models.ErrInsufficientData, "sma(%d): have %d prices", period, len(prices))
	}
	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period), nil
}

// EMA по всей серии: стартуем с SMA первых period значений и идём вперёд до конца.
func EMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.Errorf("ema: period must be positive, got %d", period)
	}
	if len(prices) < period {
		return 0, errors.Wrapf(models.ErrInsufficientData, "ema(%d): have %d prices", period, len(prices))
	}
	if len(prices) < period*ReliableFactor {
		return 0, errors.Wrapf(models.ErrUnreliableData, "ema(%d): have %d prices, need %d",
			period, len(prices), period*ReliableFactor)
	}

	ema, err := SMA(prices[:period], period)
	if err != nil {
		return 0, err
	}
	k := 2.0 / (float64(period) + 1)
	for _, price := range prices[period:] {
		ema = price*k + ema*(1-k)
	}
	return ema, nil
}
