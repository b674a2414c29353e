package models

import "context"

// StrategyConfig декларативный дескриптор стратегии (config.yaml|json в каталоге стратегии).
type StrategyConfig struct {
	Name         string     `mapstructure:"name" json:"name"`
	Enabled      bool       `mapstructure:"enabled" json:"enabled"`
	CronSchedule string     `mapstructure:"cronSchedule" json:"cronSchedule"`
	Entry        string     `mapstructure:"entry" json:"entry,omitempty"`
	Trading      Trading    `mapstructure:"trading" json:"trading"`
	Indicators   Indicators `mapstructure:"indicators" json:"indicators"`
	Risk         Risk       `mapstructure:"risk_management" json:"risk_management"`
}

type Trading struct {
	Symbol       string  `mapstructure:"symbol" json:"symbol"`
	PositionSize float64 `mapstructure:"position_size" json:"position_size"`
	Timeframe    int     `mapstructure:"timeframe" json:"timeframe"` // минуты
}

type Indicators struct {
	EMA []int `mapstructure:"ema" json:"ema"`
}

type Risk struct {
	TakeProfit   RiskRule `mapstructure:"take_profit" json:"take_profit"`
	StopLoss     RiskRule `mapstructure:"stop_loss" json:"stop_loss"`
	TrailingStop RiskRule `mapstructure:"trailing_stop" json:"trailing_stop"`
}

type RiskRule struct {
	Enabled    bool    `mapstructure:"enabled" json:"enabled"`
	Percentage float64 `mapstructure:"percentage" json:"percentage"`
}

// MaxPeriod наибольший период EMA, 0 если периодов нет.
func (c StrategyConfig) MaxPeriod() int {
	m := 0
	for _, p := range c.Indicators.EMA {
		if p > m {
			m = p
		}
	}
	return m
}

// MinPeriod наименьший период EMA, 0 если периодов нет.
func (c StrategyConfig) MinPeriod() int {
	m := 0
	for _, p := range c.Indicators.EMA {
		if m == 0 || p < m {
			m = p
		}
	}
	return m
}

// Details произвольный результат одного прогона, отдаётся в HTTP и пишется в jsonb.
type Details map[string]any

// Strategy контракт, который реализует каждый пайплайн.
// Initialize вызывается один раз при загрузке, Run на каждый прогон.
type Strategy interface {
	Initialize(ctx context.Context, cfg StrategyConfig) error
	Run(ctx context.Context) (Details, error)
}
