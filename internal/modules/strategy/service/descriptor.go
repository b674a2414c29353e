package service

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"strategy_orchestrator/internal/models"
	scheduler "strategy_orchestrator/internal/modules/scheduler/service"
)

const descriptorName = "config"

// ReadDescriptor читает config.yaml|yml|json из каталога стратегии.
// Пустые name и entry берутся из имени каталога.
func ReadDescriptor(dir string) (models.StrategyConfig, error) {
	v := viper.New()
	v.SetConfigName(descriptorName)
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if errors.As(err, &nf) {
			return models.StrategyConfig{}, fmt.Errorf("%w: no %s.(yaml|json) in %s", models.ErrConfig, descriptorName, dir)
		}
		return models.StrategyConfig{}, fmt.Errorf("%w: malformed descriptor in %s: %v", models.ErrConfig, dir, err)
	}
	if !v.IsSet("cronSchedule") || v.GetString("cronSchedule") == "" {
		return models.StrategyConfig{}, fmt.Errorf("%w: cronSchedule is missing in %s", models.ErrConfig, v.ConfigFileUsed())
	}

	var cfg models.StrategyConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return models.StrategyConfig{}, fmt.Errorf("%w: decode %s: %v", models.ErrConfig, v.ConfigFileUsed(), err)
	}

	base := filepath.Base(dir)
	if cfg.Name == "" {
		cfg.Name = base
	}
	if cfg.Entry == "" {
		cfg.Entry = base
	}
	return cfg, nil
}

// Validate структурная проверка дескриптора, disabled проверяется отдельно.
func Validate(cfg models.StrategyConfig) error {
	if err := scheduler.ValidateSchedule(cfg.CronSchedule); err != nil {
		return err
	}
	if cfg.Trading.Symbol == "" {
		return fmt.Errorf("%w: trading.symbol is required", models.ErrConfig)
	}
	if cfg.Trading.Timeframe <= 0 {
		return fmt.Errorf("%w: trading.timeframe must be positive, got %d", models.ErrConfig, cfg.Trading.Timeframe)
	}
	if cfg.Trading.PositionSize < 0 {
		return fmt.Errorf("%w: trading.position_size must not be negative", models.ErrConfig)
	}
	seen := make(map[int]struct{}, len(cfg.Indicators.EMA))
	for _, p := range cfg.Indicators.EMA {
		if p <= 0 {
			return fmt.Errorf("%w: ema period must be positive, got %d", models.ErrConfig, p)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: duplicate ema period %d", models.ErrConfig, p)
		}
		seen[p] = struct{}{}
	}
	for name, r := range map[string]models.RiskRule{
		"take_profit":   cfg.Risk.TakeProfit,
		"stop_loss":     cfg.Risk.StopLoss,
		"trailing_stop": cfg.Risk.TrailingStop,
	} {
		if r.Enabled && r.Percentage <= 0 {
			return fmt.Errorf("%w: risk_management.%s.percentage must be positive", models.ErrConfig, name)
		}
	}
	return nil
}
