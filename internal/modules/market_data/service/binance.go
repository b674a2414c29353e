package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/futures"

	"strategy_orchestrator/internal/models"
	"strategy_orchestrator/internal/modules/config"
)

// MaxCandles максимальный limit у klines, общий для spot и futures.
// Окно стратегии больше этого значения одним запросом не получить.
const MaxCandles = 1000

// SpotProvider binance spot klines.
type SpotProvider struct {
	api *binance.Client
}

func NewSpotProvider(cfg *config.Config) *SpotProvider {
	return &SpotProvider{api: binance.NewClient(cfg.MarketData.APIKey, cfg.MarketData.APISecret)}
}

// SetBaseURL переключает REST-эндпоинт (testnet, httptest).
func (p *SpotProvider) SetBaseURL(u string) { p.api.BaseURL = u }

func (p *SpotProvider) Candles(ctx context.Context, symbol string, res models.Resolution, hours int) ([]models.Candle, error) {
	// без startTime binance отдаёт последние limit свечей, заканчивая текущей
	klines, err := p.api.NewKlinesService().
		Symbol(symbol).
		Interval(res.Token).
		Limit(klineLimit(res, hours)).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]klineRow, 0, len(klines))
	for _, k := range klines {
		if k == nil {
			continue
		}
		rows = append(rows, klineRow{openTime: k.OpenTime, high: k.High, low: k.Low, close: k.Close})
	}
	return toCandles(symbol, rows)
}

// FuturesProvider binance USD-M futures klines.
type FuturesProvider struct {
	api *futures.Client
}

func NewFuturesProvider(cfg *config.Config) *FuturesProvider {
	return &FuturesProvider{api: futures.NewClient(cfg.MarketData.APIKey, cfg.MarketData.APISecret)}
}

func (p *FuturesProvider) SetBaseURL(u string) { p.api.BaseURL = u }

func (p *FuturesProvider) Candles(ctx context.Context, symbol string, res models.Resolution, hours int) ([]models.Candle, error) {
	// без startTime binance отдаёт последние limit свечей, заканчивая текущей
	klines, err := p.api.NewKlinesService().
		Symbol(symbol).
		Interval(res.Token).
		Limit(klineLimit(res, hours)).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]klineRow, 0, len(klines))
	for _, k := range klines {
		if k == nil {
			continue
		}
		rows = append(rows, klineRow{openTime: k.OpenTime, high: k.High, low: k.Low, close: k.Close})
	}
	return toCandles(symbol, rows)
}

type klineRow struct {
	openTime         int64
	high, low, close string
}

func klineLimit(res models.Resolution, hours int) int {
	n := hours*60/res.Minutes + 1
	if n > MaxCandles {
		n = MaxCandles
	}
	if n < 1 {
		n = 1
	}
	return n
}

// toCandles парсит строки binance; любой битый ряд делает весь ответ невалидным.
func toCandles(symbol string, rows []klineRow) ([]models.Candle, error) {
	out := make([]models.Candle, 0, len(rows))
	for i, r := range rows {
		high, err1 := strconv.ParseFloat(r.high, 64)
		low, err2 := strconv.ParseFloat(r.low, 64)
		closep, err3 := strconv.ParseFloat(r.close, 64)
		if err1 != nil || err2 != nil || err3 != nil || r.openTime <= 0 {
			return nil, fmt.Errorf("%w: malformed kline %d for %s: %+v", models.ErrData, i, symbol, r)
		}
		if closep <= 0 {
			return nil, fmt.Errorf("%w: non-positive close in kline %d for %s", models.ErrData, i, symbol)
		}
		out = append(out, models.Candle{
			Timestamp: r.openTime / 1000,
			Price:     closep,
			High:      high,
			Low:       low,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}
