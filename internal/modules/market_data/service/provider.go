package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"strategy_orchestrator/internal/models"
	"strategy_orchestrator/internal/modules/config"
	indicator "strategy_orchestrator/internal/modules/indicator/service"
)

type Kind string

const (
	KindSpot    Kind = "spot"
	KindFutures Kind = "futures"
)

// Provider источник свечей одного вида рынка.
// Возвращает свечи по возрастанию времени за последние hours часов.
type Provider interface {
	Candles(ctx context.Context, symbol string, res models.Resolution, hours int) ([]models.Candle, error)
}

// CandleSet свечи плюс то, откуда и в каком разрешении они пришли.
type CandleSet struct {
	Kind        Kind
	Symbol      string
	Resolution  models.Resolution
	Substituted bool
	Candles     []models.Candle
}

// Adapter выбирает провайдера по символу и оборачивает вызов в таймаут, ретраи, лимитер и кеш.
type Adapter struct {
	log      *zap.Logger
	spot     Provider
	futures  Provider
	prefixes []string

	timeout  time.Duration
	retries  int
	initial  time.Duration
	maxDelay time.Duration

	limiter *rate.Limiter
	cache   *cache.Cache
	ttl     time.Duration
}

func NewAdapter(cfg *config.Config, log *zap.Logger, spot *SpotProvider, futures *FuturesProvider) *Adapter {
	return NewAdapterWith(cfg.MarketData, log, spot, futures)
}

// NewAdapterWith собирает адаптер из произвольных провайдеров.
func NewAdapterWith(md config.MarketData, log *zap.Logger, spot, futures Provider) *Adapter {
	a := &Adapter{
		log:      log,
		spot:     spot,
		futures:  futures,
		prefixes: md.FuturesPrefixes,
		timeout:  md.RequestTimeout,
		retries:  md.MaxRetries,
		initial:  md.InitialBackoff,
		maxDelay: md.MaxBackoff,
		limiter:  rate.NewLimiter(rate.Limit(md.RatePerSecond), md.RateBurst),
		ttl:      md.CacheTTL,
	}
	if md.CacheTTL > 0 {
		a.cache = cache.New(md.CacheTTL, 2*md.CacheTTL)
	}
	return a
}

// Select возвращает вид инструмента и символ без префикса.
func (a *Adapter) Select(symbol string) (Kind, string) {
	for _, p := range a.prefixes {
		if strings.HasPrefix(symbol, p) {
			return KindFutures, strings.TrimPrefix(symbol, p)
		}
	}
	return KindSpot, symbol
}

// WindowHours окно в часах, покрывающее count свечей интервала res.
func WindowHours(res models.Resolution, count int) int {
	minutes := res.Minutes * count
	hours := (minutes + 59) / 60
	if minutes%60 == 0 {
		// запас на текущую, ещё не закрытую свечу
		hours++
	}
	if hours < 1 {
		hours = 1
	}
	return hours
}

// Candles достаёт не меньше count последних свечей для таймфрейма в минутах.
func (a *Adapter) Candles(ctx context.Context, symbol string, timeframe, count int) (CandleSet, error) {
	res, substituted := indicator.Resolve(indicator.Resolutions, timeframe)
	if substituted {
		a.log.Warn("timeframe not supported, using closest resolution",
			zap.String("symbol", symbol),
			zap.Int("requested_minutes", timeframe),
			zap.Int("used_minutes", res.Minutes),
			zap.String("token", res.Token),
		)
	}

	kind, instrument := a.Select(symbol)
	p := a.spot
	if kind == KindFutures {
		p = a.futures
	}
	set := CandleSet{Kind: kind, Symbol: instrument, Resolution: res, Substituted: substituted}
	if p == nil {
		return set, fmt.Errorf("%w: no %s provider configured", models.ErrData, kind)
	}

	hours := WindowHours(res, count)
	key := fmt.Sprintf("%s:%s:%s:%d", kind, instrument, res.Token, hours)
	if a.cache != nil {
		if v, ok := a.cache.Get(key); ok {
			set.Candles = v.([]models.Candle)
			return set, nil
		}
	}

	candles, err := a.fetch(ctx, p, instrument, res, hours)
	if err != nil {
		return set, err
	}
	if len(candles) == 0 {
		return set, fmt.Errorf("%w: empty %s response for %s %s", models.ErrData, kind, instrument, res.Token)
	}
	if a.cache != nil {
		a.cache.Set(key, candles, a.ttl)
	}
	set.Candles = candles
	return set, nil
}

func (a *Adapter) fetch(ctx context.Context, p Provider, symbol string, res models.Resolution, hours int) ([]models.Candle, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = a.initial
	b.MaxInterval = a.maxDelay

	attempt := 0
	op := func() ([]models.Candle, error) {
		attempt++
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()

		cs, err := p.Candles(callCtx, symbol, res, hours)
		if err == nil {
			return cs, nil
		}
		if errors.Is(err, models.ErrData) {
			return nil, backoff.Permanent(err)
		}
		a.log.Warn("candle fetch failed",
			zap.String("symbol", symbol),
			zap.String("token", res.Token),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return nil, err
	}

	cs, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(a.retries)),
	)
	if err != nil {
		if errors.Is(err, models.ErrData) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: fetch %s %s after %d attempts: %v", models.ErrData, symbol, res.Token, attempt, err)
	}
	return cs, nil
}
