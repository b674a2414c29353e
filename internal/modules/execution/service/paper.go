package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"strategy_orchestrator/internal/models"
)

// Executor исполнитель сделок. Реальный брокер не подключается, есть только paper.
type Executor interface {
	Execute(ctx context.Context, order models.Order) (models.Fill, error)
	Position(strategy string) (models.Position, bool)
	// Mark обновляет пик цены открытой позиции для трейлинг-стопа.
	Mark(strategy string, price float64)
	Realized(strategy string) decimal.Decimal
}

// Paper держит позиции стратегий в памяти: одна позиция (long) на стратегию.
// SELL всегда закрывает позицию целиком, Size заявки игнорируется.
type Paper struct {
	log *zap.Logger
	now func() time.Time

	mu        sync.Mutex
	positions map[string]*models.Position
	realized  map[string]decimal.Decimal
}

func NewPaper(log *zap.Logger) *Paper {
	return &Paper{
		log:       log,
		now:       time.Now,
		positions: make(map[string]*models.Position),
		realized:  make(map[string]decimal.Decimal),
	}
}

func (p *Paper) Execute(_ context.Context, o models.Order) (models.Fill, error) {
	if o.Price <= 0 {
		return models.Fill{}, fmt.Errorf("%w: invalid order price=%v", models.ErrExecution, o.Price)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	fill := models.Fill{Side: o.Side, Size: o.Size, Price: o.Price, FilledAt: now}

	switch o.Side {
	case models.SideBuy:
		if o.Size <= 0 {
			return models.Fill{}, fmt.Errorf("%w: invalid order size=%v", models.ErrExecution, o.Size)
		}
		if _, ok := p.positions[o.Strategy]; ok {
			return models.Fill{}, fmt.Errorf("%w: %s already has an open position", models.ErrExecution, o.Strategy)
		}
		p.positions[o.Strategy] = &models.Position{
			Symbol:   o.Symbol,
			Size:     o.Size,
			Entry:    o.Price,
			Peak:     o.Price,
			OpenedAt: now,
		}
		notional := decimal.NewFromFloat(o.Size).Mul(decimal.NewFromFloat(o.Price))
		p.log.Info("[PAPER] open",
			zap.String("strategy", o.Strategy),
			zap.String("symbol", o.Symbol),
			zap.String("notional", notional.StringFixed(2)),
			zap.String("reason", o.Reason),
		)

	case models.SideSell:
		pos, ok := p.positions[o.Strategy]
		if !ok {
			return models.Fill{}, fmt.Errorf("%w: %s has no open position", models.ErrExecution, o.Strategy)
		}
		size := decimal.NewFromFloat(pos.Size)
		pnl := decimal.NewFromFloat(o.Price).Sub(decimal.NewFromFloat(pos.Entry)).Mul(size)
		p.realized[o.Strategy] = p.realized[o.Strategy].Add(pnl)
		delete(p.positions, o.Strategy)

		fill.Size = pos.Size
		fill.RealizedPnL = pnl.InexactFloat64()
		p.log.Info("[PAPER] close",
			zap.String("strategy", o.Strategy),
			zap.String("symbol", o.Symbol),
			zap.String("pnl", pnl.StringFixed(4)),
			zap.String("reason", o.Reason),
		)

	default:
		return models.Fill{}, fmt.Errorf("%w: unknown side %q", models.ErrExecution, o.Side)
	}
	return fill, nil
}

func (p *Paper) Position(strategy string) (models.Position, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pos, ok := p.positions[strategy]
	if !ok {
		return models.Position{}, false
	}
	return *pos, true
}

func (p *Paper) Mark(strategy string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pos, ok := p.positions[strategy]; ok && price > pos.Peak {
		pos.Peak = price
	}
}

// Realized накопленный PnL стратегии.
func (p *Paper) Realized(strategy string) decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.realized[strategy]
}
