package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"strategy_orchestrator/internal/models"
)

func TestPaperOpenMarkClose(t *testing.T) {
	p := NewPaper(zap.NewNop())
	ctx := context.Background()

	if _, err := p.Execute(ctx, models.Order{Strategy: "s", Symbol: "BTCUSDT", Side: models.SideBuy, Size: 2, Price: 100}); err != nil {
		t.Fatal(err)
	}
	p.Mark("s", 120)
	p.Mark("s", 110)
	pos, ok := p.Position("s")
	if !ok || pos.Peak != 120 || pos.Entry != 100 {
		t.Fatalf("unexpected position %+v ok=%v", pos, ok)
	}

	fill, err := p.Execute(ctx, models.Order{Strategy: "s", Symbol: "BTCUSDT", Side: models.SideSell, Price: 105})
	if err != nil {
		t.Fatal(err)
	}
	if fill.RealizedPnL != 10 || fill.Size != 2 {
		t.Fatalf("unexpected fill %+v", fill)
	}
	if _, ok := p.Position("s"); ok {
		t.Fatal("position must be closed")
	}
	if got := p.Realized("s").String(); got != "10" {
		t.Fatalf("realized = %s, want 10", got)
	}
}

func TestPaperRejectsInvalidOrders(t *testing.T) {
	p := NewPaper(zap.NewNop())
	ctx := context.Background()

	cases := []models.Order{
		{Strategy: "s", Side: models.SideSell, Size: 1, Price: 1},
		{Strategy: "s", Side: models.SideBuy, Size: 0, Price: 1},
		{Strategy: "s", Side: "HOLD", Size: 1, Price: 1},
		{Strategy: "s", Side: models.SideBuy, Size: 1, Price: 0},
	}
	for _, o := range cases {
		if _, err := p.Execute(ctx, o); !errors.Is(err, models.ErrExecution) {
			t.Fatalf("order %+v: expected ErrExecution, got %v", o, err)
		}
	}

	_, _ = p.Execute(ctx, models.Order{Strategy: "s", Side: models.SideBuy, Size: 1, Price: 1})
	if _, err := p.Execute(ctx, models.Order{Strategy: "s", Side: models.SideBuy, Size: 1, Price: 1}); !errors.Is(err, models.ErrExecution) {
		t.Fatalf("double open: expected ErrExecution, got %v", err)
	}
}

func TestPaperSellClosesWholePositionWhateverTheOrderSize(t *testing.T) {
	ctx := context.Background()
	for _, size := range []float64{0, 0.5, 3} {
		p := NewPaper(zap.NewNop())
		if _, err := p.Execute(ctx, models.Order{Strategy: "s", Side: models.SideBuy, Size: 1.5, Price: 10}); err != nil {
			t.Fatal(err)
		}
		fill, err := p.Execute(ctx, models.Order{Strategy: "s", Side: models.SideSell, Size: size, Price: 12})
		if err != nil {
			t.Fatalf("sell size=%v: %v", size, err)
		}
		if fill.Size != 1.5 || fill.RealizedPnL != 3 {
			t.Fatalf("sell size=%v: fill %+v", size, fill)
		}
	}
}
