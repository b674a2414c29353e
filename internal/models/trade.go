package models

import "time"

type Side string

const (
	SideNone Side = ""
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Order заявка, которую пайплайн отдаёт исполнителю.
type Order struct {
	Strategy string
	Symbol   string
	Side     Side
	Size     float64
	Price    float64
	Reason   string
}

type Fill struct {
	Side        Side      `json:"side"`
	Size        float64   `json:"size"`
	Price       float64   `json:"price"`
	RealizedPnL float64   `json:"realized_pnl"`
	FilledAt    time.Time `json:"filled_at"`
}

// Position открытая позиция стратегии. Peak нужен для трейлинг-стопа.
type Position struct {
	Symbol   string
	Size     float64
	Entry    float64
	Peak     float64
	OpenedAt time.Time
}
