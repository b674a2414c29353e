package models

// Candle один OHLC-отсчёт; open не храним.
type Candle struct {
	Timestamp int64   `json:"timestamp"` // unix seconds
	Price     float64 `json:"price"`     // close
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
}

// IndicatorSnapshot значения EMA на момент конкретной свечи.
type IndicatorSnapshot struct {
	Price     float64         `json:"price"`
	High      float64         `json:"high"`
	Low       float64         `json:"low"`
	Timestamp int64           `json:"timestamp"`
	EMA       map[int]float64 `json:"ema"`
}

// Resolution пара "минуты -> токен провайдера".
type Resolution struct {
	Minutes int
	Token   string
}
