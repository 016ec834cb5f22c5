package core

import "github.com/shopspring/decimal"

// MonthTotal is one entry of a chronological monthly series. Month is the
// YYYY-MM label; months absent from the data are simply absent from the
// series, the sequence is not padded.
type MonthTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// CategoryTotal is an amount aggregated under one category label.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// Summary is the precomputed report shape served by the remote API: a
// chronological monthly series, unordered category totals and an optional
// forecast figure. It is derived data and is never persisted.
type Summary struct {
	Monthly    []MonthTotal     `json:"monthly"`
	Categories []CategoryTotal  `json:"categories"`
	Forecast   *decimal.Decimal `json:"forecast,omitempty"`
}
