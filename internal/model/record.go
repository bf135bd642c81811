package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income records money received. Income entries are local-only and immutable
// once created, except for deletion.
type Income struct {
	Date   time.Time       `json:"date"`
	ID     string          `json:"id"`
	Source string          `json:"source"`
	Note   string          `json:"note"`
	Amount decimal.Decimal `json:"amount"`
}

// Expense records money spent. Expense entries are local-only and immutable
// once created, except for deletion.
type Expense struct {
	Date     time.Time       `json:"date"`
	ID       string          `json:"id"`
	Category string          `json:"category"`
	Note     string          `json:"note"`
	Amount   decimal.Decimal `json:"amount"`
}
