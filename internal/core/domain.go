package core

import (
	"errors"

	"github.com/shopspring/decimal"
)

func init() {
	// Backup documents and the remote API carry amounts as plain JSON
	// numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type (
	// Expense is a single spending record owned by the remote API.
	// ID is zero for records that have not been created yet.
	Expense struct {
		ID          int64           `json:"id"`
		Date        Date            `json:"date"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
	}

	// Budget tracks a spending limit for one category. Spent is maintained
	// by the user independently of matching expenses.
	Budget struct {
		ID       int64           `json:"id"`
		Category string          `json:"category"`
		Limit    decimal.Decimal `json:"limit"`
		Spent    decimal.Decimal `json:"spent"`
	}

	// Saving is a savings goal with accumulated progress.
	Saving struct {
		ID      int64           `json:"id"`
		Name    string          `json:"name"`
		Target  decimal.Decimal `json:"target"`
		Current decimal.Decimal `json:"current"`
	}
)

var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrEmptyCategory  = errors.New("empty category")
	ErrNegativeLimit  = errors.New("limit must not be negative")
	ErrNegativeSpent  = errors.New("spent must not be negative")
	ErrEmptyName      = errors.New("empty name")
	ErrInvalidTarget  = errors.New("target must be positive")
)

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if e.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (b Budget) Validate() error {
	if b.Category == "" {
		return ErrEmptyCategory
	}
	if b.Limit.IsNegative() {
		return ErrNegativeLimit
	}
	if b.Spent.IsNegative() {
		return ErrNegativeSpent
	}
	return nil
}

func (s Saving) Validate() error {
	if s.Name == "" {
		return ErrEmptyName
	}
	if !s.Target.IsPositive() {
		return ErrInvalidTarget
	}
	return nil
}

// ClampCurrent bounds the saving's progress to [0, target]. The remote API
// does not enforce the range server-side, so callers that write progress go
// through this first.
func (s Saving) ClampCurrent() Saving {
	if s.Current.IsNegative() {
		s.Current = decimal.Zero
	}
	if s.Current.GreaterThan(s.Target) {
		s.Current = s.Target
	}
	return s
}
