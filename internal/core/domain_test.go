package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestExpenseValidate(t *testing.T) {
	tests := []struct {
		name    string
		expense Expense
		wantErr error
	}{
		{
			name:    "valid",
			expense: Expense{Date: NewDate(2024, 3, 15), Category: "Food", Amount: decimal.NewFromInt(10)},
		},
		{
			name:    "zero amount allowed",
			expense: Expense{Date: NewDate(2024, 3, 15), Category: "Food"},
		},
		{
			name:    "missing date",
			expense: Expense{Category: "Food", Amount: decimal.NewFromInt(10)},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "negative amount",
			expense: Expense{Date: NewDate(2024, 3, 15), Amount: decimal.NewFromInt(-5)},
			wantErr: ErrNegativeAmount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.expense.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBudgetValidate(t *testing.T) {
	tests := []struct {
		name    string
		budget  Budget
		wantErr error
	}{
		{
			name:   "valid",
			budget: Budget{Category: "Food", Limit: decimal.NewFromInt(500)},
		},
		{
			name:   "zero limit allowed",
			budget: Budget{Category: "Food"},
		},
		{
			name:    "empty category",
			budget:  Budget{Limit: decimal.NewFromInt(500)},
			wantErr: ErrEmptyCategory,
		},
		{
			name:    "negative limit",
			budget:  Budget{Category: "Food", Limit: decimal.NewFromInt(-1)},
			wantErr: ErrNegativeLimit,
		},
		{
			name:    "negative spent",
			budget:  Budget{Category: "Food", Limit: decimal.NewFromInt(500), Spent: decimal.NewFromInt(-1)},
			wantErr: ErrNegativeSpent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.budget.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSavingValidate(t *testing.T) {
	tests := []struct {
		name    string
		saving  Saving
		wantErr error
	}{
		{
			name:   "valid",
			saving: Saving{Name: "Vacation", Target: decimal.NewFromInt(1000)},
		},
		{
			name:    "empty name",
			saving:  Saving{Target: decimal.NewFromInt(1000)},
			wantErr: ErrEmptyName,
		},
		{
			name:    "zero target",
			saving:  Saving{Name: "Vacation"},
			wantErr: ErrInvalidTarget,
		},
		{
			name:    "negative target",
			saving:  Saving{Name: "Vacation", Target: decimal.NewFromInt(-10)},
			wantErr: ErrInvalidTarget,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.saving.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSavingClampCurrent(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		want    int64
	}{
		{name: "within range", current: 500, want: 500},
		{name: "negative", current: -100, want: 0},
		{name: "above target", current: 1500, want: 1000},
		{name: "exactly target", current: 1000, want: 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Saving{
				Name:    "Vacation",
				Target:  decimal.NewFromInt(1000),
				Current: decimal.NewFromInt(tt.current),
			}
			got := s.ClampCurrent()
			if !got.Current.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("ClampCurrent() current = %s, want %d", got.Current, tt.want)
			}
		})
	}
}
