// Package api declares the ports through which the engines reach the remote
// record store. Concrete adapters live in api/rest (the real HTTP API) and
// api/memory (an in-memory fake used by tests and the offline backend).
package api

import (
	"context"

	"moneta/internal/core"
)

type (
	ExpenseStore interface {
		ListExpenses(ctx context.Context) ([]core.Expense, error)
		// CreateExpense returns the record with its server-assigned ID.
		CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		UpdateExpense(ctx context.Context, e core.Expense) error
		DeleteExpense(ctx context.Context, id int64) error
	}

	BudgetStore interface {
		ListBudgets(ctx context.Context) ([]core.Budget, error)
		// CreateBudget accepts category and limit; spent starts at zero.
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		UpdateBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, id int64) error
	}

	SavingStore interface {
		ListSavings(ctx context.Context) ([]core.Saving, error)
		// CreateSaving accepts name and target only; restoring progress
		// requires a follow-up UpdateSaving with the assigned ID.
		CreateSaving(ctx context.Context, s core.Saving) (core.Saving, error)
		UpdateSaving(ctx context.Context, s core.Saving) error
		DeleteSaving(ctx context.Context, id int64) error
	}

	// ReportReader exposes the API's precomputed report summary.
	ReportReader interface {
		ReadSummary(ctx context.Context) (core.Summary, error)
	}

	// Store is the full surface the engines depend on.
	Store interface {
		ExpenseStore
		BudgetStore
		SavingStore
		ReportReader
	}
)
