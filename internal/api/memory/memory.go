// Package memory is an in-memory implementation of the api ports. It mimics
// the remote API's observable behaviour, including server-assigned IDs and
// the creation endpoints ignoring progress fields, so the engines can be
// exercised without a network.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"moneta/internal/api"
	"moneta/internal/core"
)

var _ api.Store = (*Store)(nil)

type Store struct {
	mu       sync.Mutex
	nextID   int64
	expenses map[int64]core.Expense
	budgets  map[int64]core.Budget
	savings  map[int64]core.Saving
}

func New() *Store {
	return &Store{
		nextID:   1,
		expenses: map[int64]core.Expense{},
		budgets:  map[int64]core.Budget{},
		savings:  map[int64]core.Saving{},
	}
}

// NewFromFile seeds the store from a backup-shaped JSON file. A missing or
// unreadable file yields an empty store.
func NewFromFile(path string) *Store {
	s := New()
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var seed struct {
		Expenses []core.Expense `json:"expenses"`
		Budgets  []core.Budget  `json:"budgets"`
		Savings  []core.Saving  `json:"savings"`
	}
	if err := json.Unmarshal(data, &seed); err != nil {
		return s
	}
	ctx := context.Background()
	for _, e := range seed.Expenses {
		s.CreateExpense(ctx, e)
	}
	for _, b := range seed.Budgets {
		created, _ := s.CreateBudget(ctx, b)
		created.Spent = b.Spent
		s.UpdateBudget(ctx, created)
	}
	for _, sv := range seed.Savings {
		created, _ := s.CreateSaving(ctx, sv)
		created.Current = sv.Current
		s.UpdateSaving(ctx, created)
	}
	return s
}

func (s *Store) assignID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.assignID()
	s.expenses[e.ID] = e
	return e, nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[e.ID]; !ok {
		return fmt.Errorf("expense %d not found", e.ID)
	}
	s.expenses[e.ID] = e
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return fmt.Errorf("expense %d not found", id)
	}
	delete(s.expenses, id)
	return nil
}

func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CreateBudget accepts category and limit; spent always starts at zero, as
// the remote creation endpoint does.
func (s *Store) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.assignID()
	b.Spent = decimal.Zero
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) UpdateBudget(_ context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[b.ID]; !ok {
		return fmt.Errorf("budget %d not found", b.ID)
	}
	s.budgets[b.ID] = b
	return nil
}

func (s *Store) DeleteBudget(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[id]; !ok {
		return fmt.Errorf("budget %d not found", id)
	}
	delete(s.budgets, id)
	return nil
}

func (s *Store) ListSavings(_ context.Context) ([]core.Saving, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Saving, 0, len(s.savings))
	for _, sv := range s.savings {
		out = append(out, sv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CreateSaving accepts name and target; current always starts at zero, as
// the remote creation endpoint does. Restoring progress requires a follow-up
// UpdateSaving with the assigned ID.
func (s *Store) CreateSaving(_ context.Context, sv core.Saving) (core.Saving, error) {
	if err := sv.Validate(); err != nil {
		return core.Saving{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sv.ID = s.assignID()
	sv.Current = decimal.Zero
	s.savings[sv.ID] = sv
	return sv, nil
}

func (s *Store) UpdateSaving(_ context.Context, sv core.Saving) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.savings[sv.ID]; !ok {
		return fmt.Errorf("saving %d not found", sv.ID)
	}
	s.savings[sv.ID] = sv
	return nil
}

func (s *Store) DeleteSaving(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.savings[id]; !ok {
		return fmt.Errorf("saving %d not found", id)
	}
	delete(s.savings, id)
	return nil
}

// ReadSummary aggregates the stored expenses the way the remote API's
// report-summary endpoint does: a chronological monthly series plus totals
// per category.
func (s *Store) ReadSummary(ctx context.Context) (core.Summary, error) {
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return core.Summary{}, err
	}

	byMonth := map[string]decimal.Decimal{}
	byCategory := map[string]decimal.Decimal{}
	var months, categories []string
	for _, e := range expenses {
		month := e.Date.MonthKey()
		if _, ok := byMonth[month]; !ok {
			months = append(months, month)
		}
		byMonth[month] = byMonth[month].Add(e.Amount)
		if _, ok := byCategory[e.Category]; !ok {
			categories = append(categories, e.Category)
		}
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
	}
	sort.Strings(months)

	summary := core.Summary{}
	for _, m := range months {
		summary.Monthly = append(summary.Monthly, core.MonthTotal{Month: m, Total: byMonth[m]})
	}
	for _, c := range categories {
		summary.Categories = append(summary.Categories, core.CategoryTotal{Category: c, Total: byCategory[c]})
	}
	return summary, nil
}
