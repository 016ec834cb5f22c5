package backup

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"moneta/internal/core"
)

// CSV exports: one header row plus one row per record. encoding/csv quotes
// fields containing commas or quotes and doubles embedded quotes, which is
// the escaping the documents promise.

func ExpensesCSV(expenses []core.Expense) ([]byte, error) {
	rows := [][]string{{"Date", "Category", "Description", "Amount"}}
	for _, e := range expenses {
		rows = append(rows, []string{e.Date.String(), e.Category, e.Description, e.Amount.String()})
	}
	return writeCSV(rows)
}

func BudgetsCSV(budgets []core.Budget) ([]byte, error) {
	rows := [][]string{{"Category", "Limit"}}
	for _, b := range budgets {
		rows = append(rows, []string{b.Category, b.Limit.String()})
	}
	return writeCSV(rows)
}

func SavingsCSV(savings []core.Saving) ([]byte, error) {
	rows := [][]string{{"Name", "Target", "Current"}}
	for _, s := range savings {
		rows = append(rows, []string{s.Name, s.Target.String(), s.Current.String()})
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
