// Package sheets mirrors exported snapshots into a Google spreadsheet, one
// tab per record category. The mirror is write-only and best-effort; the
// JSON document stays the canonical backup format.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"moneta/internal/backup"
	"moneta/internal/core"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID, plus service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	credentialsJSON, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func credentialsFromEnv() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	credentialsJSON, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return credentialsJSON, nil
}

// WriteSnapshot replaces the Expenses, Budgets and Savings tabs with the
// document's records. Each tab is cleared and rewritten whole; partial
// mirror updates are not attempted.
func (c *Client) WriteSnapshot(ctx context.Context, doc *backup.Document) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	if err := c.writeTab(ctx, "Expenses", expenseRows(doc.Expenses)); err != nil {
		return err
	}
	if err := c.writeTab(ctx, "Budgets", budgetRows(doc.Budgets)); err != nil {
		return err
	}
	return c.writeTab(ctx, "Savings", savingRows(doc.Savings))
}

func (c *Client) writeTab(ctx context.Context, tab string, rows [][]any) error {
	rng := fmt.Sprintf("%s!A:Z", tab)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet %s: %w", tab, err)
	}

	vr := &gsheet.ValueRange{Values: rows}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fmt.Sprintf("%s!A1", tab), vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet %s: %w", tab, err)
	}
	return nil
}

func expenseRows(expenses []core.Expense) [][]any {
	rows := [][]any{{"Date", "Category", "Description", "Amount"}}
	for _, e := range expenses {
		rows = append(rows, []any{e.Date.String(), e.Category, e.Description, e.Amount.InexactFloat64()})
	}
	return rows
}

func budgetRows(budgets []core.Budget) [][]any {
	rows := [][]any{{"Category", "Limit", "Spent"}}
	for _, b := range budgets {
		rows = append(rows, []any{b.Category, b.Limit.InexactFloat64(), b.Spent.InexactFloat64()})
	}
	return rows
}

func savingRows(savings []core.Saving) [][]any {
	rows := [][]any{{"Name", "Target", "Current"}}
	for _, s := range savings {
		rows = append(rows, []any{s.Name, s.Target.InexactFloat64(), s.Current.InexactFloat64()})
	}
	return rows
}
