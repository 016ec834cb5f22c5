// Package backup implements the export, staging and restore of a user's
// financial records as a portable document.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"moneta/internal/core"
)

var (
	ErrNotAnObject    = errors.New("backup document is not a JSON object")
	ErrNoRecordArrays = errors.New("backup document contains none of expenses, budgets or savings")
)

// Meta carries the point-in-time context of an export. ExportedAt marshals
// as ISO-8601.
type Meta struct {
	ExportedAt   time.Time `json:"exportedAt"`
	Currency     string    `json:"currency,omitempty"`
	DateFormat   string    `json:"dateFmt,omitempty"`
	NumberFormat string    `json:"numFmt,omitempty"`
	FirstDay     string    `json:"firstDay,omitempty"`
	App          string    `json:"app,omitempty"`
}

// Document is a point-in-time snapshot of the three record sets. Absent
// arrays are treated as empty during restore.
type Document struct {
	Expenses []core.Expense `json:"expenses,omitempty"`
	Budgets  []core.Budget  `json:"budgets,omitempty"`
	Savings  []core.Saving  `json:"savings,omitempty"`
	Meta     *Meta          `json:"meta,omitempty"`
}

// Counts is the per-category record tally shown before a destructive apply.
type Counts struct {
	Expenses int
	Budgets  int
	Savings  int
}

func (c Counts) Total() int {
	return c.Expenses + c.Budgets + c.Savings
}

func (d *Document) Counts() Counts {
	return Counts{
		Expenses: len(d.Expenses),
		Budgets:  len(d.Budgets),
		Savings:  len(d.Savings),
	}
}

// JSON renders the document in the indented on-disk backup format.
func (d *Document) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Parse validates a candidate document from any source. The input must be a
// JSON object with at least one of expenses, budgets or savings present as
// an array; a key holding a non-array value counts as absent. Unrecognized
// top-level and per-record fields are dropped. Parse performs no I/O, so a
// rejected document is guaranteed to have had no effect.
func Parse(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnObject, err)
	}

	doc := &Document{}
	found := false
	if arr, ok := arrayField(raw, "expenses"); ok {
		if err := json.Unmarshal(arr, &doc.Expenses); err != nil {
			return nil, fmt.Errorf("invalid expenses array: %w", err)
		}
		found = true
	}
	if arr, ok := arrayField(raw, "budgets"); ok {
		if err := json.Unmarshal(arr, &doc.Budgets); err != nil {
			return nil, fmt.Errorf("invalid budgets array: %w", err)
		}
		found = true
	}
	if arr, ok := arrayField(raw, "savings"); ok {
		if err := json.Unmarshal(arr, &doc.Savings); err != nil {
			return nil, fmt.Errorf("invalid savings array: %w", err)
		}
		found = true
	}
	if !found {
		return nil, ErrNoRecordArrays
	}

	// Meta is informational; a malformed meta object does not invalidate
	// the records.
	if m, ok := raw["meta"]; ok {
		var meta Meta
		if json.Unmarshal(m, &meta) == nil {
			doc.Meta = &meta
		}
	}
	return doc, nil
}

func arrayField(raw map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	v, ok := raw[key]
	if !ok {
		return nil, false
	}
	trimmed := bytes.TrimLeft(v, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	return v, true
}
