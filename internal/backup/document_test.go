package backup

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Counts
		wantErr error
	}{
		{
			name:  "full document",
			input: `{"expenses":[{"date":"2024-01-05","category":"Food","amount":12.5}],"budgets":[{"category":"Food","limit":500}],"savings":[{"name":"Vacation","target":1000,"current":250}]}`,
			want:  Counts{Expenses: 1, Budgets: 1, Savings: 1},
		},
		{
			name:  "expenses only",
			input: `{"expenses":[]}`,
			want:  Counts{},
		},
		{
			name:  "unknown fields dropped",
			input: `{"expenses":[{"date":"2024-01-05","amount":1,"color":"red"}],"version":7}`,
			want:  Counts{Expenses: 1},
		},
		{
			name:  "non-array key counts as absent",
			input: `{"expenses":"nope","budgets":[]}`,
			want:  Counts{},
		},
		{
			name:    "not json",
			input:   `hello`,
			wantErr: ErrNotAnObject,
		},
		{
			name:    "top-level array",
			input:   `[1,2,3]`,
			wantErr: ErrNotAnObject,
		},
		{
			name:    "object without record arrays",
			input:   `{"meta":{"currency":"EUR"}}`,
			wantErr: ErrNoRecordArrays,
		},
		{
			name:    "all record keys hold non-arrays",
			input:   `{"expenses":5,"budgets":null,"savings":{"a":1}}`,
			wantErr: ErrNoRecordArrays,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if got := doc.Counts(); got != tt.want {
				t.Errorf("Counts() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseBadRecordInsideArray(t *testing.T) {
	_, err := Parse([]byte(`{"expenses":[{"date":"01/05/2024","amount":1}]}`))
	if err == nil {
		t.Fatal("Parse() accepted an expense with a malformed date")
	}
}

func TestParseMalformedMetaIgnored(t *testing.T) {
	doc, err := Parse([]byte(`{"expenses":[],"meta":"not-an-object"}`))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if doc.Meta != nil {
		t.Errorf("Meta = %+v, want nil for malformed meta", doc.Meta)
	}
}

func TestParseMetaCarriedOver(t *testing.T) {
	doc, err := Parse([]byte(`{"savings":[],"meta":{"currency":"EUR","dateFmt":"DD/MM/YYYY"}}`))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if doc.Meta == nil || doc.Meta.Currency != "EUR" || doc.Meta.DateFormat != "DD/MM/YYYY" {
		t.Errorf("Meta = %+v, want currency EUR and dateFmt DD/MM/YYYY", doc.Meta)
	}
}

func TestParseDecimalAmounts(t *testing.T) {
	doc, err := Parse([]byte(`{"expenses":[{"date":"2024-01-05","category":"Food","amount":12.55}]}`))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	want := decimal.NewFromFloat(12.55)
	if !doc.Expenses[0].Amount.Equal(want) {
		t.Errorf("amount = %s, want %s", doc.Expenses[0].Amount, want)
	}
}

func TestCountsTotal(t *testing.T) {
	c := Counts{Expenses: 3, Budgets: 2, Savings: 1}
	if got := c.Total(); got != 6 {
		t.Errorf("Total() = %d, want 6", got)
	}
}
