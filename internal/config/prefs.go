package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
)

// Preferences are the user's display settings. They travel with exported
// documents and drive the formatting helpers; formatting is a pure function
// of this struct, never of ambient state.
type Preferences struct {
	Currency     string
	DateFormat   string // YYYY-MM-DD, DD/MM/YYYY or MM/DD/YYYY
	NumberFormat string // 1,234.56 | 1.234,56 | 1 234,56
	FirstDay     string // monday or sunday
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

func (p Preferences) Validate() error {
	switch p.DateFormat {
	case "YYYY-MM-DD", "DD/MM/YYYY", "MM/DD/YYYY":
	default:
		return fmt.Errorf("invalid date format '%s'", p.DateFormat)
	}
	switch p.NumberFormat {
	case "1,234.56", "1.234,56", "1 234,56":
	default:
		return fmt.Errorf("invalid number format '%s'", p.NumberFormat)
	}
	switch strings.ToLower(p.FirstDay) {
	case "monday", "sunday":
	default:
		return fmt.Errorf("invalid first day '%s'", p.FirstDay)
	}
	return nil
}

// FormatAmount renders a monetary amount with two decimals, the preferred
// separators and the currency symbol.
func (p Preferences) FormatAmount(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	fixed := amount.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	thousands, dec := ",", "."
	switch p.NumberFormat {
	case "1.234,56":
		thousands, dec = ".", ","
	case "1 234,56":
		thousands, dec = " ", ","
	}

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteString(thousands)
		}
		grouped.WriteRune(r)
	}

	symbol, ok := currencySymbols[strings.ToUpper(p.Currency)]
	if !ok {
		symbol = p.Currency + " "
	}
	s := symbol + grouped.String() + dec + fracPart
	if neg {
		return "-" + s
	}
	return s
}

// FormatDate renders a calendar day per the preferred format; the zero date
// renders empty.
func (p Preferences) FormatDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	switch p.DateFormat {
	case "DD/MM/YYYY":
		return d.Format("02/01/2006")
	case "MM/DD/YYYY":
		return d.Format("01/02/2006")
	default:
		return d.Format("2006-01-02")
	}
}
