package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
)

// Options controls how a Report is derived.
type Options struct {
	// Months is the trailing window applied to the monthly series for
	// display; <= 0 keeps the full series.
	Months int
	// MovingAverageWindow is the trailing mean window in months; <= 0
	// disables the overlay.
	MovingAverageWindow int
	// CategoryLimit caps the category list, folding the rest into
	// "Other"; <= 0 keeps every category.
	CategoryLimit int
}

// Report is the derived view rendered by dashboards. Change, Best and Worst
// are nil in their respective no-data cases rather than carrying a
// misleading zero.
type Report struct {
	Monthly       []core.MonthTotal
	MovingAverage []*decimal.Decimal
	Categories    []core.CategoryTotal
	Total         decimal.Decimal
	MonthlyMean   decimal.Decimal
	Change        *float64
	Anomalies     []core.MonthTotal
	Best          *core.MonthTotal
	Worst         *core.MonthTotal
}

// Build derives a Report from a monthly series and category totals. The
// window applies only to the displayed series and its moving average;
// month-over-month change, anomalies, best/worst and the KPI figures always
// use the full raw series. Nil or empty inputs produce an empty Report.
func Build(monthly []core.MonthTotal, categories []core.CategoryTotal, opts Options) Report {
	r := Report{
		Total:       Sum(monthly),
		MonthlyMean: Mean(monthly),
		Anomalies:   Anomalies(monthly),
	}

	if pct, ok := MonthOverMonth(monthly); ok {
		r.Change = &pct
	}
	if best, worst, ok := BestWorst(monthly); ok {
		r.Best, r.Worst = &best, &worst
	}

	r.Monthly = Window(monthly, opts.Months)
	r.MovingAverage = MovingAverage(r.Monthly, opts.MovingAverageWindow)
	r.Categories = TopCategories(categories, opts.CategoryLimit)
	return r
}

// FromSummary derives a Report from the API's precomputed summary.
func FromSummary(summary core.Summary, opts Options) Report {
	return Build(summary.Monthly, summary.Categories, opts)
}

// FromExpenses groups raw expense records into the chronological monthly
// series and the category totals Build consumes. Category order is
// first-seen, which keeps the top-N tie-break stable against the input.
func FromExpenses(expenses []core.Expense) ([]core.MonthTotal, []core.CategoryTotal) {
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

	monthly := make([]core.MonthTotal, 0, len(months))
	for _, m := range months {
		monthly = append(monthly, core.MonthTotal{Month: m, Total: byMonth[m]})
	}
	totals := make([]core.CategoryTotal, 0, len(categories))
	for _, c := range categories {
		totals = append(totals, core.CategoryTotal{Category: c, Total: byCategory[c]})
	}
	return monthly, totals
}
