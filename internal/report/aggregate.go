// Package report derives the figures behind dashboards and reports from a
// chronological monthly series and category totals. Every operation is
// tolerant of empty input: a brand-new account with no records yields a
// well-defined empty result, never an error.
package report

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
)

// Series values this far from the mean are flagged as anomalous.
var (
	anomalyHigh = decimal.NewFromFloat(1.3)
	anomalyLow  = decimal.NewFromFloat(0.7)
)

// Window selects the trailing n entries of the series. n <= 0 or a window
// larger than the series means the full series.
func Window(series []core.MonthTotal, n int) []core.MonthTotal {
	if n <= 0 || n >= len(series) {
		return series
	}
	return series[len(series)-n:]
}

// MovingAverage computes the trailing mean of window size m at every index.
// The result is parallel to the series; entries with fewer than m points of
// history are nil, no average is fabricated from a short lead-in. A window
// of m <= 0 yields all-nil markers.
func MovingAverage(series []core.MonthTotal, m int) []*decimal.Decimal {
	out := make([]*decimal.Decimal, len(series))
	if m <= 0 {
		return out
	}
	window := decimal.NewFromInt(int64(m))
	var sum decimal.Decimal
	for i, entry := range series {
		sum = sum.Add(entry.Total)
		if i >= m {
			sum = sum.Sub(series[i-m].Total)
		}
		if i >= m-1 {
			avg := sum.Div(window)
			out[i] = &avg
		}
	}
	return out
}

// MonthOverMonth returns the percentage change between the two most recent
// entries of the raw series. It is undefined (ok false) with fewer than two
// months or a zero previous month; no fallback value is substituted.
func MonthOverMonth(series []core.MonthTotal) (float64, bool) {
	if len(series) < 2 {
		return 0, false
	}
	prev := series[len(series)-2].Total
	last := series[len(series)-1].Total
	if prev.IsZero() {
		return 0, false
	}
	pct := last.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100))
	return pct.InexactFloat64(), true
}

// TopCategories sorts category totals descending and keeps the first limit
// entries verbatim; everything after is folded into one synthetic "Other"
// entry, which is omitted entirely when its sum is zero. Equal totals keep
// their original input order. limit <= 0 keeps every entry.
func TopCategories(categories []core.CategoryTotal, limit int) []core.CategoryTotal {
	if len(categories) == 0 {
		return nil
	}
	sorted := make([]core.CategoryTotal, len(categories))
	copy(sorted, categories)
	// Insertion sort keeps the input order among equal totals.
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Total.GreaterThan(sorted[j-1].Total); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	if limit <= 0 || limit >= len(sorted) {
		return sorted
	}
	out := sorted[:limit:limit]
	other := decimal.Zero
	for _, c := range sorted[limit:] {
		other = other.Add(c.Total)
	}
	if other.IsZero() {
		return out
	}
	return append(out, core.CategoryTotal{Category: "Other", Total: other})
}

// Anomalies flags months whose total strays beyond 1.3x above or 0.7x below
// the mean of the full series. A zero mean reports nothing, so an all-zero
// series produces no spurious flags.
func Anomalies(series []core.MonthTotal) []core.MonthTotal {
	mean := Mean(series)
	if mean.IsZero() {
		return nil
	}
	high := mean.Mul(anomalyHigh)
	low := mean.Mul(anomalyLow)
	var out []core.MonthTotal
	for _, entry := range series {
		if entry.Total.GreaterThan(high) || entry.Total.LessThan(low) {
			out = append(out, entry)
		}
	}
	return out
}

// BestWorst returns the months with the maximum and minimum totals. On an
// empty series ok is false and both results are zero placeholders.
func BestWorst(series []core.MonthTotal) (best, worst core.MonthTotal, ok bool) {
	if len(series) == 0 {
		return core.MonthTotal{}, core.MonthTotal{}, false
	}
	best, worst = series[0], series[0]
	for _, entry := range series[1:] {
		if entry.Total.GreaterThan(best.Total) {
			best = entry
		}
		if entry.Total.LessThan(worst.Total) {
			worst = entry
		}
	}
	return best, worst, true
}

// Sum adds every month of the series. Negative values (refunds,
// corrections) are summed as-is, not clamped.
func Sum(series []core.MonthTotal) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range series {
		total = total.Add(entry.Total)
	}
	return total
}

// Mean is the arithmetic mean over the series, zero when empty.
func Mean(series []core.MonthTotal) decimal.Decimal {
	if len(series) == 0 {
		return decimal.Zero
	}
	return Sum(series).Div(decimal.NewFromInt(int64(len(series))))
}

// PerDayRate spreads a total over a number of days, zero when days <= 0.
// Callers build projections as PerDayRate(spent, elapsed) * DaysInMonth.
func PerDayRate(total decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(days)))
}

// DaysInMonth returns the calendar length of the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// RoundPercent rounds a percentage to the nearest integer for display.
// Intermediate figures stay unrounded so derived values do not compound
// rounding error.
func RoundPercent(pct float64) int {
	return int(math.Round(pct))
}
