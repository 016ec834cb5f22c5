package report

import (
	"testing"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
)

func TestBuildWindowsDisplayOnly(t *testing.T) {
	// Six months ending with a 50% rise; the KPI figures must come from the
	// full series even though only the trailing two months are displayed.
	monthly := months(100, 100, 100, 100, 100, 150)
	rep := Build(monthly, nil, Options{Months: 2})

	if len(rep.Monthly) != 2 {
		t.Fatalf("Monthly has %d entries, want 2", len(rep.Monthly))
	}
	if !rep.Total.Equal(decimal.NewFromInt(650)) {
		t.Errorf("Total = %s, want 650", rep.Total)
	}
	if rep.Change == nil {
		t.Fatal("Change = nil, want 50%")
	}
	if got := RoundPercent(*rep.Change); got != 50 {
		t.Errorf("Change = %d%%, want 50%%", got)
	}
	if rep.Best == nil || !rep.Best.Total.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Best = %v, want the 150 month", rep.Best)
	}
	if rep.Worst == nil || !rep.Worst.Total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Worst = %v, want a 100 month", rep.Worst)
	}
}

func TestBuildMovingAverageTracksWindow(t *testing.T) {
	rep := Build(months(100, 200, 300, 400), nil, Options{MovingAverageWindow: 2})
	if len(rep.MovingAverage) != len(rep.Monthly) {
		t.Fatalf("MovingAverage has %d entries, Monthly has %d", len(rep.MovingAverage), len(rep.Monthly))
	}
	if rep.MovingAverage[0] != nil {
		t.Errorf("MovingAverage[0] = %v, want nil", rep.MovingAverage[0])
	}
	if rep.MovingAverage[3] == nil || !rep.MovingAverage[3].Equal(decimal.NewFromInt(350)) {
		t.Errorf("MovingAverage[3] = %v, want 350", rep.MovingAverage[3])
	}
}

func TestBuildEmpty(t *testing.T) {
	rep := Build(nil, nil, Options{Months: 6, MovingAverageWindow: 3, CategoryLimit: 5})
	if len(rep.Monthly) != 0 || len(rep.Categories) != 0 {
		t.Errorf("empty input produced entries: %+v", rep)
	}
	if !rep.Total.IsZero() || !rep.MonthlyMean.IsZero() {
		t.Errorf("empty input produced totals: %s / %s", rep.Total, rep.MonthlyMean)
	}
	if rep.Change != nil || rep.Best != nil || rep.Worst != nil {
		t.Errorf("empty input produced KPIs: %+v", rep)
	}
	if rep.Anomalies != nil {
		t.Errorf("empty input produced anomalies: %v", rep.Anomalies)
	}
}

func TestFromExpenses(t *testing.T) {
	expenses := []core.Expense{
		{Date: core.NewDate(2024, 2, 10), Category: "Transport", Amount: decimal.NewFromInt(30)},
		{Date: core.NewDate(2024, 1, 5), Category: "Food", Amount: decimal.NewFromInt(20)},
		{Date: core.NewDate(2024, 1, 20), Category: "Food", Amount: decimal.NewFromInt(25)},
		{Date: core.NewDate(2024, 2, 1), Category: "Food", Amount: decimal.NewFromInt(10)},
	}

	monthly, categories := FromExpenses(expenses)

	if len(monthly) != 2 {
		t.Fatalf("monthly has %d entries, want 2", len(monthly))
	}
	if monthly[0].Month != "2024-01" || !monthly[0].Total.Equal(decimal.NewFromInt(45)) {
		t.Errorf("monthly[0] = %s/%s, want 2024-01/45", monthly[0].Month, monthly[0].Total)
	}
	if monthly[1].Month != "2024-02" || !monthly[1].Total.Equal(decimal.NewFromInt(40)) {
		t.Errorf("monthly[1] = %s/%s, want 2024-02/40", monthly[1].Month, monthly[1].Total)
	}

	// Categories keep first-seen order.
	want := categoryTotals("Transport", 30, "Food", 55)
	assertCategories(t, categories, want)
}

func TestFromSummary(t *testing.T) {
	summary := core.Summary{
		Monthly:    months(100, 200),
		Categories: categoryTotals("Food", 180, "Transport", 120),
	}
	rep := FromSummary(summary, Options{CategoryLimit: 1})

	if !rep.Total.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Total = %s, want 300", rep.Total)
	}
	want := categoryTotals("Food", 180, "Other", 120)
	assertCategories(t, rep.Categories, want)
}
