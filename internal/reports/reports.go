// Package reports derives dashboard figures from a store snapshot. Every
// function here is a pure calculation over cached data; nothing in this
// package reads or writes the database.
package reports

import (
	"time"

	"pocketbook/internal/models"
)

// expensePalette and incomePalette are assigned to category slices by
// position, matching the dashboard pie charts.
var expensePalette = []string{
	"#EF4444", "#F97316", "#F59E0B", "#EAB308", "#84CC16",
	"#22C55E", "#10B981", "#14B8A6", "#06B6D4", "#0EA5E9",
	"#3B82F6", "#6366F1", "#8B5CF6", "#A855F7", "#D946EF",
	"#EC4899", "#F43F5E",
}

var incomePalette = []string{
	"#10B981", "#059669", "#0D9488", "#06B6D4", "#3B82F6",
	"#6366F1", "#8B5CF6", "#22C55E", "#84CC16", "#EAB308",
	"#F59E0B", "#F97316", "#EF4444", "#DC2626", "#B91C1C",
}

// Window is an inclusive time interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, endpoints included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// MonthWindow returns the calendar month containing t, from the first
// instant of the month through the last nanosecond of its final day.
func MonthWindow(t time.Time) Window {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return Window{Start: start, End: end}
}

// Summary holds the headline dashboard figures. Amounts are in cents.
type Summary struct {
	TotalBalance int64 `json:"total_balance"`
	Income       int64 `json:"income"`
	Expenses     int64 `json:"expenses"`
	Net          int64 `json:"net"`
}

// Summarize computes total balance across all accounts plus income, expense,
// and net figures for transactions inside the window. Transfers move money
// between own accounts and count toward none of the three.
func Summarize(accounts []models.Account, transactions []models.Transaction, window Window) Summary {
	var summary Summary
	for _, a := range accounts {
		summary.TotalBalance += a.Balance
	}
	for _, t := range transactions {
		if !window.Contains(t.TransactionDate) {
			continue
		}
		switch t.Kind {
		case models.TransactionKindIncome:
			summary.Income += t.Amount
		case models.TransactionKindExpense:
			summary.Expenses += t.Amount
		}
	}
	summary.Net = summary.Income - summary.Expenses
	return summary
}

// BudgetStatus is one budget with its spending progress for its month.
type BudgetStatus struct {
	Budget        models.Budget `json:"budget"`
	CategoryName  string        `json:"category_name"`
	CategoryColor string        `json:"category_color"`
	Spent         int64         `json:"spent"`
	Remaining     int64         `json:"remaining"`
	Percentage    float64       `json:"percentage"`
	Over          bool          `json:"over"`
}

// BudgetProgress computes spending progress for every budget whose month
// matches the window's month. Spent counts only expense transactions in the
// budget's category inside the window, so it can never be negative.
// Percentage is capped at 100; Remaining is not floored and goes negative
// once the budget is blown.
func BudgetProgress(budgets []models.Budget, transactions []models.Transaction, categories []models.Category, window Window) []BudgetStatus {
	monthKey := time.Date(window.Start.Year(), window.Start.Month(), 1, 0, 0, 0, 0, time.UTC)

	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		if !b.Month.Equal(monthKey) {
			continue
		}

		var spent int64
		for _, t := range transactions {
			if t.CategoryID != b.CategoryID || t.Kind != models.TransactionKindExpense {
				continue
			}
			if !window.Contains(t.TransactionDate) {
				continue
			}
			spent += t.Amount
		}

		pct := float64(spent) / float64(b.LimitAmount) * 100
		if pct > 100 {
			pct = 100
		}

		status := BudgetStatus{
			Budget:     b,
			Spent:      spent,
			Remaining:  b.LimitAmount - spent,
			Percentage: pct,
			Over:       spent > b.LimitAmount,
		}
		if c := findCategory(categories, b.CategoryID); c != nil {
			status.CategoryName = c.Name
			status.CategoryColor = c.Color
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// GoalStatus is one goal with its funding progress.
type GoalStatus struct {
	Goal       models.Goal `json:"goal"`
	Percentage float64     `json:"percentage"`
	DaysLeft   int         `json:"days_left"`
	Overdue    bool        `json:"overdue"`
}

// GoalProgress computes funding progress for each goal as of now. Percentage
// is not capped; a goal funded past its target reads above 100. Days left is
// counted in whole days between today and the target date, and a goal is
// overdue only once its target date lies strictly in the past.
func GoalProgress(goals []models.Goal, now time.Time) []GoalStatus {
	statuses := make([]GoalStatus, 0, len(goals))
	for _, g := range goals {
		var pct float64
		if g.TargetAmount > 0 {
			pct = float64(g.CurrentAmount) / float64(g.TargetAmount) * 100
		}
		daysLeft := daysBetween(now, g.TargetDate)
		statuses = append(statuses, GoalStatus{
			Goal:       g,
			Percentage: pct,
			DaysLeft:   daysLeft,
			Overdue:    daysLeft < 0,
		})
	}
	return statuses
}

// daysBetween counts whole calendar days from a to b, negative when b is
// before a. Time of day is ignored so a deadline later today is zero days
// away, not overdue.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}

// SeriesEntry is one slice of a category breakdown chart.
type SeriesEntry struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
	Color  string `json:"color"`
}

// CategorySeries groups transactions of one kind inside the window by
// category name. Entries keep first-appearance order from the transaction
// slice and take palette colors by position. Transactions whose category is
// unknown are skipped.
func CategorySeries(transactions []models.Transaction, categories []models.Category, kind models.TransactionKind, window Window) []SeriesEntry {
	palette := expensePalette
	if kind == models.TransactionKindIncome {
		palette = incomePalette
	}

	totals := make(map[string]int64)
	var order []string
	for _, t := range transactions {
		if t.Kind != kind || !window.Contains(t.TransactionDate) {
			continue
		}
		c := findCategory(categories, t.CategoryID)
		if c == nil {
			continue
		}
		if _, seen := totals[c.Name]; !seen {
			order = append(order, c.Name)
		}
		totals[c.Name] += t.Amount
	}

	entries := make([]SeriesEntry, 0, len(order))
	for i, name := range order {
		entries = append(entries, SeriesEntry{
			Label:  name,
			Amount: totals[name],
			Color:  palette[i%len(palette)],
		})
	}
	return entries
}

func findCategory(categories []models.Category, id string) *models.Category {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
	}
	return nil
}
