package calculator

import (
	"sort"
	"time"

	"github.com/mmynk/expenses/internal/models"
)

// Summary is what the list view shows for a period: its name, the expenses
// in it (newest first) and their total.
type Summary struct {
	PeriodName string
	Expenses   []models.Expense
	Total      float64
}

// Total sums the amounts of all expenses.
func Total(expenses []models.Expense) float64 {
	var sum float64
	for _, e := range expenses {
		sum += e.Amount
	}
	return sum
}

// DateMinusDays returns the calendar date that lies days before date.
func DateMinusDays(date time.Time, days int) time.Time {
	return models.NormalizeDate(date).AddDate(0, 0, -days)
}

// Recent returns the expenses dated strictly after now minus days and not
// after today. With days = 7 this covers today and the six days before it.
func Recent(expenses []models.Expense, now time.Time, days int) []models.Expense {
	today := models.NormalizeDate(now)
	cutoff := DateMinusDays(today, days)
	var out []models.Expense
	for _, e := range expenses {
		date := models.NormalizeDate(e.Date)
		if date.After(cutoff) && !date.After(today) {
			out = append(out, e)
		}
	}
	return out
}

// Summarize builds the period summary for the given expenses.
// Expenses are ordered by date, newest first; equal dates keep their order.
func Summarize(periodName string, expenses []models.Expense) Summary {
	sorted := make([]models.Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return Summary{
		PeriodName: periodName,
		Expenses:   sorted,
		Total:      Total(sorted),
	}
}
