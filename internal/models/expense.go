package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire and display format of an expense date.
const DateLayout = "2006-01-02"

// Expense represents a single recorded expense.
type Expense struct {
	// ID is the unique identifier assigned by the remote service (UUID format).
	// It is empty until creation succeeds.
	ID string

	// Description is the free-text label for the expense (e.g., "Coffee").
	Description string

	// Amount is the expense value in currency units.
	Amount float64

	// Date is the calendar date of the expense, normalized to UTC midnight.
	Date time.Time
}

// ExpenseData holds the user-editable fields of an expense.
// It is what a form produces and what create/update send to the remote service.
type ExpenseData struct {
	Description string
	Amount      float64
	Date        time.Time
}

// Data returns the editable fields of the expense.
func (e Expense) Data() ExpenseData {
	return ExpenseData{
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date,
	}
}

// WithID builds an Expense from the data and an assigned ID.
func (d ExpenseData) WithID(id string) Expense {
	return Expense{
		ID:          id,
		Description: d.Description,
		Amount:      d.Amount,
		Date:        NormalizeDate(d.Date),
	}
}

// NormalizeDate drops the time of day, keeping the calendar date in UTC.
func NormalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MustDate parses a YYYY-MM-DD date and panics on failure. Intended for tests and constants.
func MustDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}
