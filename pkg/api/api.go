// Package api defines the JSON wire types of the expense service.
// Both the server handlers and the remote client encode through these types.
package api

import (
	"fmt"
	"strings"

	"github.com/mmynk/expenses/internal/models"
)

// Route paths of the expense service.
const (
	ExpensesPath = "/expenses"
	TokenPath    = "/auth/token"
	HealthPath   = "/health"
	MetricsPath  = "/metrics"
)

// ExpensePayload is the request body of create and update.
type ExpensePayload struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

// Expense is one entry of the expense collection.
type Expense struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

// CreateExpenseResponse carries the ID assigned to a new expense.
type CreateExpenseResponse struct {
	ID string `json:"id"`
}

// ListExpensesResponse is the body of GET /expenses.
type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

// TokenRequest exchanges the service password for a bearer token.
type TokenRequest struct {
	Password string `json:"password"`
}

// TokenResponse carries a signed bearer token.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ExpensePath returns the resource path of a single expense.
func ExpensePath(id string) string {
	return ExpensesPath + "/" + id
}

// NewExpensePayload converts domain data to its wire form.
func NewExpensePayload(d models.ExpenseData) ExpensePayload {
	return ExpensePayload{
		Description: d.Description,
		Amount:      d.Amount,
		Date:        models.FormatDate(d.Date),
	}
}

// Data converts the payload back to domain data.
func (p ExpensePayload) Data() (models.ExpenseData, error) {
	if strings.TrimSpace(p.Description) == "" {
		return models.ExpenseData{}, fmt.Errorf("description is required")
	}
	date, err := models.ParseDate(p.Date)
	if err != nil {
		return models.ExpenseData{}, err
	}
	return models.ExpenseData{
		Description: p.Description,
		Amount:      p.Amount,
		Date:        date,
	}, nil
}

// NewExpense converts a domain expense to its wire form.
func NewExpense(e models.Expense) Expense {
	return Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        models.FormatDate(e.Date),
	}
}

// Model converts a wire expense to the domain model.
func (e Expense) Model() (models.Expense, error) {
	date, err := models.ParseDate(e.Date)
	if err != nil {
		return models.Expense{}, err
	}
	return models.Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        date,
	}, nil
}
