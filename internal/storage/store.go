// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/expenses/internal/models"
)

// ErrNotFound is returned when an expense ID does not exist.
var ErrNotFound = errors.New("expense not found")

// Store defines the interface for expense storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	// CreateExpense persists a new expense.
	// The expense.ID field will be populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by its ID.
	// Returns an error wrapping ErrNotFound if the expense does not exist.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)

	// ListExpenses returns all expenses, newest date first.
	ListExpenses(ctx context.Context) ([]*models.Expense, error)

	// UpdateExpense replaces the description, amount and date of an existing expense.
	// Returns an error wrapping ErrNotFound if the expense does not exist.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense.
	// Returns an error wrapping ErrNotFound if the expense does not exist.
	DeleteExpense(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
