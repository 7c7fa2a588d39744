package remote

import (
	"context"
	"fmt"

	"github.com/mmynk/expenses/internal/models"
)

// Client performs the three remote mutations of the expense collection.
type Client interface {
	// Create stores a new expense and returns the ID the service assigned.
	Create(ctx context.Context, data models.ExpenseData) (string, error)

	// Update replaces the expense identified by id.
	Update(ctx context.Context, id string, data models.ExpenseData) error

	// Delete removes the expense identified by id.
	Delete(ctx context.Context, id string) error
}

// Lister fetches the full expense collection.
type Lister interface {
	List(ctx context.Context) ([]models.Expense, error)
}

// RemoteError is any failure of a remote call. Network and server-side
// failures are not distinguished.
type RemoteError struct {
	// Op is the operation that failed: "create", "update", "delete" or "list".
	Op string

	// Status is the HTTP status code, or 0 when no response was received.
	Status int

	Err error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote %s failed (status %d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
