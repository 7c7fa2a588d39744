// Package workflow orchestrates creating, updating and deleting a single
// expense: one local store mutation plus one remote call, with the
// submitting and error states the form view renders.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mmynk/expenses/internal/expenses"
	"github.com/mmynk/expenses/internal/models"
	"github.com/mmynk/expenses/internal/remote"
)

// User-facing failure messages. The underlying remote error is never shown.
const (
	MsgSaveFailed   = "Could not save data - please try again later!"
	MsgDeleteFailed = "Could not delete expense - please try again later!"
)

// ErrSubmitting is returned when a mutation is triggered while another is in flight.
var ErrSubmitting = errors.New("a submission is already in progress")

// Navigator is the capability to leave the form view.
type Navigator interface {
	NavigateBack()
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) NavigateBack() { f() }

// Workflow is the create/update/delete state machine for one form view.
//
// Update is optimistic: the store is changed before the remote call and is
// not rolled back if the call fails. Create and delete touch the store only
// after the remote call succeeds.
type Workflow struct {
	store  *expenses.Store
	client remote.Client
	nav    Navigator

	mu       sync.Mutex
	state    State
	onChange func(State)
}

// New creates a Workflow in the Idle state.
func New(store *expenses.Store, client remote.Client, nav Navigator) *Workflow {
	return &Workflow{
		store:  store,
		client: client,
		nav:    nav,
		state:  Idle{},
	}
}

// OnChange registers a callback invoked after every state transition.
// It is called without the workflow lock held.
func (w *Workflow) OnChange(fn func(State)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Submit saves the form data. An empty editedID creates a new expense,
// otherwise the expense with that ID is updated.
func (w *Workflow) Submit(ctx context.Context, editedID string, data models.ExpenseData) error {
	if editedID == "" {
		return w.create(ctx, data)
	}
	return w.update(ctx, editedID, data)
}

func (w *Workflow) create(ctx context.Context, data models.ExpenseData) error {
	if err := w.begin(OpCreate); err != nil {
		return err
	}

	id, err := w.client.Create(ctx, data)
	if err != nil {
		return w.fail(OpCreate, MsgSaveFailed, err)
	}

	w.store.Add(data.WithID(id))
	slog.Debug("Expense created", "id", id)
	w.succeed()
	return nil
}

func (w *Workflow) update(ctx context.Context, id string, data models.ExpenseData) error {
	if err := w.begin(OpUpdate); err != nil {
		return err
	}

	w.store.Update(id, data)
	if err := w.client.Update(ctx, id, data); err != nil {
		return w.fail(OpUpdate, MsgSaveFailed, err)
	}

	slog.Debug("Expense updated", "id", id)
	w.succeed()
	return nil
}

// Delete removes the expense with the given ID, remotely first and then locally.
func (w *Workflow) Delete(ctx context.Context, id string) error {
	if err := w.begin(OpDelete); err != nil {
		return err
	}

	if err := w.client.Delete(ctx, id); err != nil {
		return w.fail(OpDelete, MsgDeleteFailed, err)
	}

	w.store.Delete(id)
	slog.Debug("Expense deleted", "id", id)
	w.succeed()
	return nil
}

// Cancel leaves the form without touching the store or the state.
func (w *Workflow) Cancel() {
	w.nav.NavigateBack()
}

// DismissError acknowledges a failure and returns to Idle.
// It does nothing in any other state.
func (w *Workflow) DismissError() {
	w.mu.Lock()
	if _, ok := w.state.(Failed); !ok {
		w.mu.Unlock()
		return
	}
	w.transitionLocked(Idle{})
}

// begin moves Idle or Failed to Submitting, clearing any shown error.
func (w *Workflow) begin(op Op) error {
	w.mu.Lock()
	if IsSubmitting(w.state) {
		w.mu.Unlock()
		return ErrSubmitting
	}
	w.transitionLocked(Submitting{Op: op})
	return nil
}

func (w *Workflow) succeed() {
	w.mu.Lock()
	w.transitionLocked(Idle{})
	w.nav.NavigateBack()
}

func (w *Workflow) fail(op Op, msg string, err error) error {
	slog.Warn("Expense mutation failed", "op", op, "error", err)
	w.mu.Lock()
	w.transitionLocked(Failed{Message: msg})
	return &Error{Op: op, Message: msg, Err: err}
}

// transitionLocked sets the state, releases the lock and notifies the observer.
func (w *Workflow) transitionLocked(s State) {
	w.state = s
	fn := w.onChange
	w.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

// Error is returned by a failed mutation. Message is the user-facing text,
// Err the underlying remote failure.
type Error struct {
	Op      Op
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Title returns the form view title.
func Title(editing bool) string {
	if editing {
		return "Edit Expense"
	}
	return "Add Expense"
}

// SubmitLabel returns the label of the form's confirm action.
func SubmitLabel(editing bool) string {
	if editing {
		return "Update"
	}
	return "Add"
}
