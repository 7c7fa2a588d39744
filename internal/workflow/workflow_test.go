package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mmynk/expenses/internal/expenses"
	"github.com/mmynk/expenses/internal/models"
	"github.com/mmynk/expenses/internal/remote"
)

// fakeClient is a remote.Client whose calls can be made to fail or to block
// until released, so tests can observe the in-flight state.
type fakeClient struct {
	mu      sync.Mutex
	nextID  string
	err     error
	gate    chan struct{}
	entered chan struct{}
	calls   []Op
}

var _ remote.Client = (*fakeClient)(nil)

func (f *fakeClient) call(op Op) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	gate, entered, err := f.gate, f.entered, f.err
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeClient) Create(ctx context.Context, data models.ExpenseData) (string, error) {
	if err := f.call(OpCreate); err != nil {
		return "", err
	}
	return f.nextID, nil
}

func (f *fakeClient) Update(ctx context.Context, id string, data models.ExpenseData) error {
	return f.call(OpUpdate)
}

func (f *fakeClient) Delete(ctx context.Context, id string) error {
	return f.call(OpDelete)
}

// blocking makes the next remote call wait until release is called.
func (f *fakeClient) blocking() (wait func(), release func()) {
	f.gate = make(chan struct{})
	f.entered = make(chan struct{}, 1)
	return func() { <-f.entered }, func() { close(f.gate) }
}

type navCounter struct {
	mu sync.Mutex
	n  int
}

func (c *navCounter) NavigateBack() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *navCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

var (
	coffee = models.ExpenseData{Description: "Coffee", Amount: 3.5, Date: models.MustDate("2024-01-01")}
	tea    = models.ExpenseData{Description: "Tea", Amount: 4.0, Date: models.MustDate("2024-01-02")}
)

func setup(client *fakeClient) (*Workflow, *expenses.Store, *navCounter) {
	store := expenses.New()
	nav := &navCounter{}
	return New(store, client, nav), store, nav
}

func TestCreate_Success(t *testing.T) {
	client := &fakeClient{nextID: "42"}
	w, store, nav := setup(client)

	if err := w.Submit(context.Background(), "", coffee); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	got, ok := store.Find("42")
	if !ok {
		t.Fatal("expected expense 42 in store")
	}
	if got.Description != "Coffee" || got.Amount != 3.5 || models.FormatDate(got.Date) != "2024-01-01" {
		t.Errorf("unexpected stored expense: %+v", got)
	}
	if _, ok := w.State().(Idle); !ok {
		t.Errorf("expected Idle, got %#v", w.State())
	}
	if nav.count() != 1 {
		t.Errorf("expected 1 navigation, got %d", nav.count())
	}
}

func TestCreate_StoreUntouchedUntilRemoteSucceeds(t *testing.T) {
	client := &fakeClient{nextID: "42"}
	wait, release := client.blocking()
	w, store, _ := setup(client)

	done := make(chan error, 1)
	go func() { done <- w.Submit(context.Background(), "", coffee) }()
	wait()

	if s, ok := w.State().(Submitting); !ok || s.Op != OpCreate {
		t.Errorf("expected Submitting{create}, got %#v", w.State())
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store while in flight, got %d", store.Len())
	}

	release()
	if err := <-done; err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 expense, got %d", store.Len())
	}
}

func TestCreate_Failure(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	w, store, nav := setup(client)

	err := w.Submit(context.Background(), "", coffee)

	var wfErr *Error
	if !errors.As(err, &wfErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if wfErr.Message != MsgSaveFailed {
		t.Errorf("expected %q, got %q", MsgSaveFailed, wfErr.Message)
	}
	if f, ok := w.State().(Failed); !ok || f.Message != MsgSaveFailed {
		t.Errorf("expected Failed(%q), got %#v", MsgSaveFailed, w.State())
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d", store.Len())
	}
	if nav.count() != 0 {
		t.Errorf("expected no navigation, got %d", nav.count())
	}
}

// Update writes the store before the remote call and keeps the new values
// even when the call fails.
func TestUpdate_OptimisticWithoutRollback(t *testing.T) {
	client := &fakeClient{err: errors.New("500 internal server error")}
	wait, release := client.blocking()
	w, store, nav := setup(client)
	store.Add(coffee.WithID("42"))

	done := make(chan error, 1)
	go func() { done <- w.Submit(context.Background(), "42", tea) }()
	wait()

	got, _ := store.Find("42")
	if got.Description != "Tea" || got.Amount != 4.0 {
		t.Errorf("expected store updated before remote resolves, got %+v", got)
	}
	if !IsSubmitting(w.State()) {
		t.Errorf("expected Submitting, got %#v", w.State())
	}

	release()
	if err := <-done; err == nil {
		t.Fatal("expected update to fail")
	}

	if f, ok := w.State().(Failed); !ok || f.Message != "Could not save data - please try again later!" {
		t.Errorf("unexpected state %#v", w.State())
	}
	got, _ = store.Find("42")
	if got.Description != "Tea" || got.Amount != 4.0 || models.FormatDate(got.Date) != "2024-01-02" {
		t.Errorf("expected updated values to remain after failure, got %+v", got)
	}
	if nav.count() != 0 {
		t.Errorf("expected no navigation, got %d", nav.count())
	}
}

func TestUpdate_Success(t *testing.T) {
	client := &fakeClient{}
	w, store, nav := setup(client)
	store.Add(coffee.WithID("42"))

	if err := w.Submit(context.Background(), "42", tea); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	got, _ := store.Find("42")
	if got.Description != "Tea" {
		t.Errorf("expected 'Tea', got '%s'", got.Description)
	}
	if _, ok := w.State().(Idle); !ok {
		t.Errorf("expected Idle, got %#v", w.State())
	}
	if nav.count() != 1 {
		t.Errorf("expected 1 navigation, got %d", nav.count())
	}
}

func TestDelete_Failure(t *testing.T) {
	client := &fakeClient{err: errors.New("timeout")}
	w, store, nav := setup(client)
	store.Add(coffee.WithID("42"))

	err := w.Delete(context.Background(), "42")
	if err == nil {
		t.Fatal("expected delete to fail")
	}

	if _, ok := store.Find("42"); !ok {
		t.Error("expected expense 42 to remain in store")
	}
	if f, ok := w.State().(Failed); !ok || f.Message != "Could not delete expense - please try again later!" {
		t.Errorf("unexpected state %#v", w.State())
	}
	if nav.count() != 0 {
		t.Errorf("expected no navigation, got %d", nav.count())
	}
}

func TestDelete_Success(t *testing.T) {
	client := &fakeClient{}
	wait, release := client.blocking()
	w, store, nav := setup(client)
	store.Add(coffee.WithID("42"))

	done := make(chan error, 1)
	go func() { done <- w.Delete(context.Background(), "42") }()
	wait()

	if _, ok := store.Find("42"); !ok {
		t.Error("expected expense to remain while delete is in flight")
	}

	release()
	if err := <-done; err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := store.Find("42"); ok {
		t.Error("expected expense 42 to be gone")
	}
	if _, ok := w.State().(Idle); !ok {
		t.Errorf("expected Idle, got %#v", w.State())
	}
	if nav.count() != 1 {
		t.Errorf("expected 1 navigation, got %d", nav.count())
	}
}

func TestReentryWhileSubmitting(t *testing.T) {
	client := &fakeClient{nextID: "1"}
	wait, release := client.blocking()
	w, _, _ := setup(client)

	done := make(chan error, 1)
	go func() { done <- w.Submit(context.Background(), "", coffee) }()
	wait()

	if err := w.Delete(context.Background(), "1"); !errors.Is(err, ErrSubmitting) {
		t.Errorf("expected ErrSubmitting, got %v", err)
	}
	if err := w.Submit(context.Background(), "", tea); !errors.Is(err, ErrSubmitting) {
		t.Errorf("expected ErrSubmitting, got %v", err)
	}
	if s, ok := w.State().(Submitting); !ok || s.Op != OpCreate {
		t.Errorf("expected Submitting{create}, got %#v", w.State())
	}

	release()
	<-done
	if len(client.calls) != 1 {
		t.Errorf("expected 1 remote call, got %d", len(client.calls))
	}
}

func TestDismissErrorAndRetry(t *testing.T) {
	client := &fakeClient{nextID: "7", err: errors.New("offline")}
	w, store, _ := setup(client)

	_ = w.Submit(context.Background(), "", coffee)
	if _, ok := w.State().(Failed); !ok {
		t.Fatalf("expected Failed, got %#v", w.State())
	}

	w.DismissError()
	if _, ok := w.State().(Idle); !ok {
		t.Fatalf("expected Idle after dismiss, got %#v", w.State())
	}

	client.err = nil
	if err := w.Submit(context.Background(), "", coffee); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if _, ok := store.Find("7"); !ok {
		t.Error("expected expense 7 after retry")
	}
}

func TestRetryFromFailedClearsError(t *testing.T) {
	client := &fakeClient{err: errors.New("offline")}
	w, _, _ := setup(client)
	_ = w.Submit(context.Background(), "", coffee)

	client.err = nil
	wait, release := client.blocking()
	done := make(chan error, 1)
	go func() { done <- w.Submit(context.Background(), "", coffee) }()
	wait()

	if _, ok := w.State().(Submitting); !ok {
		t.Errorf("expected Submitting with error cleared, got %#v", w.State())
	}
	release()
	<-done
}

func TestSubmittingOnlyWhileInFlight(t *testing.T) {
	client := &fakeClient{nextID: "1"}
	w, _, _ := setup(client)

	var states []State
	w.OnChange(func(s State) { states = append(states, s) })

	if IsSubmitting(w.State()) {
		t.Fatal("expected not submitting at rest")
	}
	_ = w.Submit(context.Background(), "", coffee)
	client.err = errors.New("down")
	_ = w.Delete(context.Background(), "1")

	want := []State{Submitting{Op: OpCreate}, Idle{}, Submitting{Op: OpDelete}, Failed{Message: MsgDeleteFailed}}
	if len(states) != len(want) {
		t.Fatalf("expected %d transitions, got %d: %#v", len(want), len(states), states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("transition %d: expected %#v, got %#v", i, want[i], states[i])
		}
	}
	if IsSubmitting(w.State()) {
		t.Error("expected not submitting at rest")
	}
}

func TestCancelNavigatesWithoutStateChange(t *testing.T) {
	w, store, nav := setup(&fakeClient{})
	w.Cancel()

	if nav.count() != 1 {
		t.Errorf("expected 1 navigation, got %d", nav.count())
	}
	if _, ok := w.State().(Idle); !ok {
		t.Errorf("expected Idle, got %#v", w.State())
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d", store.Len())
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		editing   bool
		wantTitle string
		wantLabel string
	}{
		{false, "Add Expense", "Add"},
		{true, "Edit Expense", "Update"},
	}
	for _, tt := range tests {
		if got := Title(tt.editing); got != tt.wantTitle {
			t.Errorf("Title(%v) = %q, want %q", tt.editing, got, tt.wantTitle)
		}
		if got := SubmitLabel(tt.editing); got != tt.wantLabel {
			t.Errorf("SubmitLabel(%v) = %q, want %q", tt.editing, got, tt.wantLabel)
		}
	}
}
