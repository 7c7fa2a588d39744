package cli

import (
	"context"
	"errors"

	"github.com/mmynk/expenses/internal/models"
	"github.com/mmynk/expenses/internal/workflow"
)

// ErrNotSaved is returned after the error overlay of a failed mutation was shown.
var ErrNotSaved = errors.New("changes were not saved")

// formView is the manage-expense view: title, confirm/delete actions, and the
// blocking and error overlays driven by the workflow state.
type formView struct {
	console  *Console
	wf       *workflow.Workflow
	editedID string
	closed   bool
	overlay  *Overlay
}

func (app *App) newForm(s *session, editedID string) *formView {
	f := &formView{console: app.console, editedID: editedID}
	f.wf = workflow.New(s.store, s.client, f)
	f.wf.OnChange(f.render)
	f.console.Title(workflow.Title(editedID != ""))
	return f
}

// NavigateBack closes the form.
func (f *formView) NavigateBack() {
	f.closed = true
}

func (f *formView) render(state workflow.State) {
	switch st := state.(type) {
	case workflow.Submitting:
		f.overlay = f.console.BlockingOverlay("Saving...")
	case workflow.Failed:
		f.overlay.Stop()
		f.console.ErrorOverlay(st.Message)
	case workflow.Idle:
		f.overlay.Stop()
	}
}

// Confirm submits the form data, creating or updating the expense.
func (f *formView) Confirm(ctx context.Context, data models.ExpenseData) error {
	err := f.wf.Submit(ctx, f.editedID, data)
	return f.finish(err, workflow.SubmitLabel(f.editedID != ""))
}

// Delete removes the edited expense.
func (f *formView) Delete(ctx context.Context) error {
	return f.finish(f.wf.Delete(ctx, f.editedID), "Delete")
}

func (f *formView) finish(err error, action string) error {
	var wfErr *workflow.Error
	if errors.As(err, &wfErr) {
		// A terminal has no confirm button; showing the notice acknowledges it.
		f.wf.DismissError()
		return ErrNotSaved
	}
	if err != nil {
		return err
	}
	if f.closed {
		f.console.Success("%s succeeded", action)
	}
	return nil
}
