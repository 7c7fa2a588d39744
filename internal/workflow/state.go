package workflow

// Op names the kind of mutation being submitted.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// State is one of Idle, Submitting or Failed.
type State interface {
	isState()
}

// Idle means no mutation is in flight and no error is shown.
type Idle struct{}

// Submitting means a remote call is in flight.
type Submitting struct {
	Op Op
}

// Failed means the last remote call failed. Message is the fixed text shown to the user.
type Failed struct {
	Message string
}

func (Idle) isState()       {}
func (Submitting) isState() {}
func (Failed) isState()     {}

// IsSubmitting reports whether s is a Submitting state.
func IsSubmitting(s State) bool {
	_, ok := s.(Submitting)
	return ok
}
