package kiosk

import (
	"errors"
	"fmt"
)

// State is the check-in workflow state.
type State int

const (
	Idle State = iota
	Loading
	Gated
	Unlocked
	Accepting
	Completed
	Unavailable
)

var stateNames = [...]string{
	Idle:        "idle",
	Loading:     "loading",
	Gated:       "gated",
	Unlocked:    "unlocked",
	Accepting:   "accepting",
	Completed:   "completed",
	Unavailable: "unavailable",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText renders the state by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// ModalShown reports whether the document modal is on screen.
func (s State) ModalShown() bool {
	return s != Idle && s != Completed
}

var (
	ErrBusy           = errors.New("a check-in is already in progress")
	ErrNotUnlocked    = errors.New("the document has not been on screen long enough")
	ErrUnknownVisitor = errors.New("visitor is not waiting to check in")
	ErrNoSelection    = errors.New("no visitor selected")
)

// Workflow steps reported by StepError.
const (
	StepDocument       = "document"
	StepAcceptDocument = "accept-document"
	StepCheckIn        = "checkin"
)

// StepError is a failed gateway call inside the workflow.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
