package orderflow

import "fmt"

// FlowStatus is the lifecycle state of one order flow. Transitions are
// validated so illegal ones are rejected rather than silently applied.
type FlowStatus string

const (
	StatusIdle          FlowStatus = "idle"
	StatusRunning       FlowStatus = "running"
	StatusAwaitingInput FlowStatus = "awaiting_input"
	StatusFailed        FlowStatus = "failed"
	StatusCompleted     FlowStatus = "completed"
)

var statusTransitions = map[FlowStatus][]FlowStatus{
	StatusIdle:          {StatusRunning, StatusFailed},
	StatusRunning:       {StatusAwaitingInput, StatusFailed, StatusCompleted},
	StatusAwaitingInput: {StatusRunning, StatusFailed},
	StatusFailed:        {StatusRunning},
	StatusCompleted:     {},
}

// IsTerminal reports whether the flow can never run again from here.
func (s FlowStatus) IsTerminal() bool {
	return s == StatusCompleted
}

// ValidateTransition checks that from -> to is a legal status change.
func ValidateTransition(from, to FlowStatus) error {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("illegal flow status transition %s -> %s", from, to)
}
