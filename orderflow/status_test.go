package orderflow

import "testing"

func TestValidateTransition(t *testing.T) {
	valid := []struct {
		from, to FlowStatus
	}{
		{StatusIdle, StatusRunning},
		{StatusIdle, StatusFailed},
		{StatusRunning, StatusAwaitingInput},
		{StatusRunning, StatusFailed},
		{StatusRunning, StatusCompleted},
		{StatusAwaitingInput, StatusRunning},
		{StatusAwaitingInput, StatusFailed},
		{StatusFailed, StatusRunning},
	}
	for _, tt := range valid {
		t.Run(string(tt.from)+"→"+string(tt.to), func(t *testing.T) {
			if err := ValidateTransition(tt.from, tt.to); err != nil {
				t.Errorf("expected valid, got error: %v", err)
			}
		})
	}

	invalid := []struct {
		from, to FlowStatus
	}{
		{StatusIdle, StatusCompleted},
		{StatusIdle, StatusAwaitingInput},
		{StatusAwaitingInput, StatusCompleted},
		{StatusFailed, StatusCompleted},
		{StatusCompleted, StatusRunning},
		{StatusCompleted, StatusFailed},
	}
	for _, tt := range invalid {
		t.Run(string(tt.from)+"→"+string(tt.to), func(t *testing.T) {
			if err := ValidateTransition(tt.from, tt.to); err == nil {
				t.Errorf("expected transition %s -> %s to be rejected", tt.from, tt.to)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	if StatusRunning.IsTerminal() || StatusFailed.IsTerminal() {
		t.Error("running/failed must not be terminal")
	}
	if !StatusCompleted.IsTerminal() {
		t.Error("completed must be terminal")
	}
}
