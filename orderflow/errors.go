package orderflow

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a terminal flow failure.
type ErrorKind string

const (
	KindNoMatchingTargets   ErrorKind = "no_matching_targets"
	KindSessionRequired     ErrorKind = "session_required"
	KindFetchFailed         ErrorKind = "fetch_failed"
	KindCreateFailed        ErrorKind = "create_failed"
	KindCalcFailed          ErrorKind = "calc_failed"
	KindValidationFailed    ErrorKind = "validation_failed"
	KindCreateOrderFailed   ErrorKind = "create_order_failed"
	KindWrongNetwork        ErrorKind = "wrong_network"
	KindInsufficientBalance ErrorKind = "insufficient_balance"
	KindApprovalFailed      ErrorKind = "approval_failed"
	KindTransactionFailed   ErrorKind = "transaction_failed"
	KindPaymentFailed       ErrorKind = "payment_failed"
	KindUserCancelled       ErrorKind = "user_cancelled"
	KindRestoreFailed       ErrorKind = "restore_failed"
)

// FlowError is a classified failure raised inside a step action.
type FlowError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure may be resumed from a snapshot.
// Missing targets cannot be retried (no order exists) and a missing
// session offers a login action instead of a retry.
func (e *FlowError) Retryable() bool {
	switch e.Kind {
	case KindNoMatchingTargets, KindSessionRequired:
		return false
	}
	return true
}

func newFlowError(kind ErrorKind, msg string, err error) *FlowError {
	return &FlowError{Kind: kind, Message: msg, Err: err}
}

// asFlowError normalizes any error into a FlowError of the given
// fallback kind.
func asFlowError(err error, fallback ErrorKind) *FlowError {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe
	}
	return &FlowError{Kind: fallback, Message: err.Error(), Err: err}
}

// ErrFlowActive is returned when a second flow start is attempted while
// one is already running for the conversation.
var ErrFlowActive = errors.New("an order flow is already active")

// ErrInvalidInput is returned for inline form validation problems; the
// flow stays at the current step and no failure artifact is produced.
var ErrInvalidInput = errors.New("invalid form input")
