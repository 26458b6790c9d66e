package moderation

import (
	"errors"
	"fmt"
)

// Business-rule failures. These are expected, frequent outcomes — callers
// translate them to client errors and they are never logged as system errors.
var (
	// ErrAdNotFound means the ad id resolves to nothing.
	ErrAdNotFound = errors.New("ad not found")

	// ErrReasonRequired means a rejection arrived without a reason.
	ErrReasonRequired = errors.New("rejecting an ad requires a non-empty reason")

	// ErrUnknownAction means the action was neither approve nor reject.
	ErrUnknownAction = errors.New("action must be approve or reject")

	// ErrNoActiveSubscription means the supplier has no subscription or it is
	// not active — the supplier needs to subscribe (or renew a canceled one).
	ErrNoActiveSubscription = errors.New("supplier has no active subscription")

	// ErrInsufficientCredits means the subscription is active but the monthly
	// allowance is used up — the supplier needs to wait for renewal.
	ErrInsufficientCredits = errors.New("no ad credits remaining for this billing period")
)

// NotPendingError reports a moderation attempt on an ad outside the pending
// state, naming the actual status so the caller sees what happened.
type NotPendingError struct {
	Status string
}

func (e *NotPendingError) Error() string {
	return fmt.Sprintf("ad is not pending moderation (current status: %s)", e.Status)
}

// ErrorCode maps a moderation error to the machine-checkable code the API
// returns alongside the message.
func ErrorCode(err error) string {
	var notPending *NotPendingError
	switch {
	case errors.Is(err, ErrAdNotFound):
		return "ad_not_found"
	case errors.Is(err, ErrReasonRequired):
		return "reason_required"
	case errors.Is(err, ErrUnknownAction):
		return "unknown_action"
	case errors.Is(err, ErrNoActiveSubscription):
		return "no_active_subscription"
	case errors.Is(err, ErrInsufficientCredits):
		return "insufficient_credits"
	case errors.As(err, &notPending):
		return "not_pending"
	default:
		return "internal_error"
	}
}

// IsBusinessError reports whether the error is an expected business-rule
// failure rather than a system fault.
func IsBusinessError(err error) bool {
	return ErrorCode(err) != "internal_error"
}
