// Package fault carries the error taxonomy shared by the verification
// workflow. Every remote or device failure is caught at its component
// boundary and converted into one of these kinds; nothing propagates to the
// user as an unclassified failure.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a workflow failure.
type Kind int

const (
	// KindConfiguration means a required identifier is missing. Fatal;
	// rendered as a full-screen message with the support contact.
	KindConfiguration Kind = iota
	// KindContextUnavailable means the listing lookup failed. Fatal for the
	// session.
	KindContextUnavailable
	// KindDeviceUnavailable means the camera was denied or is not ready.
	// Recoverable; the user may retry granting access.
	KindDeviceUnavailable
	// KindNoPhoto means submission was attempted with an empty photo set.
	KindNoPhoto
	// KindSubmissionBlocked means eligibility forbids a new submission.
	KindSubmissionBlocked
	// KindSubmissionFailed means a transient submission error. Recoverable;
	// the user may retry.
	KindSubmissionFailed
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindContextUnavailable:
		return "context_unavailable"
	case KindDeviceUnavailable:
		return "device_unavailable"
	case KindNoPhoto:
		return "no_photo"
	case KindSubmissionBlocked:
		return "submission_blocked"
	case KindSubmissionFailed:
		return "submission_failed"
	default:
		return "unknown"
	}
}

// Fatal reports whether the kind replaces the entire view rather than
// rendering inline near its step.
func (k Kind) Fatal() bool {
	return k == KindConfiguration || k == KindContextUnavailable
}

// Error is a classified workflow failure with a user-displayable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a fault with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err. ok is false if err carries no fault.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

// Is reports whether err is a fault of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// MessageOf returns the user-displayable message, or fallback for
// unclassified errors.
func MessageOf(err error, fallback string) string {
	var fe *Error
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return fallback
}
