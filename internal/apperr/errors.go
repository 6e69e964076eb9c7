// Package apperr defines the error kinds shared by the cart, order and
// inventory services. Every kind is recoverable; callers compare with errors.Is
// and surface Message to the user.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrValidation   = errors.New("validation failed")
	// ErrConflict means the operation needs an explicit decision from the caller
	ErrConflict = errors.New("conflict")
)

// Error carries the failed operation and the entity involved
type Error struct {
	Op      string // e.g. "cart.AddItem"
	ID      string
	Message string // user-facing text
	Err     error  // one of the sentinels above
}

func (e *Error) Error() string {
	switch {
	case e.ID != "" && e.Message != "":
		return fmt.Sprintf("%s [%s]: %s", e.Op, e.ID, e.Message)
	case e.ID != "":
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.ID, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind error, op, id, format string, args ...interface{}) *Error {
	return &Error{Op: op, ID: id, Message: fmt.Sprintf(format, args...), Err: kind}
}

// NotFound reports an unresolvable item, order or outlet id
func NotFound(op, what, id string) *Error {
	return newError(ErrNotFound, op, id, "%s %s not found", what, id)
}

// InvalidState reports an operation the current state does not permit
func InvalidState(op, id, format string, args ...interface{}) *Error {
	return newError(ErrInvalidState, op, id, format, args...)
}

// EmptyCart reports a checkout with no lines
func EmptyCart(op string) *Error {
	return newError(ErrEmptyCart, op, "", "Your cart is empty!")
}

// Validation reports bad input
func Validation(op, format string, args ...interface{}) *Error {
	return newError(ErrValidation, op, "", format, args...)
}

// Conflict reports a state change that needs the caller to confirm
func Conflict(op, id, format string, args ...interface{}) *Error {
	return newError(ErrConflict, op, id, format, args...)
}

// Message returns the user-facing text for err
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
