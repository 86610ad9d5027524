package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindInternal   Kind = "INTERNAL"
)

// Error is returned by every service operation that fails for a reason the
// caller can act on. Err carries the underlying cause for logging only.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func validationError(message string, fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func fieldError(field, message string) *Error {
	return validationError(message, map[string][]string{field: {message}})
}

func notFound(entity string, id int64) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %d not found", entity, id)}
}

func conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: "database error", Err: fmt.Errorf("%s: %w", op, err)}
}

// KindOf reports the kind of err; anything that is not an *Error is internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// wrap turns a persistence error into an *Error, passing *Error values through.
// A unique index violation means a concurrent writer took the resource first.
func wrap(op string, err error, onDuplicate func() *Error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) && onDuplicate != nil {
		return onDuplicate()
	}
	return internal(op, err)
}
