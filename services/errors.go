package services

import (
	"errors"
	"fmt"
)

// Error kinds the handlers route on. Everything here is recoverable:
// ErrNotFound means inform the user and no-op, the order errors leave the
// order intact so the user can retry.
var (
	ErrNotFound              = errors.New("not found")
	ErrMalformedOrder        = errors.New("order items not decodable")
	ErrEmptyOrder            = errors.New("order has no chargeable lines")
	ErrMalformedCartKey      = errors.New("malformed cart key")
	ErrIncompleteOrderExists = errors.New("user already has an incomplete order")
)

// ValidationError is bad user input: re-prompt for the same field, no state
// change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
