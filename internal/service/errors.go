package service

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalidPayment is returned when an action names a payment code that
// does not match any enumerated gateway, or a profile action targets a
// gateway with nothing stored for the customer.
var ErrInvalidPayment = errors.New("the selected payment method is invalid")

// ValidationError carries one message per failed form field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		msgs = append(msgs, e.Fields[field])
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

// CustomerInvalidError means the current user may not place this order.
type CustomerInvalidError struct {
	Reason string
}

func (e *CustomerInvalidError) Error() string {
	return e.Reason
}

// AddressInvalidError means a delivery address failed serviceability
// checks, as opposed to format validation.
type AddressInvalidError struct {
	Reason string
}

func (e *AddressInvalidError) Error() string {
	return e.Reason
}

// SecurityError is a cart, location or order-time violation raised by the
// checkout security gate.
type SecurityError struct {
	Reason string
}

func (e *SecurityError) Error() string {
	return e.Reason
}
