package errors

import (
	"fmt"
	"strings"
)

// Sentinel errors shared across repositories and services. The split matters
// for callers: caller mistakes (bad transition, bad input) must be corrected
// by the operator, environment issues may be retried automatically.
var (
	ErrNotFound   = fmt.Errorf("record not found")
	ErrBadRequest = fmt.Errorf("invalid request")

	// Actor context
	ErrActorNotFoundInContext = fmt.Errorf("actor not found in request context")

	// Status engine
	ErrInvalidTransition = fmt.Errorf("invalid transition")
	ErrCommentRequired   = fmt.Errorf("a comment explaining the reason is required")

	// Shipment verification
	ErrShipmentNotFound       = fmt.Errorf("scanned code matches no known shipment or order")
	ErrShipmentClosed         = fmt.Errorf("shipment is already in transit and cannot be reopened")
	ErrCrossShipmentScan      = fmt.Errorf("scan belongs to a different shipment; finish or abandon the current one first")
	ErrVerificationIncomplete = fmt.Errorf("not every declared package has been scanned")
	ErrNoShipmentSelected     = fmt.Errorf("no shipment is currently selected")
)

// InvalidTransitionError carries the rejected pair so the operator sees the
// specific reason, not just a generic refusal.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

func NewInvalidTransitionError(from, to string) error {
	return &InvalidTransitionError{From: from, To: to}
}

// ValidationError collects every failing field in one pass instead of
// stopping at the first.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

func NewValidationError(fields []string) error {
	return &ValidationError{Fields: fields}
}

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// HttpError is the transport-level error envelope produced by controllers.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}
