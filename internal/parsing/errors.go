package parsing

import "fmt"

// ParseError means the model output held no JSON value of the expected shape.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError means JSON was found but it is not a valid What. Cause is
// usually a *schemas.ValidationError naming the failing fields.
type ValidationError struct {
	What  string
	Cause error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.What, e.Cause)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// EmptyResultError means the JSON was valid but every record in it was rejected.
type EmptyResultError struct {
	What string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no valid %s in response", e.What)
}
