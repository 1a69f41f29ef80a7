package thing

import (
	"errors"
	"fmt"

	"github.com/thingorm/thing/schema"
)

var (
	// ErrModelNotFound model not registered
	ErrModelNotFound = errors.New("model not found")
	// ErrRelationNotFound relation not declared on the model
	ErrRelationNotFound = errors.New("relation not found")
	// ErrMethodNotFound method or static not declared on the model
	ErrMethodNotFound = errors.New("method not found")
	// ErrRegistered model name registered twice
	ErrRegistered = errors.New("model registered")
	// ErrReadonlyAttribute readonly attributes can only be set at construction
	ErrReadonlyAttribute = errors.New("readonly attribute")
	// ErrNoSetter virtual attribute without setter assigned
	ErrNoSetter = errors.New("virtual attribute has no setter")
	// ErrPrimaryKeyRequired instance isn't persisted yet
	ErrPrimaryKeyRequired = errors.New("primary key required")
	// ErrUnsupportedRelation relation can't be used for the operation
	ErrUnsupportedRelation = schema.ErrUnsupportedRelation
	// ErrInvalidData unsupported data
	ErrInvalidData = errors.New("unsupported data")
	// ErrInvalidHook unknown hook phase or event
	ErrInvalidHook = errors.New("invalid hook")
)

// ValidationError a value could not be assigned to an attribute
type ValidationError struct {
	Attribute string
	Err       error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("attribute %s: %v", e.Attribute, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
