package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType unknown attribute type
	ErrUnknownType = errors.New("unknown type")
	// ErrNotVirtual getter/setter on a non virtual attribute
	ErrNotVirtual = errors.New("attribute must be 'virtual'")
	// ErrNotRelated relationship metadata on a non related attribute
	ErrNotRelated = errors.New("attribute must be 'related'")
	// ErrInvalidRelationship unsupported relationship kind
	ErrInvalidRelationship = errors.New("invalid relationship")
	// ErrUnsupportedRelation relationship kind without a loading strategy
	ErrUnsupportedRelation = errors.New("unsupported relation")
	// ErrMissingAccessor virtual attribute without getter and setter
	ErrMissingAccessor = errors.New("virtual attribute requires a getter or a setter")
	// ErrCompiled schema already compiled
	ErrCompiled = errors.New("schema already compiled")
	// ErrNotCompiled schema not compiled yet
	ErrNotCompiled = errors.New("schema not compiled")
	// ErrInvalidDescriptor unsupported descriptor
	ErrInvalidDescriptor = errors.New("invalid descriptor")
	// ErrInvalidLink link is not in the form table.column
	ErrInvalidLink = errors.New("invalid link")
	// ErrInvalidDefault default producer must take no arguments and return one value
	ErrInvalidDefault = errors.New("invalid default producer")
	// ErrJoinToMany join loading requested on a to-many relation
	ErrJoinToMany = errors.New("join loading requires a to-one relationship")
	// ErrDuplicateRelation relation declared twice
	ErrDuplicateRelation = errors.New("duplicate relation")
)

// SchemaError invalid schema declaration
type SchemaError struct {
	Attribute string
	Err       error
}

func (e *SchemaError) Error() string {
	if e.Attribute == "" {
		return fmt.Sprintf("schema: %v", e.Err)
	}
	return fmt.Sprintf("schema: attribute %q: %v", e.Attribute, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

func newError(attribute string, err error) error {
	var se *SchemaError
	if errors.As(err, &se) {
		return err
	}
	return &SchemaError{Attribute: attribute, Err: err}
}
