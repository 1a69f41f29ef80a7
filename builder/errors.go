package builder

import "errors"

var (
	// ErrUnknownMethod statement method not found by Call
	ErrUnknownMethod = errors.New("unknown statement method")
	// ErrInvalidArguments wrong number or type of arguments
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrUnsupportedOperator unknown comparison operator
	ErrUnsupportedOperator = errors.New("unsupported operator")
	// ErrMissingTable statement built without a table
	ErrMissingTable = errors.New("table not specified")
)
