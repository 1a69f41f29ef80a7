package schema

import "fmt"

// DataType attribute data type
type DataType string

const (
	String  DataType = "string"
	Number  DataType = "number"
	Boolean DataType = "boolean"
	Date    DataType = "date"
	Related DataType = "related"
	Virtual DataType = "virtual"
)

// DataTypes usable types for attributes, in declaration order
var DataTypes = []DataType{String, Number, Boolean, Date, Related, Virtual}

// ParseDataType parse a type name
func ParseDataType(name string) (DataType, error) {
	for _, t := range DataTypes {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// IsPrimitive primitive types are stored in a column and coerced on construction
func (t DataType) IsPrimitive() bool {
	switch t {
	case String, Number, Boolean, Date:
		return true
	}
	return false
}

func toDataType(v interface{}) (DataType, error) {
	switch t := v.(type) {
	case DataType:
		return ParseDataType(string(t))
	case string:
		return ParseDataType(t)
	}
	return "", fmt.Errorf("%w: type must be a string, got %T", ErrInvalidDescriptor, v)
}
