package schema

import (
	"fmt"
	"sort"
)

// Field a named attribute descriptor, Fields keeps declaration order
type Field struct {
	Name       string
	Descriptor interface{}
}

// Fields ordered schema descriptor
type Fields []Field

// Parse apply a schema descriptor
//
// Accepted descriptors: func(*Schema), func(*Schema) error, Fields, and
// map[string]interface{}. Map keys are applied in sorted order.
func (s *Schema) Parse(descriptor interface{}) error {
	switch d := descriptor.(type) {
	case func(*Schema):
		d(s)
		return s.firstError()
	case func(*Schema) error:
		if err := d(s); err != nil {
			return err
		}
		return s.firstError()
	case Fields:
		for _, f := range d {
			if _, err := s.Attribute(f.Name, f.Descriptor); err != nil {
				return err
			}
		}
		return nil
	case []Field:
		return s.Parse(Fields(d))
	case map[string]interface{}:
		names := make([]string, 0, len(d))
		for name := range d {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if _, err := s.Attribute(name, d[name]); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return nil
	}
	return newError("", fmt.Errorf("%w: schema descriptor can be a function, Fields or a map, got %T", ErrInvalidDescriptor, descriptor))
}

func (s *Schema) firstError() error {
	for _, attr := range s.attributes {
		if attr.err != nil {
			return attr.err
		}
	}
	return nil
}

// descriptor keys, type is applied first as other methods depend on it
var descriptorKeys = []string{
	"type", "hidden", "readonly", "default", "getter", "setter",
	"relationship", "model", "link", "localKey", "schema", "eager", "join", "columns",
}

func applyDescriptor(attr *Attribute, descriptor interface{}) {
	switch d := descriptor.(type) {
	case nil:
	case string, DataType:
		attr.Type(d)
	case func(*Attribute):
		d(attr)
	case func(*Attribute) *Attribute:
		d(attr)
	case map[string]interface{}:
		for key := range d {
			if !isDescriptorKey(key) {
				attr.AddError(fmt.Errorf("%w: unknown key %q", ErrInvalidDescriptor, key))
				return
			}
		}
		for _, key := range descriptorKeys {
			if v, ok := d[key]; ok {
				applyDescriptorKey(attr, key, v)
			}
		}
	default:
		attr.AddError(fmt.Errorf("%w: attribute descriptor can be a type name, a map or a function, got %T", ErrInvalidDescriptor, descriptor))
	}
}

func isDescriptorKey(key string) bool {
	for _, k := range descriptorKeys {
		if k == key {
			return true
		}
	}
	return false
}

func applyDescriptorKey(attr *Attribute, key string, v interface{}) {
	invalid := func() {
		attr.AddError(fmt.Errorf("%w: unsupported value %T for %q", ErrInvalidDescriptor, v, key))
	}

	switch key {
	case "type":
		attr.Type(v)
	case "hidden", "readonly", "eager":
		b, ok := v.(bool)
		if !ok {
			invalid()
			return
		}
		switch key {
		case "hidden":
			attr.Hidden(b)
		case "readonly":
			attr.Readonly(b)
		default:
			attr.Eager(b)
		}
	case "default":
		attr.Default(v)
	case "getter":
		switch fn := v.(type) {
		case Getter:
			attr.Getter(fn)
		case func(Values) interface{}:
			attr.Getter(fn)
		default:
			invalid()
		}
	case "setter":
		switch fn := v.(type) {
		case Setter:
			attr.Setter(fn)
		case func(Values, interface{}) error:
			attr.Setter(fn)
		default:
			invalid()
		}
	case "relationship":
		attr.Relationship(v)
	case "model", "link", "localKey":
		s, ok := v.(string)
		if !ok {
			invalid()
			return
		}
		switch key {
		case "model":
			attr.Model(s)
		case "link":
			attr.Link(s)
		default:
			attr.LocalKey(s)
		}
	case "schema":
		attr.Schema(v)
	case "join":
		attr.Join(v)
	case "columns":
		switch cols := v.(type) {
		case []string:
			attr.Columns(cols...)
		case []interface{}:
			names := make([]string, 0, len(cols))
			for _, c := range cols {
				name, ok := c.(string)
				if !ok {
					invalid()
					return
				}
				names = append(names, name)
			}
			attr.Columns(names...)
		default:
			invalid()
		}
	}
}
