package schema

import "fmt"

// Schema ordered attributes of a model
type Schema struct {
	attributes []*Attribute
	byName     map[string]*Attribute
	built      bool
	related    []string
	virtual    []string
}

// New empty schema
func New() *Schema {
	return &Schema{byName: map[string]*Attribute{}}
}

// Parse build and compile a schema from a descriptor
func Parse(descriptor interface{}) (*Schema, error) {
	s := New()
	if err := s.Parse(descriptor); err != nil {
		return nil, err
	}
	if err := s.Compile(); err != nil {
		return nil, err
	}
	return s, nil
}

// Attribute create or return the named attribute, applying the descriptor to it
//
// A descriptor is a type name, a map of builder method name to argument, or a
// func(*Attribute) callback.
func (s *Schema) Attribute(name string, descriptor ...interface{}) (*Attribute, error) {
	if s.built {
		return nil, newError(name, ErrCompiled)
	}
	if name == "" {
		return nil, newError(name, fmt.Errorf("%w: attribute name required", ErrInvalidDescriptor))
	}

	attr, ok := s.byName[name]
	if !ok {
		attr = newAttribute(s, name)
		s.attributes = append(s.attributes, attr)
		s.byName[name] = attr
	}

	for _, d := range descriptor {
		applyDescriptor(attr, d)
	}
	return attr, attr.Err()
}

// Compile validate all attributes and lock the schema, compiling twice is a no-op
func (s *Schema) Compile() error {
	if s.built {
		return nil
	}

	var related, virtual []string
	for _, attr := range s.attributes {
		if err := attr.check(); err != nil {
			return err
		}
		switch attr.dataType {
		case Related:
			if err := attr.Relation().Validate(); err != nil {
				return err
			}
			related = append(related, attr.name)
		case Virtual:
			virtual = append(virtual, attr.name)
		}
	}

	s.related, s.virtual = related, virtual
	s.built = true
	return nil
}

// Compiled schema locked
func (s *Schema) Compiled() bool {
	return s.built
}

// Related names of related attributes
func (s *Schema) Related() ([]string, error) {
	if !s.built {
		return nil, newError("", ErrNotCompiled)
	}
	return append([]string(nil), s.related...), nil
}

// Virtual names of virtual attributes
func (s *Schema) Virtual() ([]string, error) {
	if !s.built {
		return nil, newError("", ErrNotCompiled)
	}
	return append([]string(nil), s.virtual...), nil
}

// Hidden names of hidden attributes
func (s *Schema) Hidden() []string {
	var names []string
	s.EachAttribute(func(attr *Attribute) {
		if attr.IsHidden() {
			names = append(names, attr.name)
		}
	})
	return names
}

// Names all attribute names in declaration order
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.attributes))
	s.EachAttribute(func(attr *Attribute) {
		names = append(names, attr.name)
	})
	return names
}

// Columns names of the attributes stored in table columns
func (s *Schema) Columns() []string {
	var names []string
	s.EachAttribute(func(attr *Attribute) {
		if attr.IsColumn() {
			names = append(names, attr.name)
		}
	})
	return names
}

// EachAttribute iterate attributes in declaration order
func (s *Schema) EachAttribute(fn func(*Attribute)) {
	for _, attr := range s.attributes {
		fn(attr)
	}
}

// Lookup attribute by name
func (s *Schema) Lookup(name string) (*Attribute, bool) {
	attr, ok := s.byName[name]
	return attr, ok
}

// Len number of attributes
func (s *Schema) Len() int {
	return len(s.attributes)
}

// Clone uncompiled copy holding the same declarations
func (s *Schema) Clone() *Schema {
	clone := New()
	for _, attr := range s.attributes {
		a := attr.clone(clone)
		clone.attributes = append(clone.attributes, a)
		clone.byName[a.name] = a
	}
	return clone
}
