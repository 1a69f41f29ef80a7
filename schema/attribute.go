package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Values read/write access to a model instance, handed to virtual accessors
type Values interface {
	Get(name string) interface{}
	Set(name string, value interface{}) error
}

// Getter computes a virtual attribute
type Getter func(v Values) interface{}

// Setter assigns a virtual attribute, usually by writing other attributes
type Setter func(v Values, value interface{}) error

// Attribute one declared attribute of a schema, and the builder declaring it
type Attribute struct {
	name         string
	dataType     DataType
	hidden       *bool
	readonly     bool
	defaultValue interface{}
	hasDefault   bool
	getter       Getter
	setter       Setter

	relationship RelationshipType
	model        string
	link         string
	localKey     string
	nested       *Schema
	eager        bool
	join         JoinKind
	columns      []string

	schema *Schema
	err    error
}

func newAttribute(s *Schema, name string) *Attribute {
	return &Attribute{name: name, dataType: String, schema: s}
}

// AddError record the first error
func (attr *Attribute) AddError(err error) *Attribute {
	if attr.err == nil && err != nil {
		attr.err = newError(attr.name, err)
	}
	return attr
}

// Err the first error raised while declaring the attribute
func (attr *Attribute) Err() error {
	return attr.err
}

func (attr *Attribute) mutable() bool {
	if attr.schema != nil && attr.schema.built {
		attr.AddError(ErrCompiled)
		return false
	}
	return true
}

func (attr *Attribute) requires(t DataType, err error) bool {
	if !attr.mutable() {
		return false
	}
	if attr.dataType != t {
		attr.AddError(err)
		return false
	}
	return true
}

// Type set attribute type, accepts a DataType or a type name
func (attr *Attribute) Type(t interface{}) *Attribute {
	if !attr.mutable() {
		return attr
	}
	dt, err := toDataType(t)
	if err != nil {
		return attr.AddError(err)
	}
	attr.dataType = dt
	return attr
}

// Hidden exclude attribute from serialization
func (attr *Attribute) Hidden(hidden bool) *Attribute {
	if attr.mutable() {
		attr.hidden = &hidden
	}
	return attr
}

// Readonly fix the value at construction
func (attr *Attribute) Readonly(readonly bool) *Attribute {
	if attr.mutable() {
		attr.readonly = readonly
	}
	return attr
}

// Default set default value, a function without arguments returning one value
// is called for every new instance
func (attr *Attribute) Default(value interface{}) *Attribute {
	if fn := reflect.ValueOf(value); fn.Kind() == reflect.Func && !producer(fn.Type()) {
		return attr.AddError(fmt.Errorf("%w: %s", ErrInvalidDefault, fn.Type()))
	}
	if attr.mutable() {
		attr.defaultValue = value
		attr.hasDefault = true
	}
	return attr
}

// Getter define getter of a virtual attribute
func (attr *Attribute) Getter(fn Getter) *Attribute {
	if attr.requires(Virtual, fmt.Errorf("%w to have a getter", ErrNotVirtual)) {
		attr.getter = fn
	}
	return attr
}

// Setter define setter of a virtual attribute
func (attr *Attribute) Setter(fn Setter) *Attribute {
	if attr.requires(Virtual, fmt.Errorf("%w to have a setter", ErrNotVirtual)) {
		attr.setter = fn
	}
	return attr
}

// Relationship set relationship kind of a related attribute, only hasOne and hasMany
func (attr *Attribute) Relationship(kind interface{}) *Attribute {
	if !attr.requires(Related, fmt.Errorf("%w to have a relationship", ErrNotRelated)) {
		return attr
	}

	t, err := parseRelationshipType(kind)
	if err != nil {
		return attr.AddError(err)
	}
	if t != HasOne && t != HasMany {
		return attr.AddError(fmt.Errorf("%w: %q is not one of hasOne, hasMany", ErrInvalidRelationship, kind))
	}
	attr.relationship = t
	return attr
}

// Model set target model name of a related attribute
func (attr *Attribute) Model(name string) *Attribute {
	if attr.requires(Related, fmt.Errorf("%w to have a model", ErrNotRelated)) {
		attr.model = name
	}
	return attr
}

// Link set relation link of a related attribute, in the form table.foreign_key
func (attr *Attribute) Link(link string) *Attribute {
	if !attr.requires(Related, fmt.Errorf("%w to have a link", ErrNotRelated)) {
		return attr
	}
	if _, err := ParseLink(link); err != nil {
		return attr.AddError(err)
	}
	attr.link = link
	return attr
}

// LocalKey set the owner column the link refers to, the primary key by default
func (attr *Attribute) LocalKey(column string) *Attribute {
	if attr.requires(Related, fmt.Errorf("%w to have a local key", ErrNotRelated)) {
		attr.localKey = column
	}
	return attr
}

// Schema describe the related record with a nested schema
func (attr *Attribute) Schema(descriptor interface{}) *Attribute {
	if !attr.requires(Related, fmt.Errorf("%w to have a schema", ErrNotRelated)) {
		return attr
	}
	nested, err := Parse(descriptor)
	if err != nil {
		return attr.AddError(err)
	}
	attr.nested = nested
	return attr
}

// Eager load the relation together with its owner
func (attr *Attribute) Eager(eager bool) *Attribute {
	if attr.requires(Related, fmt.Errorf("%w to be eager", ErrNotRelated)) {
		attr.eager = eager
	}
	return attr
}

// Join load an eager to-one relation with a SQL join, accepts a JoinKind, string or bool
func (attr *Attribute) Join(kind interface{}) *Attribute {
	if !attr.requires(Related, fmt.Errorf("%w to be joined", ErrNotRelated)) {
		return attr
	}
	j, err := parseJoinKind(kind)
	if err != nil {
		return attr.AddError(err)
	}
	attr.join = j
	return attr
}

// Columns columns selected when loading the relation
func (attr *Attribute) Columns(columns ...string) *Attribute {
	if attr.requires(Related, fmt.Errorf("%w to have columns", ErrNotRelated)) {
		attr.columns = append([]string(nil), columns...)
	}
	return attr
}

// Name attribute name
func (attr *Attribute) Name() string { return attr.name }

// DataType attribute type
func (attr *Attribute) DataType() DataType { return attr.dataType }

// IsHidden hidden attributes are never serialized, names starting with an underscore are hidden by default
func (attr *Attribute) IsHidden() bool {
	if attr.hidden != nil {
		return *attr.hidden
	}
	return strings.HasPrefix(attr.name, "_")
}

// IsReadonly readonly attributes can only be set at construction
func (attr *Attribute) IsReadonly() bool { return attr.readonly }

// IsVirtual computed attribute
func (attr *Attribute) IsVirtual() bool { return attr.dataType == Virtual }

// IsRelated relation attribute
func (attr *Attribute) IsRelated() bool { return attr.dataType == Related }

// IsColumn stored in a table column
func (attr *Attribute) IsColumn() bool { return attr.dataType.IsPrimitive() }

// HasDefault default value declared
func (attr *Attribute) HasDefault() bool { return attr.hasDefault }

// DefaultValue the default value, producers are invoked on every call
func (attr *Attribute) DefaultValue() interface{} {
	if fn := reflect.ValueOf(attr.defaultValue); fn.Kind() == reflect.Func && producer(fn.Type()) {
		if fn.IsNil() {
			return nil
		}
		return fn.Call(nil)[0].Interface()
	}
	return attr.defaultValue
}

func producer(t reflect.Type) bool {
	return t.NumIn() == 0 && t.NumOut() == 1
}

// GetterFunc getter of a virtual attribute
func (attr *Attribute) GetterFunc() Getter { return attr.getter }

// SetterFunc setter of a virtual attribute
func (attr *Attribute) SetterFunc() Setter { return attr.setter }

// RelationshipType relationship kind of a related attribute, hasOne when not set
func (attr *Attribute) RelationshipType() RelationshipType {
	if attr.relationship == "" {
		return HasOne
	}
	return attr.relationship
}

// ModelName target model name of a related attribute
func (attr *Attribute) ModelName() string { return attr.model }

// LinkSpec relation link, zero when not declared
func (attr *Attribute) LinkSpec() Link {
	link, _ := ParseLink(attr.link)
	return link
}

// LocalKeyName owner column referenced by the relation, empty for the primary key
func (attr *Attribute) LocalKeyName() string { return attr.localKey }

// NestedSchema nested schema of a related attribute
func (attr *Attribute) NestedSchema() *Schema { return attr.nested }

// IsEager related attribute loaded with its owner
func (attr *Attribute) IsEager() bool { return attr.eager }

// JoinKind join kind of a related attribute
func (attr *Attribute) JoinKind() JoinKind { return attr.join }

// ColumnNames columns selected for a related attribute
func (attr *Attribute) ColumnNames() []string { return append([]string(nil), attr.columns...) }

// Relation relation declared by a related attribute
func (attr *Attribute) Relation() *Relation {
	if !attr.IsRelated() {
		return nil
	}
	return &Relation{
		Name:     attr.name,
		Type:     attr.RelationshipType(),
		Model:    attr.model,
		Link:     attr.link,
		Columns:  attr.ColumnNames(),
		Eager:    attr.eager,
		Join:     attr.join,
		LocalKey: attr.localKey,
		Schema:   attr.nested,
	}
}

func (attr *Attribute) clone(s *Schema) *Attribute {
	a := *attr
	a.schema = s
	a.columns = append([]string(nil), attr.columns...)
	return &a
}

func (attr *Attribute) check() error {
	if attr.err != nil {
		return attr.err
	}
	if attr.dataType == Virtual && attr.getter == nil && attr.setter == nil {
		return newError(attr.name, ErrMissingAccessor)
	}
	if attr.dataType == Related && attr.link == "" && attr.model == "" {
		return newError(attr.name, fmt.Errorf("%w: related attribute requires a link or a model", ErrInvalidLink))
	}
	return nil
}
