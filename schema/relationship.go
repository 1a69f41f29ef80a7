package schema

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"
)

// RelationshipType relationship type
type RelationshipType string

const (
	HasOne        RelationshipType = "hasOne"        // HasOne has one relationship
	HasMany       RelationshipType = "hasMany"       // HasMany has many relationship
	BelongsTo     RelationshipType = "belongsTo"     // BelongsTo belongs to relationship
	BelongsToMany RelationshipType = "belongsToMany" // BelongsToMany many to many relationship
)

// IsToMany to-many relations resolve to a list of instances
func (t RelationshipType) IsToMany() bool {
	return t == HasMany || t == BelongsToMany
}

func parseRelationshipType(v interface{}) (RelationshipType, error) {
	var name string
	switch t := v.(type) {
	case RelationshipType:
		name = string(t)
	case string:
		name = t
	default:
		return "", fmt.Errorf("%w: relationship must be a string, got %T", ErrInvalidDescriptor, v)
	}

	for _, t := range []RelationshipType{HasOne, HasMany, BelongsTo, BelongsToMany} {
		if strings.EqualFold(name, string(t)) {
			return t, nil
		}
	}
	return RelationshipType(name), nil
}

// JoinKind how a join-eager relation is joined, NoJoin loads it with a batched query
type JoinKind string

const (
	NoJoin    JoinKind = ""
	InnerJoin JoinKind = "inner"
	LeftJoin  JoinKind = "left"
)

func parseJoinKind(v interface{}) (JoinKind, error) {
	switch j := v.(type) {
	case JoinKind:
		v = string(j)
	case bool:
		if j {
			return LeftJoin, nil
		}
		return NoJoin, nil
	case nil:
		return NoJoin, nil
	}

	if s, ok := v.(string); ok {
		switch strings.ToLower(s) {
		case "", "false", "none":
			return NoJoin, nil
		case "left", "true":
			return LeftJoin, nil
		case "inner":
			return InnerJoin, nil
		}
		return "", fmt.Errorf("%w: unknown join kind %q", ErrInvalidDescriptor, s)
	}
	return "", fmt.Errorf("%w: join must be a string or bool, got %T", ErrInvalidDescriptor, v)
}

// Link the target side of a relation, written as table.column
type Link struct {
	Table  string
	Column string
}

// ParseLink parse table.column
func ParseLink(s string) (Link, error) {
	idx := strings.LastIndexByte(s, '.')
	if idx <= 0 || idx == len(s)-1 {
		return Link{}, fmt.Errorf("%w: %q, expected table.column", ErrInvalidLink, s)
	}
	return Link{Table: s[:idx], Column: s[idx+1:]}, nil
}

// IsZero link not declared
func (l Link) IsZero() bool {
	return l.Table == "" && l.Column == ""
}

func (l Link) String() string {
	if l.IsZero() {
		return ""
	}
	return l.Table + "." + l.Column
}

// Relation a relation declared on a model
//
// For HasOne and HasMany, Link names the foreign key column on the target
// table, and LocalKey the referenced column of the owner (its primary key by
// default). For BelongsTo, Link names the referenced target column and LocalKey
// the foreign key column of the owner.
type Relation struct {
	Name     string
	Type     RelationshipType
	Model    string
	Link     string
	Columns  []string
	Eager    bool
	Lazy     bool
	Join     JoinKind
	LocalKey string
	// Schema optional nested schema describing the related record
	Schema *Schema

	link Link
}

// ParsedLink link parsed by Relationships.Add
func (rel *Relation) ParsedLink() Link {
	return rel.link
}

// JoinEager resolved with a SQL join in the primary statement
func (rel *Relation) JoinEager() bool {
	return rel.Eager && rel.Join != NoJoin
}

// BatchEager resolved with one batched query after the primary statement
func (rel *Relation) BatchEager() bool {
	return rel.Eager && rel.Join == NoJoin
}

// Clone copy relation
func (rel *Relation) Clone() *Relation {
	r := *rel
	r.Columns = append([]string(nil), rel.Columns...)
	return &r
}

// Validate check relation metadata, parsing its link
func (rel *Relation) Validate() error {
	switch rel.Type {
	case HasOne, HasMany, BelongsTo:
	case BelongsToMany:
		return newError(rel.Name, fmt.Errorf("%w: %s requires a join table", ErrUnsupportedRelation, rel.Type))
	default:
		return newError(rel.Name, fmt.Errorf("%w: %q", ErrInvalidRelationship, rel.Type))
	}

	if rel.Join != NoJoin && rel.Type.IsToMany() {
		return newError(rel.Name, ErrJoinToMany)
	}

	if rel.Link != "" {
		link, err := ParseLink(rel.Link)
		if err != nil {
			return newError(rel.Name, err)
		}
		rel.link = link
	} else if rel.Type == BelongsTo {
		return newError(rel.Name, fmt.Errorf("%w: belongsTo requires a link", ErrInvalidLink))
	} else if rel.Model == "" {
		return newError(rel.Name, fmt.Errorf("%w: either a link or a model is required", ErrInvalidLink))
	}

	if rel.Type == BelongsTo && rel.LocalKey == "" {
		rel.LocalKey = inflection.Singular(rel.link.Table) + "_" + rel.link.Column
	}
	return nil
}

// Relationships relation name to relation, in declaration order
type Relationships struct {
	names     []string
	relations map[string]*Relation
}

// NewRelationships empty relationship map
func NewRelationships() *Relationships {
	return &Relationships{relations: map[string]*Relation{}}
}

// Add validate and add a relation
func (rs *Relationships) Add(rel *Relation) error {
	if rel.Name == "" {
		return newError("", fmt.Errorf("%w: relation name required", ErrInvalidDescriptor))
	}
	if _, ok := rs.relations[rel.Name]; ok {
		return newError(rel.Name, ErrDuplicateRelation)
	}
	if err := rel.Validate(); err != nil {
		return err
	}

	rs.names = append(rs.names, rel.Name)
	rs.relations[rel.Name] = rel
	return nil
}

// Get relation by name
func (rs *Relationships) Get(name string) (*Relation, bool) {
	rel, ok := rs.relations[name]
	return rel, ok
}

// Names relation names in declaration order
func (rs *Relationships) Names() []string {
	return append([]string(nil), rs.names...)
}

// Len number of relations
func (rs *Relationships) Len() int {
	return len(rs.names)
}

// Each iterate relations in declaration order
func (rs *Relationships) Each(fn func(*Relation)) {
	for _, name := range rs.names {
		fn(rs.relations[name])
	}
}

// Clone deep copy, used when a model is extended
func (rs *Relationships) Clone() *Relationships {
	clone := NewRelationships()
	for _, name := range rs.names {
		clone.names = append(clone.names, name)
		clone.relations[name] = rs.relations[name].Clone()
	}
	return clone
}
