package cli

import (
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thingorm/thing/schema"
)

// FieldInfo generated attribute, Type is a thing type or one of its aliases
type FieldInfo struct {
	Name string
	Type string
}

// RelationInfo generated relation, Kind is hasOne, hasMany or belongsTo
type RelationInfo struct {
	Name  string
	Model string
	Kind  string
}

// Generator writes a model declaration and its create table migration
type Generator struct {
	ModelName     string
	Fields        []FieldInfo
	Relations     []RelationInfo
	Package       string
	ModelsDir     string
	MigrationsDir string
	Dialect       string
	// Now migration version clock, time.Now when nil
	Now func() time.Time
}

var naming = schema.NamingStrategy{}

// Generate write the files, returns their paths
func (g *Generator) Generate() ([]string, error) {
	if g.ModelName == "" || len(g.Fields) == 0 {
		return nil, fmt.Errorf("model name and fields must be provided")
	}
	if _, err := primaryKeyType(g.Dialect); err != nil {
		return nil, err
	}

	fields, err := g.fields()
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{g.ModelsDir, g.MigrationsDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}

	table := naming.TableName(g.ModelName)

	source, err := g.modelSource(fields)
	if err != nil {
		return nil, err
	}
	modelFile := filepath.Join(g.ModelsDir, naming.ColumnName(table, g.ModelName)+".go")
	if err := os.WriteFile(modelFile, source, 0o644); err != nil {
		return nil, err
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	migrationFile := filepath.Join(g.MigrationsDir, fmt.Sprintf("%s_create_%s.sql", now().UTC().Format("20060102150405"), table))
	if err := os.WriteFile(migrationFile, []byte(g.migrationSource(table, fields)), 0o644); err != nil {
		return nil, err
	}

	return []string{modelFile, migrationFile}, nil
}

// fields declared fields plus the local keys of belongsTo relations
func (g *Generator) fields() ([]FieldInfo, error) {
	fields := make([]FieldInfo, 0, len(g.Fields))
	seen := map[string]bool{}
	for _, field := range g.Fields {
		if _, err := mapType(field.Type); err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		seen[field.Name] = true
		fields = append(fields, field)
	}

	for _, rel := range g.Relations {
		switch schema.RelationshipType(rel.Kind) {
		case schema.HasOne, schema.HasMany:
		case schema.BelongsTo:
			if key := naming.ForeignKey(rel.Model, "id"); !seen[key] {
				seen[key] = true
				fields = append(fields, FieldInfo{Name: key, Type: "number"})
			}
		default:
			return nil, fmt.Errorf("relation %s: unsupported kind %q, expected hasOne, hasMany or belongsTo", rel.Name, rel.Kind)
		}
	}
	return fields, nil
}

func (g *Generator) modelSource(fields []FieldInfo) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\n", g.Package)
	b.WriteString("import (\n\t\"github.com/thingorm/thing\"\n\t\"github.com/thingorm/thing/schema\"\n)\n\n")
	fmt.Fprintf(&b, "// Declare%[1]s declares the %[1]s model on r\n", g.ModelName)
	fmt.Fprintf(&b, "func Declare%s(r *thing.Registry) (*thing.Model, error) {\n", g.ModelName)
	fmt.Fprintf(&b, "\treturn r.Make(%q, func(a *thing.Assembler) {\n", g.ModelName)
	b.WriteString("\t\ta.Schema(schema.Fields{\n")
	for _, field := range fields {
		t, _ := mapType(field.Type)
		fmt.Fprintf(&b, "\t\t\t{Name: %q, Descriptor: %q},\n", field.Name, string(t))
	}
	b.WriteString("\t\t})\n")

	table := naming.TableName(g.ModelName)
	for _, rel := range g.Relations {
		switch schema.RelationshipType(rel.Kind) {
		case schema.HasOne:
			fmt.Fprintf(&b, "\t\ta.HasOne(%q, schema.Relation{Model: %q, Link: %q})\n",
				rel.Name, rel.Model, naming.TableName(rel.Model)+"."+naming.ForeignKey(table, "id"))
		case schema.HasMany:
			fmt.Fprintf(&b, "\t\ta.HasMany(%q, schema.Relation{Model: %q, Link: %q})\n",
				rel.Name, rel.Model, naming.TableName(rel.Model)+"."+naming.ForeignKey(table, "id"))
		case schema.BelongsTo:
			fmt.Fprintf(&b, "\t\ta.BelongsTo(%q, schema.Relation{Model: %q, Link: %q, LocalKey: %q})\n",
				rel.Name, rel.Model, naming.TableName(rel.Model)+".id", naming.ForeignKey(rel.Model, "id"))
		}
	}
	b.WriteString("\t})\n}\n")

	return format.Source([]byte(b.String()))
}

func (g *Generator) migrationSource(table string, fields []FieldInfo) string {
	pk, _ := primaryKeyType(g.Dialect)
	columns := []string{"id " + pk}
	for _, field := range fields {
		t, _ := mapType(field.Type)
		columns = append(columns, naming.ColumnName(table, field.Name)+" "+sqlType(g.Dialect, t, field.Type))
	}

	return fmt.Sprintf(`-- +goose Up
CREATE TABLE %s (
    %s
);

-- +goose Down
DROP TABLE %s;
`, table, strings.Join(columns, ",\n    "), table)
}

// mapType thing type of a generator type name
func mapType(t string) (schema.DataType, error) {
	switch strings.ToLower(t) {
	case "string", "text":
		return schema.String, nil
	case "number", "int", "integer", "float":
		return schema.Number, nil
	case "boolean", "bool":
		return schema.Boolean, nil
	case "date", "time", "datetime":
		return schema.Date, nil
	}
	return "", fmt.Errorf("%w: %q", schema.ErrUnknownType, t)
}

func primaryKeyType(dialect string) (string, error) {
	switch dialect {
	case "sqlite", "sqlite3":
		return "INTEGER PRIMARY KEY AUTOINCREMENT", nil
	case "postgres", "pgx", "pq":
		return "BIGSERIAL PRIMARY KEY", nil
	case "mysql":
		return "BIGINT AUTO_INCREMENT PRIMARY KEY", nil
	}
	return "", fmt.Errorf("unsupported dialect %q", dialect)
}

func sqlType(dialect string, t schema.DataType, name string) string {
	float := strings.EqualFold(name, "float")
	switch dialect {
	case "postgres", "pgx", "pq":
		switch {
		case t == schema.Number && float:
			return "DOUBLE PRECISION"
		case t == schema.Number:
			return "BIGINT"
		case t == schema.Boolean:
			return "BOOLEAN"
		case t == schema.Date:
			return "TIMESTAMPTZ"
		}
		return "TEXT"
	case "mysql":
		switch {
		case t == schema.Number && float:
			return "DOUBLE"
		case t == schema.Number:
			return "BIGINT"
		case t == schema.Boolean:
			return "BOOLEAN"
		case t == schema.Date:
			return "DATETIME(3)"
		}
		return "VARCHAR(255)"
	}

	switch {
	case t == schema.Number && float:
		return "REAL"
	case t == schema.Number:
		return "INTEGER"
	case t == schema.Boolean:
		return "BOOLEAN"
	case t == schema.Date:
		return "DATETIME"
	}
	return "TEXT"
}

// parseFields name:type,name:type
func parseFields(s string) ([]FieldInfo, error) {
	var fields []FieldInfo
	for _, part := range splitList(s) {
		name, t, ok := strings.Cut(part, ":")
		if !ok {
			t = "string"
		}
		if name == "" {
			return nil, fmt.Errorf("invalid field %q, expected name:type", part)
		}
		fields = append(fields, FieldInfo{Name: name, Type: t})
	}
	return fields, nil
}

// parseRelations name:Model:kind,name:Model:kind
func parseRelations(s string) ([]RelationInfo, error) {
	var relations []RelationInfo
	for _, part := range splitList(s) {
		items := strings.Split(part, ":")
		if len(items) != 3 || items[0] == "" || items[1] == "" {
			return nil, fmt.Errorf("invalid relation %q, expected name:Model:kind", part)
		}
		relations = append(relations, RelationInfo{Name: items[0], Model: items[1], Kind: items[2]})
	}
	return relations, nil
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
