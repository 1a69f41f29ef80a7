package builder

import (
	"fmt"
	"strings"

	"github.com/thingorm/thing/clause"
	"github.com/thingorm/thing/dialect"
)

// Writer renders clauses to SQL for a dialect, collecting bind vars
type Writer struct {
	strings.Builder
	Dialect dialect.Dialect
	// Table resolves clause.CurrentTable
	Table string
	Vars  []interface{}
	Error error
}

// NewWriter writer for a dialect
func NewWriter(d dialect.Dialect, table string) *Writer {
	return &Writer{Dialect: d, Table: table}
}

// ToSQL render a statement
func ToSQL(d dialect.Dialect, stmt *Statement) (string, []interface{}, error) {
	if stmt.Error != nil {
		return "", nil, stmt.Error
	}

	w := NewWriter(d, stmt.Table)
	stmt.Build(w)
	return w.String(), w.Vars, w.Error
}

// AddError add error, the first one is kept
func (w *Writer) AddError(err error) error {
	if w.Error == nil {
		w.Error = err
	}
	return w.Error
}

// WriteQuoted write quoted field
func (w *Writer) WriteQuoted(field interface{}) {
	w.QuoteTo(w, field)
}

// Quote returns quoted value
func (w *Writer) Quote(field interface{}) string {
	var builder strings.Builder
	w.QuoteTo(&builder, field)
	return builder.String()
}

// QuoteTo write quoted value to writer
func (w *Writer) QuoteTo(writer clause.Writer, field interface{}) {
	switch v := field.(type) {
	case clause.Table:
		if v.Raw {
			writer.WriteString(v.Name)
		} else {
			w.quoteName(writer, w.resolve(v.Name))
		}

		if v.Alias != "" {
			writer.WriteByte(' ')
			writer.WriteString(w.Dialect.Quote(v.Alias))
		}
	case clause.Column:
		if v.Table != "" {
			w.quoteName(writer, w.resolve(v.Table))
			writer.WriteByte('.')
		}

		if v.Raw {
			writer.WriteString(v.Name)
		} else {
			writer.WriteString(w.Dialect.Quote(v.Name))
		}

		if v.Alias != "" {
			writer.WriteString(" AS ")
			writer.WriteString(w.Dialect.Quote(v.Alias))
		}
	case string:
		w.quoteName(writer, v)
	default:
		w.quoteName(writer, fmt.Sprint(field))
	}
}

func (w *Writer) resolve(table string) string {
	if table == clause.CurrentTable {
		return w.Table
	}
	return table
}

// quoteName quote every part of a dotted name, schema.table
func (w *Writer) quoteName(writer clause.Writer, name string) {
	for idx, part := range strings.Split(name, ".") {
		if idx > 0 {
			writer.WriteByte('.')
		}
		writer.WriteString(w.Dialect.Quote(part))
	}
}

// AddVar add var as bind var, quoting columns and building expressions
func (w *Writer) AddVar(writer clause.Writer, vars ...interface{}) {
	for idx, v := range vars {
		if idx > 0 {
			writer.WriteByte(',')
		}

		switch v := v.(type) {
		case clause.Column, clause.Table:
			w.QuoteTo(writer, v)
		case clause.Expression:
			v.Build(w)
		case []interface{}:
			if len(v) > 0 {
				writer.WriteByte('(')
				w.AddVar(writer, v...)
				writer.WriteByte(')')
			} else {
				writer.WriteString("(NULL)")
			}
		default:
			w.Vars = append(w.Vars, v)
			writer.WriteString(w.Dialect.BindVar(len(w.Vars)))
		}
	}
}
