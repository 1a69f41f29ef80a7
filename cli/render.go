package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/thingorm/thing"
)

// Output formats
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Render write instances in the given format
func Render(w io.Writer, format string, primaryKey string, instances []*thing.Instance) error {
	switch format {
	case OutputJSON:
		return renderJSON(w, instances)
	case "", OutputTable:
		renderTable(w, primaryKey, instances)
		return nil
	}
	return fmt.Errorf("unknown output format %q, expected table or json", format)
}

func renderJSON(w io.Writer, instances []*thing.Instance) error {
	if instances == nil {
		instances = []*thing.Instance{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(instances)
}

func renderTable(w io.Writer, primaryKey string, instances []*thing.Instance) {
	rows := make([]map[string]interface{}, len(instances))
	for idx, inst := range instances {
		rows[idx] = inst.ToJSON()
	}
	columns := tableColumns(primaryKey, rows)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(columns))
	for idx, column := range columns {
		header[idx] = column
	}
	t.AppendHeader(header)

	for _, row := range rows {
		values := make(table.Row, len(columns))
		for idx, column := range columns {
			values[idx] = cell(row[column])
		}
		t.AppendRow(values)
	}

	t.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

// tableColumns primary key first, then the remaining keys sorted
func tableColumns(primaryKey string, rows []map[string]interface{}) []string {
	seen := map[string]bool{}
	var columns []string
	for _, row := range rows {
		for k := range row {
			if k != primaryKey && !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)
	return append([]string{primaryKey}, columns...)
}

func cell(v interface{}) interface{} {
	switch v.(type) {
	case nil:
		return "NULL"
	case map[string]interface{}, []map[string]interface{}, []interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
	return v
}
