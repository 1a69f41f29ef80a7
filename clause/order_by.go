package clause

type OrderByColumn struct {
	Column Column
	Desc   bool
}

// OrderBy sort columns, in the order they were added
type OrderBy struct {
	Columns []OrderByColumn
}

// Name order by clause name
func (orderBy OrderBy) Name() string {
	return "ORDER BY"
}

// Build build order by clause
func (orderBy OrderBy) Build(builder Builder) {
	for idx, column := range orderBy.Columns {
		if idx > 0 {
			builder.WriteByte(',')
		}

		builder.WriteQuoted(column.Column)
		if column.Desc {
			builder.WriteString(" DESC")
		}
	}
}

// MergeClause append the columns after the ones already added
func (orderBy OrderBy) MergeClause(clause *Clause) {
	if v, ok := clause.Expression.(OrderBy); ok {
		orderBy.Columns = append(append([]OrderByColumn(nil), v.Columns...), orderBy.Columns...)
	}
	clause.Expression = orderBy
}
