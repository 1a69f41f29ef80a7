package clause

import "math"

// Limit limit and offset, a nil field keeps the value of an earlier limit
// clause, a negative limit removes it
type Limit struct {
	Limit  *int
	Offset *int
}

// Name limit clause name
func (limit Limit) Name() string {
	return "LIMIT"
}

func (limit Limit) limited() bool {
	return limit.Limit != nil && *limit.Limit >= 0
}

func (limit Limit) skipped() bool {
	return limit.Offset != nil && *limit.Offset > 0
}

// Empty neither a limit nor an offset to write
func (limit Limit) Empty() bool {
	return !limit.limited() && !limit.skipped()
}

// Build build limit clause, an offset without a limit gets the largest one
// as sqlite and mysql don't accept a bare OFFSET
func (limit Limit) Build(builder Builder) {
	if limit.Empty() {
		return
	}

	builder.WriteString("LIMIT ")
	if limit.limited() {
		builder.AddVar(builder, *limit.Limit)
	} else {
		builder.AddVar(builder, math.MaxInt32)
	}

	if limit.skipped() {
		builder.WriteString(" OFFSET ")
		builder.AddVar(builder, *limit.Offset)
	}
}

// MergeClause fill the fields left nil from the previous limit
func (limit Limit) MergeClause(clause *Clause) {
	// Build writes the keyword
	clause.Name = ""

	if v, ok := clause.Expression.(Limit); ok {
		if limit.Limit == nil {
			limit.Limit = v.Limit
		}
		if limit.Offset == nil {
			limit.Offset = v.Offset
		}
	}
	clause.Expression = limit
}
