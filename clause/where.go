package clause

const (
	and = " AND "
	or  = " OR "
)

// Where conditions joined with AND, an Or of a single expression joins
// the previous ones with OR
type Where struct {
	Exprs []Expression
}

// Name where clause name
func (where Where) Name() string {
	return "WHERE"
}

// Build build where clause
func (where Where) Build(builder Builder) {
	exprs := where.Exprs
	if len(exprs) == 1 {
		if v, ok := exprs[0].(AndConditions); ok {
			exprs = v.Exprs
		}
	}
	writeConditions(builder, exprs, and)
}

// MergeClause append the conditions to the ones already added
func (where Where) MergeClause(clause *Clause) {
	if prev, ok := clause.Expression.(Where); ok {
		where.Exprs = append(append([]Expression(nil), prev.Exprs...), where.Exprs...)
	}
	clause.Expression = where
}

func writeConditions(builder Builder, exprs []Expression, sep string) {
	for idx, expr := range exprs {
		if idx > 0 {
			if v, ok := expr.(OrConditions); ok && len(v.Exprs) == 1 {
				builder.WriteString(or)
			} else {
				builder.WriteString(sep)
			}
		}

		if len(exprs) > 1 && grouped(expr) {
			builder.WriteByte('(')
			expr.Build(builder)
			builder.WriteByte(')')
		} else {
			expr.Build(builder)
		}
	}
}

func writeGroup(builder Builder, exprs []Expression, sep string) {
	if len(exprs) > 1 {
		builder.WriteByte('(')
		writeConditions(builder, exprs, sep)
		builder.WriteByte(')')
		return
	}
	writeConditions(builder, exprs, sep)
}

// grouped raw sql with its own AND or OR, alone or wrapped in a group of one
func grouped(expr Expression) bool {
	switch v := expr.(type) {
	case Expr:
		return wrapped(v.SQL)
	case AndConditions:
		return len(v.Exprs) == 1 && grouped(v.Exprs[0])
	case OrConditions:
		return len(v.Exprs) == 1 && grouped(v.Exprs[0])
	}
	return false
}

// And conditions that must all hold, a single condition is returned as is
func And(exprs ...Expression) Expression {
	if len(exprs) == 0 {
		return nil
	}
	if len(exprs) == 1 {
		if _, ok := exprs[0].(OrConditions); !ok {
			return exprs[0]
		}
	}
	return AndConditions{Exprs: exprs}
}

type AndConditions struct {
	Exprs []Expression
}

func (c AndConditions) Build(builder Builder) {
	writeGroup(builder, c.Exprs, and)
}

// Or conditions of which one must hold
func Or(exprs ...Expression) Expression {
	if len(exprs) == 0 {
		return nil
	}
	return OrConditions{Exprs: exprs}
}

type OrConditions struct {
	Exprs []Expression
}

func (c OrConditions) Build(builder Builder) {
	writeGroup(builder, c.Exprs, or)
}

// Not negate every condition
func Not(exprs ...Expression) Expression {
	if len(exprs) == 0 {
		return nil
	}
	return NotConditions{Exprs: exprs}
}

type NotConditions struct {
	Exprs []Expression
}

func (c NotConditions) Build(builder Builder) {
	if len(c.Exprs) > 1 {
		builder.WriteByte('(')
	}

	for idx, expr := range c.Exprs {
		if idx > 0 {
			builder.WriteString(and)
		}

		if negation, ok := expr.(NegationExpressionBuilder); ok {
			negation.NegationBuild(builder)
			continue
		}

		builder.WriteString("NOT ")
		if grouped(expr) {
			builder.WriteByte('(')
			expr.Build(builder)
			builder.WriteByte(')')
		} else {
			expr.Build(builder)
		}
	}

	if len(c.Exprs) > 1 {
		builder.WriteByte(')')
	}
}
