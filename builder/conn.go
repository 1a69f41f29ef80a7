package builder

import (
	"context"

	"github.com/thingorm/thing/clause"
)

// Row one result row, column name to scalar
type Row map[string]interface{}

// Conn relational executor, statements are built lazily and run by Query
type Conn interface {
	Select(columns ...string) *Statement
	Query(ctx context.Context, stmt *Statement) ([]Row, error)
	// Insert a record and return the generated primary key
	Insert(ctx context.Context, table string, record Row, primaryKey string) (interface{}, error)
	Update(ctx context.Context, table string, record Row, conds ...clause.Expression) (int64, error)
	Delete(ctx context.Context, table string, conds ...clause.Expression) (int64, error)
}

// Executor connection able to begin transactions
type Executor interface {
	Conn
	Begin(ctx context.Context) (Tx, error)
}

// Tx transaction scoped connection
type Tx interface {
	Conn
	Commit() error
	Rollback() error
}
