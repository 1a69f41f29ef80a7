// Package executor runs builder statements against database/sql.
package executor

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/thingorm/thing/builder"
	"github.com/thingorm/thing/clause"
	"github.com/thingorm/thing/dialect"
	"github.com/thingorm/thing/errtranslator"
	"github.com/thingorm/thing/logger"
)

var (
	// ErrMissingWhereClause update or delete without conditions
	ErrMissingWhereClause = errors.New("WHERE conditions required")
	// ErrNoRows the insert returned no key
	ErrNoRows = errors.New("insert returned no rows")
)

var (
	_ builder.Executor = (*DB)(nil)
	_ builder.Tx       = (*Tx)(nil)
)

var numericPlaceholder = regexp.MustCompile(`\$(\d+)`)

// ExecQuerier wraps the standard Exec and Query methods, implemented by *sql.DB and *sql.Tx
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Option configures a DB
type Option func(*DB)

// WithLogger trace statements to l
func WithLogger(l logger.Interface) Option {
	return func(d *DB) {
		d.logger = l
	}
}

// WithErrorTranslator translate driver errors before returning them
func WithErrorTranslator(t errtranslator.ErrTranslator) Option {
	return func(d *DB) {
		d.translator = t
	}
}

// WithDialect override the dialect derived from the driver name
func WithDialect(d dialect.Dialect) Option {
	return func(db *DB) {
		db.dialect = d
	}
}

// Conn implements builder.Conn over an ExecQuerier
type Conn struct {
	ExecQuerier
	dialect    dialect.Dialect
	logger     logger.Interface
	translator errtranslator.ErrTranslator
	txID       string
}

// DB implements builder.Executor
type DB struct {
	Conn
	db *sql.DB
}

// Open wraps sql.Open
func Open(driver, dsn string, opts ...Option) (*DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	d, err := OpenDB(driver, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

// OpenDB wraps an opened *sql.DB
func OpenDB(driver string, db *sql.DB, opts ...Option) (*DB, error) {
	d := &DB{db: db}
	d.ExecQuerier = db
	d.logger = logger.Discard
	for _, opt := range opts {
		opt(d)
	}

	if d.dialect == nil {
		dia, err := dialect.New(driver)
		if err != nil {
			return nil, err
		}
		d.dialect = dia
	}
	return d, nil
}

// DB returns the underlying *sql.DB
func (d *DB) DB() *sql.DB {
	return d.db
}

// Close closes the underlying connection pool
func (d *DB) Close() error {
	return d.db.Close()
}

// Begin starts a transaction, its statements are traced with a generated tx id
func (d *DB) Begin(ctx context.Context) (builder.Tx, error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// BeginTx starts a transaction with options
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, d.translate(err)
	}

	id := uuid.NewString()
	d.logger.Info(logger.WithTxID(ctx, id), "begin transaction")
	return &Tx{
		Conn: Conn{
			ExecQuerier: tx,
			dialect:     d.dialect,
			logger:      d.logger,
			translator:  d.translator,
			txID:        id,
		},
		tx: tx,
	}, nil
}

// Tx implements builder.Tx
type Tx struct {
	Conn
	tx *sql.Tx
}

// ID transaction id attached to traces
func (t *Tx) ID() string {
	return t.txID
}

func (t *Tx) Commit() error {
	err := t.tx.Commit()
	t.logger.Info(logger.WithTxID(context.Background(), t.txID), "commit transaction")
	return err
}

func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	t.logger.Info(logger.WithTxID(context.Background(), t.txID), "rollback transaction")
	return err
}

// Dialect of the connection
func (c *Conn) Dialect() dialect.Dialect {
	return c.dialect
}

// Select starts a statement
func (c *Conn) Select(columns ...string) *builder.Statement {
	return builder.New(columns...)
}

// Query runs a select statement and scans every row into a builder.Row
func (c *Conn) Query(ctx context.Context, stmt *builder.Statement) ([]builder.Row, error) {
	query, vars, err := builder.ToSQL(c.dialect, stmt)
	if err != nil {
		return nil, err
	}

	var results []builder.Row
	begin := time.Now()
	defer func() {
		c.trace(ctx, begin, query, vars, int64(len(results)), err)
	}()

	rows, err := c.QueryContext(ctx, query, vars...)
	if err != nil {
		err = c.translate(err)
		return nil, err
	}
	defer rows.Close()

	results, err = ScanRows(rows)
	return results, err
}

// Insert inserts a record, the generated key is read back with RETURNING or LastInsertId
func (c *Conn) Insert(ctx context.Context, table string, record builder.Row, primaryKey string) (id interface{}, err error) {
	w := builder.NewWriter(c.dialect, table)
	w.WriteString("INSERT INTO ")
	w.WriteQuoted(clause.Table{Name: table})

	columns := sortedKeys(record)
	switch {
	case len(columns) > 0:
		w.WriteString(" (")
		for idx, column := range columns {
			if idx > 0 {
				w.WriteByte(',')
			}
			w.WriteQuoted(clause.Column{Name: column})
		}
		w.WriteString(") VALUES (")
		for idx, column := range columns {
			if idx > 0 {
				w.WriteByte(',')
			}
			w.AddVar(w, record[column])
		}
		w.WriteByte(')')
	case c.dialect.Name() == "mysql":
		w.WriteString(" () VALUES ()")
	default:
		w.WriteString(" DEFAULT VALUES")
	}

	returning := ""
	if primaryKey != "" {
		returning = c.dialect.ReturningStr(primaryKey)
	}
	if returning != "" {
		w.WriteByte(' ')
		w.WriteString(returning)
	}

	if w.Error != nil {
		return nil, w.Error
	}

	query := w.String()
	var rowsAffected int64
	begin := time.Now()
	defer func() {
		c.trace(ctx, begin, query, w.Vars, rowsAffected, err)
	}()

	if returning != "" {
		var rows *sql.Rows
		if rows, err = c.QueryContext(ctx, query, w.Vars...); err != nil {
			err = c.translate(err)
			return nil, err
		}
		defer rows.Close()

		if !rows.Next() {
			if err = rows.Err(); err == nil {
				err = ErrNoRows
			}
			err = c.translate(err)
			return nil, err
		}
		if err = rows.Scan(&id); err != nil {
			return nil, err
		}
		rowsAffected = 1
		return normalize(id), rows.Err()
	}

	result, err := c.ExecContext(ctx, query, w.Vars...)
	if err != nil {
		err = c.translate(err)
		return nil, err
	}
	rowsAffected, _ = result.RowsAffected()

	if v, ok := record[primaryKey]; ok && v != nil {
		return v, nil
	}
	if primaryKey != "" && c.dialect.SupportLastInsertId() {
		insertID, err := result.LastInsertId()
		if err != nil {
			return nil, err
		}
		return insertID, nil
	}
	return nil, nil
}

// Update updates the matching rows, conditions are required
func (c *Conn) Update(ctx context.Context, table string, record builder.Row, conds ...clause.Expression) (int64, error) {
	if len(conds) == 0 {
		return 0, ErrMissingWhereClause
	}
	if len(record) == 0 {
		return 0, nil
	}

	w := builder.NewWriter(c.dialect, table)
	w.WriteString("UPDATE ")
	w.WriteQuoted(clause.Table{Name: table})
	w.WriteString(" SET ")
	clause.Assignments(record).Build(w)
	w.WriteString(" WHERE ")
	clause.Where{Exprs: conds}.Build(w)

	return c.exec(ctx, w)
}

// Delete deletes the matching rows, conditions are required
func (c *Conn) Delete(ctx context.Context, table string, conds ...clause.Expression) (int64, error) {
	if len(conds) == 0 {
		return 0, ErrMissingWhereClause
	}

	w := builder.NewWriter(c.dialect, table)
	w.WriteString("DELETE FROM ")
	w.WriteQuoted(clause.Table{Name: table})
	w.WriteString(" WHERE ")
	clause.Where{Exprs: conds}.Build(w)

	return c.exec(ctx, w)
}

func (c *Conn) exec(ctx context.Context, w *builder.Writer) (rowsAffected int64, err error) {
	if w.Error != nil {
		return 0, w.Error
	}

	query := w.String()
	begin := time.Now()
	defer func() {
		c.trace(ctx, begin, query, w.Vars, rowsAffected, err)
	}()

	result, err := c.ExecContext(ctx, query, w.Vars...)
	if err != nil {
		err = c.translate(err)
		return 0, err
	}
	return result.RowsAffected()
}

func (c *Conn) translate(err error) error {
	if err == nil || c.translator == nil {
		return err
	}
	return c.translator.Translate(err)
}

func (c *Conn) trace(ctx context.Context, begin time.Time, query string, vars []interface{}, rows int64, err error) {
	if c.logger == nil {
		return
	}
	if c.txID != "" {
		ctx = logger.WithTxID(ctx, c.txID)
	}

	c.logger.Trace(ctx, begin, func() (string, int64) {
		if filter, ok := c.logger.(logger.ParamsFilter); ok {
			query, vars = filter.ParamsFilter(ctx, query, vars...)
		}
		if c.dialect.BindVar(1) == "?" {
			return logger.ExplainSQL(query, nil, `'`, vars...), rows
		}
		return logger.ExplainSQL(query, numericPlaceholder, `'`, vars...), rows
	}, err)
}

// ScanRows reads every row into a builder.Row keyed by column name
func ScanRows(rows *sql.Rows) ([]builder.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := []builder.Row{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for idx := range values {
			pointers[idx] = &values[idx]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(builder.Row, len(columns))
		for idx, column := range columns {
			row[column] = normalize(values[idx])
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// normalize text columns some drivers return as bytes
func normalize(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func sortedKeys(record builder.Row) []string {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
