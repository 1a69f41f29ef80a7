package executor_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/thingorm/thing/builder"
	"github.com/thingorm/thing/clause"
	"github.com/thingorm/thing/errtranslator"
	"github.com/thingorm/thing/executor"
	"github.com/thingorm/thing/logger"
)

type bufWriter struct {
	bytes.Buffer
}

func (w *bufWriter) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&w.Buffer, format, args...)
	w.WriteByte('\n')
}

func newMock(t *testing.T, driver string, opts ...executor.Option) (*executor.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	d, err := executor.OpenDB(driver, db, opts...)
	require.NoError(t, err)
	return d, mock
}

func TestQuery(t *testing.T) {
	d, mock := newMock(t, "sqlite")

	mock.ExpectQuery(`SELECT "users"."id","users"."name" FROM "users" WHERE "id" = ?`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), []byte("ann")))

	rows, err := d.Query(context.Background(), d.Select("users.id", "users.name").From("users").Where("id", 1))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, builder.Row{"id": int64(1), "name": "ann"}, rows[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryEmpty(t *testing.T) {
	d, mock := newMock(t, "sqlite")

	mock.ExpectQuery(`SELECT * FROM "users"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rows, err := d.Query(context.Background(), d.Select().From("users"))
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestQueryBuildError(t *testing.T) {
	d, mock := newMock(t, "sqlite")

	_, err := d.Query(context.Background(), d.Select())
	assert.ErrorIs(t, err, builder.ErrMissingTable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert(t *testing.T) {
	ctx := context.Background()

	t.Run("last insert id", func(t *testing.T) {
		d, mock := newMock(t, "sqlite")
		mock.ExpectExec(`INSERT INTO "users" ("age","name") VALUES (?,?)`).
			WithArgs(3, "ann").
			WillReturnResult(sqlmock.NewResult(7, 1))

		id, err := d.Insert(ctx, "users", builder.Row{"name": "ann", "age": 3}, "id")
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returning", func(t *testing.T) {
		d, mock := newMock(t, "postgres")
		mock.ExpectQuery(`INSERT INTO "users" ("name") VALUES ($1) RETURNING "id"`).
			WithArgs("ann").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

		id, err := d.Insert(ctx, "users", builder.Row{"name": "ann"}, "id")
		require.NoError(t, err)
		assert.Equal(t, int64(9), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("supplied key", func(t *testing.T) {
		d, mock := newMock(t, "mysql")
		mock.ExpectExec("INSERT INTO `posts` (`id`,`title`) VALUES (?,?)").
			WithArgs("p-1", "hello").
			WillReturnResult(sqlmock.NewResult(0, 1))

		id, err := d.Insert(ctx, "posts", builder.Row{"id": "p-1", "title": "hello"}, "id")
		require.NoError(t, err)
		assert.Equal(t, "p-1", id)
	})

	t.Run("default values", func(t *testing.T) {
		d, mock := newMock(t, "sqlite")
		mock.ExpectExec(`INSERT INTO "counters" DEFAULT VALUES`).WillReturnResult(sqlmock.NewResult(1, 1))

		id, err := d.Insert(ctx, "counters", builder.Row{}, "id")
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
	})

	t.Run("duplicated key", func(t *testing.T) {
		d, mock := newMock(t, "mysql", executor.WithErrorTranslator(errtranslator.For("mysql")))
		mock.ExpectExec("INSERT INTO `users` (`email`) VALUES (?)").
			WithArgs("ann@example.com").
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

		_, err := d.Insert(ctx, "users", builder.Row{"email": "ann@example.com"}, "id")
		assert.True(t, errtranslator.IsDuplicatedKey(err))
	})
}

func TestUpdateDelete(t *testing.T) {
	ctx := context.Background()
	d, mock := newMock(t, "sqlite")
	byID := clause.Eq{Column: clause.Column{Name: "id"}, Value: 1}

	mock.ExpectExec(`UPDATE "users" SET "age"=?,"name"=? WHERE "id" = ?`).
		WithArgs(4, "bob", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "users" WHERE "id" = ?`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := d.Update(ctx, "users", builder.Row{"name": "bob", "age": 4}, byID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = d.Delete(ctx, "users", byID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = d.Update(ctx, "users", builder.Row{"name": "x"})
	assert.ErrorIs(t, err, executor.ErrMissingWhereClause)
	_, err = d.Delete(ctx, "users")
	assert.ErrorIs(t, err, executor.ErrMissingWhereClause)

	n, err = d.Update(ctx, "users", builder.Row{}, byID)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionTrace(t *testing.T) {
	w := &bufWriter{}
	d, mock := newMock(t, "sqlite", executor.WithLogger(logger.New(w, logger.Config{LogLevel: logger.Info})))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users" ("name") VALUES (?)`).WithArgs("ann").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := d.Begin(context.Background())
	require.NoError(t, err)

	_, err = tx.Insert(context.Background(), "users", builder.Row{"name": "ann"}, "id")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	id := tx.(*executor.Tx).ID()
	assert.NotEmpty(t, id)
	assert.Contains(t, w.String(), `INSERT INTO "users" ("name") VALUES ('ann')`)
	assert.Contains(t, w.String(), "[tx:"+id+"]")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollback(t *testing.T) {
	d, mock := newMock(t, "sqlite")

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := d.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnsupportedDialect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = executor.OpenDB("oracle", db)
	assert.Error(t, err)
}

func TestSqliteRoundTrip(t *testing.T) {
	ctx := context.Background()
	d, err := executor.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer d.Close()
	d.DB().SetMaxOpenConns(1)

	_, err = d.DB().ExecContext(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, age INTEGER)`)
	require.NoError(t, err)

	id, err := d.Insert(ctx, "users", builder.Row{"name": "ann", "age": 30}, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = d.Update(ctx, "users", builder.Row{"age": 31}, clause.Eq{Column: "id", Value: id})
	require.NoError(t, err)

	rows, err := d.Query(ctx, d.Select("id", "name", "age").From("users").Where("id", id))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ann", rows[0]["name"])
	assert.EqualValues(t, 31, rows[0]["age"])

	n, err := d.Delete(ctx, "users", clause.Eq{Column: "id", Value: id})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
