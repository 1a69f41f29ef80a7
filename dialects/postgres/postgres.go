package postgres

import (
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/thingorm/thing/errtranslator"
	"github.com/thingorm/thing/executor"
)

// Open postgres executor on the pgx driver
func Open(dsn string, opts ...executor.Option) (*executor.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return wrap("pgx", db, opts)
}

// OpenPQ postgres executor on the lib/pq driver
func OpenPQ(dsn string, opts ...executor.Option) (*executor.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return wrap("postgres", db, opts)
}

// OpenConfig postgres executor from a pgx connection string, the parsed config
// can be adjusted by configure before the pool opens
func OpenConfig(dsn string, configure func(*pgx.ConnConfig), opts ...executor.Option) (*executor.DB, error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if configure != nil {
		configure(config)
	}
	return wrap("pgx", stdlib.OpenDB(*config), opts)
}

func wrap(driver string, db *sql.DB, opts []executor.Option) (*executor.DB, error) {
	opts = append([]executor.Option{executor.WithErrorTranslator(errtranslator.For(driver))}, opts...)
	d, err := executor.OpenDB(driver, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}
