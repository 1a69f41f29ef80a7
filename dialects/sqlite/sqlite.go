package sqlite

import (
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/thingorm/thing/errtranslator"
	"github.com/thingorm/thing/executor"
)

// DriverName database/sql driver name of modernc.org/sqlite
const DriverName = "sqlite"

// Open sqlite executor, foreign keys are enforced
//
// An in-memory database lives as long as its connection, so it is limited to
// a single one.
func Open(dsn string, opts ...executor.Option) (*executor.DB, error) {
	db, err := sql.Open(DriverName, withPragma(dsn, "foreign_keys(1)"))
	if err != nil {
		return nil, err
	}
	if IsMemory(dsn) {
		db.SetMaxOpenConns(1)
	}

	opts = append([]executor.Option{executor.WithErrorTranslator(errtranslator.For(DriverName))}, opts...)
	d, err := executor.OpenDB(DriverName, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

// IsMemory dsn opens an in-memory database
func IsMemory(dsn string) bool {
	return dsn == "" || strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func withPragma(dsn, pragma string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	if dsn == "" {
		dsn = ":memory:"
	}
	return dsn + sep + "_pragma=" + pragma
}
