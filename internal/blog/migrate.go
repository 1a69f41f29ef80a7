package blog

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/thingorm/thing/logger"
)

//go:embed migrations
var migrations embed.FS

// goose keeps its dialect and filesystem in package state
var gooseMu sync.Mutex

// migrationDir embedded directory and goose dialect of an executor dialect name
func migrationDir(dialect string) (dir, gooseDialect string, err error) {
	switch dialect {
	case "sqlite", "sqlite3":
		return "migrations/sqlite", "sqlite3", nil
	case "postgres", "pgx":
		return "migrations/postgres", "postgres", nil
	case "mysql":
		return "migrations/mysql", "mysql", nil
	}
	return "", "", fmt.Errorf("no migrations for dialect %q", dialect)
}

func withGoose(dialect string, l logger.Interface, fn func(dir string) error) error {
	dir, gooseDialect, err := migrationDir(dialect)
	if err != nil {
		return err
	}

	if l == nil {
		l = logger.Discard
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{l})
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return fn(dir)
}

// Migrate apply pending migrations
func Migrate(db *sql.DB, dialect string, l logger.Interface) error {
	return withGoose(dialect, l, func(dir string) error {
		if err := goose.Up(db, dir); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	})
}

// Rollback revert the last applied migration
func Rollback(db *sql.DB, dialect string, l logger.Interface) error {
	return withGoose(dialect, l, func(dir string) error {
		if err := goose.Down(db, dir); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return nil
	})
}

// Version current migration version
func Version(db *sql.DB, dialect string, l logger.Interface) (version int64, err error) {
	err = withGoose(dialect, l, func(string) error {
		version, err = goose.GetDBVersion(db)
		return err
	})
	return version, err
}

// gooseLogger routes goose output to the mapper logger
type gooseLogger struct {
	logger.Interface
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.Info(context.Background(), format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.Error(context.Background(), format, v...)
}
