package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/thingorm/thing"
	"github.com/thingorm/thing/dialects/mysql"
	"github.com/thingorm/thing/dialects/postgres"
	"github.com/thingorm/thing/dialects/sqlite"
	"github.com/thingorm/thing/executor"
	"github.com/thingorm/thing/internal/blog"
	"github.com/thingorm/thing/logger"
)

// App opened database and registry of the blog models
type App struct {
	Config   *Config
	Logger   logger.Interface
	DB       *executor.DB
	Registry *thing.Registry
	Models   *blog.Models
}

// Open open the configured database, logging to w
func Open(cfg *Config, w io.Writer) (*App, error) {
	l, err := cfg.Log.NewLogger(w)
	if err != nil {
		return nil, err
	}

	db, err := openDB(cfg.Driver, cfg.DSN, executor.WithLogger(l))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	registry := thing.New(db, thing.WithLogger(l))
	models, err := blog.Register(registry)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &App{Config: cfg, Logger: l, DB: db, Registry: registry, Models: models}, nil
}

func openDB(driver, dsn string, opts ...executor.Option) (*executor.DB, error) {
	switch driver {
	case "sqlite", "sqlite3":
		return sqlite.Open(dsn, opts...)
	case "postgres", "pgx":
		return postgres.Open(dsn, opts...)
	case "pq":
		return postgres.OpenPQ(dsn, opts...)
	case "mysql":
		return mysql.Open(dsn, opts...)
	}
	return nil, fmt.Errorf("unsupported driver %q", driver)
}

// Dialect name of the opened database
func (app *App) Dialect() string {
	return app.DB.Dialect().Name()
}

// Model registered model by name
func (app *App) Model(name string) (*thing.Model, error) {
	return app.Registry.Model(name)
}

// Migrate apply pending migrations
func (app *App) Migrate(ctx context.Context) error {
	return blog.Migrate(app.DB.DB(), app.Dialect(), app.Logger)
}

// Close close the database
func (app *App) Close() error {
	return app.DB.Close()
}
