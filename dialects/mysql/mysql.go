package mysql

import (
	"database/sql"

	"github.com/go-sql-driver/mysql"

	"github.com/thingorm/thing/errtranslator"
	"github.com/thingorm/thing/executor"
)

// Open mysql executor, DATETIME columns are scanned into time.Time
func Open(dsn string, opts ...executor.Option) (*executor.DB, error) {
	config, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	return OpenConfig(config, opts...)
}

// OpenConfig mysql executor from a driver config
func OpenConfig(config *mysql.Config, opts ...executor.Option) (*executor.DB, error) {
	config.ParseTime = true

	connector, err := mysql.NewConnector(config)
	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(connector)
	opts = append([]executor.Option{executor.WithErrorTranslator(errtranslator.For("mysql"))}, opts...)
	d, err := executor.OpenDB("mysql", db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}
