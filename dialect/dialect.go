package dialect

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedDialect no dialect registered for the driver name
var ErrUnsupportedDialect = errors.New("unsupported dialect")

// Dialect placeholder and quoting differences between databases
type Dialect interface {
	Name() string
	// BindVar placeholder of the i-th variable, starting at 1
	BindVar(i int) string
	Quote(key string) string
	SupportLastInsertId() bool
	// ReturningStr clause appended to an insert to read back the key, empty when unsupported
	ReturningStr(key string) string
}

// New dialect for a driver name
func New(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pgx":
		return &postgres{}, nil
	case "mysql":
		return &mysql{}, nil
	case "sqlite", "sqlite3":
		return &sqlite3{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, driver)
}

func quoteWith(key string, quote byte) string {
	q := string(quote)
	return q + strings.ReplaceAll(key, q, q+q) + q
}
