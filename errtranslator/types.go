package errtranslator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTranslator converts driver specific errors into errors the model layer understands
type ErrTranslator interface {
	Translate(err error) error
}

// ErrDuplicatedKey a unique constraint was violated
type ErrDuplicatedKey struct {
	Code    interface{}
	Message string
	Err     error
}

func (e ErrDuplicatedKey) Error() string {
	return fmt.Sprintf("duplicated key not allowed, code: %v, message: %s", e.Code, e.Message)
}

func (e ErrDuplicatedKey) Unwrap() error {
	return e.Err
}

// IsDuplicatedKey reports whether err wraps an ErrDuplicatedKey
func IsDuplicatedKey(err error) bool {
	var dup ErrDuplicatedKey
	return errors.As(err, &dup)
}

// For returns the translator of the driver, unknown drivers translate nothing
func For(driver string) ErrTranslator {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql":
		return &PostgresErrTranslator{}
	case "pgx":
		return &PgxErrTranslator{}
	case "mysql":
		return &MysqlErrTranslator{}
	case "sqlite", "sqlite3":
		return &SqliteErrTranslator{}
	}
	return noop{}
}

// Chain tries every translator in order and returns the first translated error
type Chain []ErrTranslator

func (c Chain) Translate(err error) error {
	for _, t := range c {
		if translated := t.Translate(err); translated != err {
			return translated
		}
	}
	return err
}

type noop struct{}

func (noop) Translate(err error) error { return err }
