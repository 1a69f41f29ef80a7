package errtranslator

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const postgresUniqueViolation = "23505"

// PostgresErrTranslator translates lib/pq errors
type PostgresErrTranslator struct{}

func (p *PostgresErrTranslator) Translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == postgresUniqueViolation {
		return ErrDuplicatedKey{Code: string(pqErr.Code), Message: pqErr.Message, Err: err}
	}
	return err
}

// PgxErrTranslator translates pgx errors
type PgxErrTranslator struct{}

func (p *PgxErrTranslator) Translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == postgresUniqueViolation {
		return ErrDuplicatedKey{Code: pgErr.Code, Message: pgErr.Message, Err: err}
	}
	return err
}
