package dialect

import (
	"fmt"
)

type postgres struct{}

func (s *postgres) Name() string {
	return "postgres"
}

func (s *postgres) BindVar(i int) string {
	return fmt.Sprintf("$%v", i)
}

func (s *postgres) SupportLastInsertId() bool {
	return false
}

func (s *postgres) ReturningStr(key string) string {
	return fmt.Sprintf("RETURNING %v", s.Quote(key))
}

func (s *postgres) Quote(key string) string {
	return quoteWith(key, '"')
}
