package dialect

type mysql struct{}

func (s *mysql) Name() string {
	return "mysql"
}

func (s *mysql) BindVar(i int) string {
	return "?"
}

func (s *mysql) SupportLastInsertId() bool {
	return true
}

func (s *mysql) ReturningStr(key string) string {
	return ""
}

func (s *mysql) Quote(key string) string {
	return quoteWith(key, '`')
}
