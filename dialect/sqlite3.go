package dialect

type sqlite3 struct{}

func (s *sqlite3) Name() string {
	return "sqlite3"
}

func (s *sqlite3) BindVar(i int) string {
	return "?"
}

func (s *sqlite3) SupportLastInsertId() bool {
	return true
}

func (s *sqlite3) ReturningStr(key string) string {
	return ""
}

func (s *sqlite3) Quote(key string) string {
	return quoteWith(key, '"')
}
