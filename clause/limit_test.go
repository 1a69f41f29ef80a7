package clause_test

import (
	"fmt"
	"testing"

	"github.com/thingorm/thing/clause"
)

func TestLimit(t *testing.T) {
	zero, ten, twenty, thirty, fifty, none := 0, 10, 20, 30, 50, -1
	results := []struct {
		Clauses []clause.Interface
		Result  string
		Vars    []interface{}
	}{
		{
			[]clause.Interface{clause.Select{}, clause.From{}, clause.Limit{Limit: &ten, Offset: &twenty}},
			"SELECT * FROM `users` LIMIT ? OFFSET ?", []interface{}{10, 20},
		},
		{
			[]clause.Interface{clause.Select{}, clause.From{}, clause.Limit{Limit: &zero}},
			"SELECT * FROM `users` LIMIT ?", []interface{}{0},
		},
		{
			[]clause.Interface{clause.Select{}, clause.From{}, clause.Limit{Offset: &twenty}},
			"SELECT * FROM `users` LIMIT ? OFFSET ?", []interface{}{2147483647, 20},
		},
		{
			[]clause.Interface{clause.Select{}, clause.From{}, clause.Limit{Offset: &twenty}, clause.Limit{Limit: &ten}},
			"SELECT * FROM `users` LIMIT ? OFFSET ?", []interface{}{10, 20},
		},
		{
			[]clause.Interface{clause.Select{}, clause.From{}, clause.Limit{Limit: &ten, Offset: &twenty}, clause.Limit{Offset: &thirty}, clause.Limit{Limit: &none}},
			"SELECT * FROM `users` LIMIT ? OFFSET ?", []interface{}{2147483647, 30},
		},
		{
			[]clause.Interface{clause.Select{}, clause.From{}, clause.Limit{Limit: &ten, Offset: &twenty}, clause.Limit{Limit: &zero}, clause.Limit{Offset: &zero}},
			"SELECT * FROM `users` LIMIT ?", []interface{}{0},
		},
		{
			[]clause.Interface{clause.Select{}, clause.From{}, clause.Limit{Offset: &thirty}, clause.Limit{Limit: &fifty}},
			"SELECT * FROM `users` LIMIT ? OFFSET ?", []interface{}{50, 30},
		},
	}

	for idx, result := range results {
		t.Run(fmt.Sprintf("case #%v", idx), func(t *testing.T) {
			checkBuildClauses(t, result.Clauses, result.Result, result.Vars)
		})
	}
}

func TestLimitEmpty(t *testing.T) {
	zero, none := 0, -1
	for idx, limit := range []clause.Limit{{}, {Limit: &none}, {Offset: &zero}, {Limit: &none, Offset: &zero}} {
		if !limit.Empty() {
			t.Errorf("case #%v: limit %+v should be empty", idx, limit)
		}
	}
	if (clause.Limit{Limit: &zero}).Empty() {
		t.Errorf("limit 0 should not be empty")
	}
}
