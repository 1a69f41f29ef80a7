package clause_test

import (
	"fmt"
	"testing"

	"github.com/thingorm/thing/clause"
)

func TestSet(t *testing.T) {
	results := []struct {
		Clauses []clause.Interface
		Result  string
		Vars    []interface{}
	}{
		{
			[]clause.Interface{clause.Set([]clause.Assignment{{Column: clause.Column{Name: "name"}, Value: "ann"}})},
			"SET `name`=?", []interface{}{"ann"},
		},
		{
			[]clause.Interface{clause.Assignments(map[string]interface{}{"name": "ann", "age": 18})},
			"SET `age`=?,`name`=?", []interface{}{18, "ann"},
		},
	}

	for idx, result := range results {
		t.Run(fmt.Sprintf("case #%v", idx), func(t *testing.T) {
			checkBuildClauses(t, result.Clauses, result.Result, result.Vars)
		})
	}
}
