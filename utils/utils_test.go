package utils

import (
	"testing"
	"time"
)

func TestFileWithLineNum(t *testing.T) {
	t.Log("file line with num: ", FileWithLineNum())
}

func TestToStringKey(t *testing.T) {
	cases := []struct {
		values []interface{}
		key    string
	}{
		{[]interface{}{1}, "1"},
		{[]interface{}{int64(1)}, "1"},
		{[]interface{}{float64(1)}, "1"},
		{[]interface{}{"1"}, "1"},
		{[]interface{}{[]byte("1")}, "1"},
		{[]interface{}{uint(7), "a"}, "7_a"},
		{[]interface{}{1.5}, "1.5"},
		{[]interface{}{nil}, "<nil>"},
		{[]interface{}{time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)}, "2020-01-02T03:04:05Z"},
	}

	for _, c := range cases {
		if got := ToStringKey(c.values...); got != c.key {
			t.Errorf("ToStringKey(%v) should be %q, got %q", c.values, c.key, got)
		}
	}
}

func TestToInterfaceSlice(t *testing.T) {
	if values, ok := ToInterfaceSlice([]int{1, 2, 3}); !ok || len(values) != 3 || values[2] != 3 {
		t.Errorf("failed to convert []int, got %v %v", values, ok)
	}

	if _, ok := ToInterfaceSlice("abc"); ok {
		t.Errorf("string should not be treated as a slice")
	}

	if _, ok := ToInterfaceSlice([]byte("abc")); ok {
		t.Errorf("[]byte should not be treated as a slice")
	}

	if values, ok := ToInterfaceSlice([2]string{"a", "b"}); !ok || values[1] != "b" {
		t.Errorf("failed to convert array, got %v %v", values, ok)
	}
}

func TestContains(t *testing.T) {
	if !Contains([]string{"a", "b"}, "b") || Contains([]string{"a"}, "c") {
		t.Errorf("Contains returned an unexpected result")
	}
}
