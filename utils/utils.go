package utils

import (
	"database/sql/driver"
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"
)

var thingSourceDir string

func init() {
	_, file, _, _ := runtime.Caller(0)
	// compatible solution to get thing source directory with various operating systems
	thingSourceDir = sourceDir(file)
}

func sourceDir(file string) string {
	dir := filepath.Dir(file)
	dir = filepath.Dir(dir)

	s := filepath.Dir(dir)
	if filepath.Base(s) != "thingorm" {
		s = dir
	}
	return filepath.ToSlash(s) + "/"
}

// FileWithLineNum return the file name and line number of the current file
func FileWithLineNum() string {
	// the second caller usually from thing internal, so set i start from 2
	for i := 2; i < 15; i++ {
		_, file, line, ok := runtime.Caller(i)
		if ok && (!strings.HasPrefix(file, thingSourceDir) || strings.HasSuffix(file, "_test.go")) {
			return file + ":" + strconv.FormatInt(int64(line), 10)
		}
	}

	return ""
}

// ToStringKey builds a comparable key for values read back from different
// drivers, so 1, int64(1), float64(1), "1" and []byte("1") share a key.
func ToStringKey(values ...interface{}) string {
	results := make([]string, len(values))

	for idx, value := range values {
		if valuer, ok := value.(driver.Valuer); ok {
			value, _ = valuer.Value()
		}

		switch v := value.(type) {
		case nil:
			results[idx] = "<nil>"
		case string:
			results[idx] = v
		case []byte:
			results[idx] = string(v)
		case float64:
			if v == float64(int64(v)) {
				results[idx] = strconv.FormatInt(int64(v), 10)
			} else {
				results[idx] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		case float32:
			results[idx] = ToStringKey(float64(v))
		case time.Time:
			results[idx] = v.UTC().Format(time.RFC3339Nano)
		default:
			if s := ToString(v); s != "" {
				results[idx] = s
			} else {
				results[idx] = fmt.Sprint(reflect.Indirect(reflect.ValueOf(v)).Interface())
			}
		}
	}

	return strings.Join(results, "_")
}

// Contains reports whether elem is in elems
func Contains(elems []string, elem string) bool {
	for _, e := range elems {
		if elem == e {
			return true
		}
	}
	return false
}

// ToString formats integer values, returns "" for anything else
func ToString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	return ""
}

// ToInterfaceSlice flattens any slice or array into []interface{}, returns
// false when value is not a slice. []byte is treated as a scalar.
func ToInterfaceSlice(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case []interface{}:
		return v, true
	case []byte:
		return nil, false
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	results := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		results[i] = rv.Index(i).Interface()
	}
	return results, true
}
