package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"

	"github.com/thingorm/thing/utils"
)

// CastFunc coerce a raw value into a declared type
//
// Unknown types fail with an error. A date that can't be parsed is cast to
// nil without an error.
type CastFunc func(value interface{}, t DataType) (interface{}, error)

// Cast default cast function
//
//	string  -> string
//	number  -> int64 for integral input, float64 otherwise, nil when unparseable
//	boolean -> bool, nil when unparseable
//	date    -> time.Time, nil when unparseable
//
// nil is never cast. related and virtual values are returned unchanged.
func Cast(value interface{}, t DataType) (interface{}, error) {
	switch t {
	case String, Number, Boolean, Date, Related, Virtual:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}

	if value == nil {
		return nil, nil
	}

	switch t {
	case String:
		return castString(value), nil
	case Number:
		return castNumber(value), nil
	case Boolean:
		return castBoolean(value), nil
	case Date:
		return castDate(value), nil
	}
	return value, nil
}

func castString(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	}
	if s := utils.ToString(value); s != "" {
		return s
	}
	return fmt.Sprint(value)
}

func castNumber(value interface{}) interface{} {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return float64(v)
		}
		return int64(v)
	case float32:
		return float64(v)
	case float64:
		return v
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case []byte:
		return castNumber(string(v))
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) {
			return f
		}
	case time.Time:
		return v.Unix()
	}
	return nil
}

func castBoolean(value interface{}) interface{} {
	switch v := value.(type) {
	case bool:
		return v
	case []byte:
		return castBoolean(string(v))
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
		switch s {
		case "yes", "y", "on":
			return true
		case "no", "n", "off":
			return false
		}
	}

	switch n := castNumber(value).(type) {
	case int64:
		return n != 0
	case float64:
		return n != 0
	}
	return nil
}

func castDate(value interface{}) interface{} {
	switch v := value.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v == nil {
			return nil
		}
		return *v
	case []byte:
		return castDate(string(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
		if t, err := now.Parse(s); err == nil {
			return t
		}
		return nil
	case int64:
		return time.Unix(v, 0).UTC()
	case int:
		return time.Unix(int64(v), 0).UTC()
	case float64:
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC()
	}
	return nil
}
