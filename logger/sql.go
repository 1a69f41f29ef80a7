package logger

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/thingorm/thing/utils"
)

const (
	tmFmtWithMS = "2006-01-02 15:04:05.999"
	tmFmtZero   = "0000-00-00 00:00:00"
	nullStr     = "NULL"
)

func isPrintable(s string) bool {
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

var convertibleTypes = []reflect.Type{reflect.TypeOf(time.Time{}), reflect.TypeOf(false), reflect.TypeOf([]byte{}), reflect.TypeOf("")}

var numericPlaceholderRe = regexp.MustCompile(`\$\d+\$`)

// ExplainSQL generate SQL string with given parameters, the generated SQL is expected to be used in logger, execute it might introduce a SQL injection vulnerability
func ExplainSQL(sql string, numericPlaceholder *regexp.Regexp, escaper string, avars ...interface{}) string {
	var (
		convertParams func(interface{}, int)
		vars          = make([]string, len(avars))
		quote         = func(s string) string {
			return escaper + strings.ReplaceAll(s, escaper, "\\"+escaper) + escaper
		}
	)

	convertParams = func(v interface{}, idx int) {
		switch v := v.(type) {
		case bool:
			vars[idx] = strconv.FormatBool(v)
		case time.Time:
			if v.IsZero() {
				vars[idx] = quote(tmFmtZero)
			} else {
				vars[idx] = quote(v.Format(tmFmtWithMS))
			}
		case *time.Time:
			if v != nil {
				convertParams(*v, idx)
			} else {
				vars[idx] = nullStr
			}
		case []byte:
			if s := string(v); isPrintable(s) {
				vars[idx] = quote(s)
			} else {
				vars[idx] = quote("<binary>")
			}
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			vars[idx] = utils.ToString(v)
		case float32:
			vars[idx] = strconv.FormatFloat(float64(v), 'f', -1, 32)
		case float64:
			vars[idx] = strconv.FormatFloat(v, 'f', -1, 64)
		case string:
			vars[idx] = quote(v)
		default:
			rv := reflect.ValueOf(v)
			switch {
			case v == nil || !rv.IsValid() || rv.Kind() == reflect.Ptr && rv.IsNil():
				vars[idx] = nullStr
			case isValuer(v):
				value, _ := v.(driver.Valuer).Value()
				convertParams(value, idx)
			case rv.Kind() == reflect.Ptr:
				convertParams(rv.Elem().Interface(), idx)
			case rv.CanInt():
				vars[idx] = strconv.FormatInt(rv.Int(), 10)
			case rv.CanUint():
				vars[idx] = strconv.FormatUint(rv.Uint(), 10)
			case rv.CanFloat():
				vars[idx] = strconv.FormatFloat(rv.Float(), 'f', -1, 64)
			default:
				for _, t := range convertibleTypes {
					if rv.Type().ConvertibleTo(t) {
						convertParams(rv.Convert(t).Interface(), idx)
						return
					}
				}
				vars[idx] = quote(fmt.Sprint(v))
			}
		}
	}

	for idx, v := range avars {
		convertParams(v, idx)
	}

	if numericPlaceholder == nil {
		var idx int
		var newSQL strings.Builder

		for _, v := range []byte(sql) {
			if v == '?' && len(vars) > idx {
				newSQL.WriteString(vars[idx])
				idx++
				continue
			}
			newSQL.WriteByte(v)
		}

		return newSQL.String()
	}

	sql = numericPlaceholder.ReplaceAllString(sql, "$$$1$$")
	return numericPlaceholderRe.ReplaceAllStringFunc(sql, func(v string) string {
		n, _ := strconv.Atoi(v[1 : len(v)-1])

		// position var start from 1 ($1, $2)
		n--
		if n >= 0 && n <= len(vars)-1 {
			return vars[n]
		}
		return v
	})
}

func isValuer(v interface{}) bool {
	_, ok := v.(driver.Valuer)
	return ok
}
