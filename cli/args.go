package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thingorm/thing"
	"github.com/thingorm/thing/schema"
)

// parseAssignments key=value arguments cast to the model attribute types.
// Keys outside the schema keep their string value, integers excepted.
func parseAssignments(model *thing.Model, args []string) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q, expected key=value", arg)
		}

		value, err := castArgument(model, key, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value of %s: %w", key, err)
		}
		values[key] = value
	}
	return values, nil
}

func castArgument(model *thing.Model, key, raw string) (interface{}, error) {
	if raw == "null" {
		return nil, nil
	}

	if attr, ok := model.Schema().Lookup(key); ok && attr.IsColumn() {
		return schema.Cast(raw, attr.DataType())
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	return raw, nil
}
