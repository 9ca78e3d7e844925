package router

import (
	"fmt"
	"strconv"
	"strings"
)

// coerce converts raw parameter strings to the value their schema type
// expects. Arrays accept repeated values or a single comma-separated one.
func coerce(raw []string, typ, itemType string) (any, error) {
	if typ != "array" {
		return scalar(raw[0], typ)
	}

	parts := raw
	if len(raw) == 1 {
		parts = strings.Split(raw[0], ",")
	}
	items := make([]any, 0, len(parts))
	for _, p := range parts {
		v, err := scalar(p, itemType)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func scalar(s, typ string) (any, error) {
	switch typ {
	case "integer":
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", s)
		}
		return n, nil
	case "number":
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", s)
		}
		return f, nil
	case "boolean":
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", s)
		}
		return b, nil
	default:
		return s, nil
	}
}
