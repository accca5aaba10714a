package library

import (
	"fmt"
	"strconv"
)

// Row is one materialized result row keyed by column name. Values are what the
// driver returned, except []byte which is normalized to string.
type Row map[string]any

// Int64 returns a non-null integer column.
func (r Row) Int64(col string) (int64, error) {
	v, ok := r[col]
	if !ok || v == nil {
		return 0, fmt.Errorf("column %q is null or missing", col)
	}
	return toInt64(col, v)
}

// String returns a non-null text column.
func (r Row) String(col string) (string, error) {
	v, ok := r[col]
	if !ok || v == nil {
		return "", fmt.Errorf("column %q is null or missing", col)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("column %q: unexpected type %T", col, v)
	}
	return s, nil
}

// NullString returns a nullable text column; NULL yields nil.
func (r Row) NullString(col string) (*string, error) {
	if r[col] == nil {
		return nil, nil
	}
	s, err := r.String(col)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// NullInt returns a nullable integer column; NULL yields nil.
func (r Row) NullInt(col string) (*int, error) {
	v := r[col]
	if v == nil {
		return nil, nil
	}
	n, err := toInt64(col, v)
	if err != nil {
		return nil, err
	}
	i := int(n)
	return &i, nil
}

func toInt64(col string, v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		// Some drivers hand back numeric columns as text.
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", col, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("column %q: unexpected type %T", col, v)
	}
}
