package tabular

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical cell representation for date columns.
const DateLayout = "2006-01-02"

// Coerce converts an arbitrary input value (typically JSON-decoded) into the
// canonical in-memory value for a column kind. It is deterministic: the same
// input always coerces to the same value or fails with ErrSchema.
func Coerce(value any, kind Kind) (any, error) {
	if s, ok := value.(string); ok && s == "" {
		return zeroValue(kind), nil
	}

	switch kind {
	case KindText:
		switch v := value.(type) {
		case string:
			return v, nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		case bool:
			if v {
				return "true", nil
			}
			return "false", nil
		}
	case KindInteger:
		switch v := value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case float64:
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("%w: %v is not an integer", ErrSchema, v)
			}
			return int64(v), nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: '%s' is not an integer", ErrSchema, v)
			}
			return n, nil
		}
	case KindDecimal:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: '%s' is not a decimal", ErrSchema, v)
			}
			return f, nil
		}
	case KindDate:
		switch v := value.(type) {
		case time.Time:
			return truncateDate(v), nil
		case string:
			return parseDate(v)
		}
	case KindBoolean:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.TrimSpace(v) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
			return nil, fmt.Errorf("%w: '%s' is not a boolean", ErrSchema, v)
		}
	}

	return nil, fmt.Errorf("%w: cannot coerce %T into %s", ErrSchema, value, kind)
}

// Format renders a canonical value to its cell string. Format and ParseCell
// round-trip: ParseCell(Format(v, k), k) == v.
func Format(value any, kind Kind) (string, error) {
	switch kind {
	case KindText:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case KindInteger:
		if n, ok := value.(int64); ok {
			return strconv.FormatInt(n, 10), nil
		}
	case KindDecimal:
		if f, ok := value.(float64); ok {
			return strconv.FormatFloat(f, 'f', -1, 64), nil
		}
	case KindDate:
		if t, ok := value.(time.Time); ok {
			if t.IsZero() {
				return "", nil
			}
			return t.Format(DateLayout), nil
		}
	case KindBoolean:
		if b, ok := value.(bool); ok {
			if b {
				return "true", nil
			}
			return "false", nil
		}
	}

	return "", fmt.Errorf("%w: cannot format %T as %s", ErrSchema, value, kind)
}

// ParseCell decodes a cell string read from disk. An empty cell decodes to the
// kind's zero value so that sparse sheets remain readable.
func ParseCell(s string, kind Kind) (any, error) {
	value, err := Coerce(s, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: cell '%s' is not a valid %s", ErrFormat, s, kind)
	}
	return value, nil
}

func zeroValue(kind Kind) any {
	switch kind {
	case KindInteger:
		return int64(0)
	case KindDecimal:
		return float64(0)
	case KindDate:
		return time.Time{}
	case KindBoolean:
		return false
	}
	return ""
}

func kindMatches(value any, kind Kind) bool {
	switch kind {
	case KindText:
		_, ok := value.(string)
		return ok
	case KindInteger:
		_, ok := value.(int64)
		return ok
	case KindDecimal:
		_, ok := value.(float64)
		return ok
	case KindDate:
		_, ok := value.(time.Time)
		return ok
	case KindBoolean:
		_, ok := value.(bool)
		return ok
	}
	return false
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err == nil {
		return truncateDate(t), nil
	}
	return time.Time{}, fmt.Errorf("%w: '%s' is not a date", ErrSchema, s)
}

func truncateDate(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
