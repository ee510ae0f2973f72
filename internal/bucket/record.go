package bucket

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrDegenerateRange  = errors.New("degenerate range")
	ErrInvalidTarget    = errors.New("invalid target")
)

// Record is one data row from the host system.
type Record map[string]any

// DisplayLabel is the closed set of synthetic labels the engine produces.
type DisplayLabel string

const (
	// NoGroups keys the single series of a chart without a group field.
	NoGroups DisplayLabel = "No Groups"
	// NotAnswered is shown for records whose group field is blank.
	NotAnswered DisplayLabel = "Not Answered"
)

// Label returns the display label for a group key.
func Label(group string) string {
	if group == "" {
		return string(NotAnswered)
	}
	return group
}

// FieldString coerces a record field to a string. Absent and null fields become "".
func FieldString(r Record, field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
