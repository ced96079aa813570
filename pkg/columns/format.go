package columns

import (
	"fmt"
	"strconv"
	"time"
)

const emptyCell = "N/A"

// FormatCell renders a record value for display or export according to the
// column type. Every FieldType has a case here; config validation rejects
// unknown types before they can reach rendering.
func FormatCell(col Column, value any) string {
	switch col.Type {
	case TypeDate:
		return formatDate(col, value)
	case TypeBoolean:
		if truthy(value) {
			return "Yes"
		}
		return "No"
	case TypePerson, TypeLookup:
		return formatRef(value)
	case TypeText, TypeNumber, TypeChoice:
		return formatScalar(value)
	}
	return formatScalar(value)
}

func formatScalar(value any) string {
	if value == nil {
		return emptyCell
	}
	s := fmt.Sprint(value)
	if s == "" {
		return emptyCell
	}
	return s
}

func formatDate(col Column, value any) string {
	if value == nil {
		return emptyCell
	}
	t, ok := ParseDate(value)
	if !ok {
		return formatScalar(value)
	}
	if col.Format == FormatDateTime {
		return t.Format("2006-01-02 15:04")
	}
	return t.Format("2006-01-02")
}

// formatRef renders person and lookup values, which may arrive as nested
// objects carrying a Title or DisplayName.
func formatRef(value any) string {
	if m, ok := value.(map[string]any); ok {
		if v, ok := m["Title"]; ok && v != nil {
			return formatScalar(v)
		}
		if v, ok := m["DisplayName"]; ok && v != nil {
			return formatScalar(v)
		}
		return emptyCell
	}
	return formatScalar(value)
}

// dateLayouts are attempted in order when parsing date values.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate interprets a record or form value as a point in time.
func ParseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	case int, int32, int64, float32, float64:
		return fmt.Sprint(v) != "0"
	}
	return value != nil
}
