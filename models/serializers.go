package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SerializeValue coerces a raw value into the native type implied by a
// unit's widget, so payloads stored under the same unit always share one
// type. Raw scraped strings for prices arrive here as text.
func SerializeValue(widget Widget, value any) (any, error) {
	switch widget {
	case WidgetText:
		return fmt.Sprint(value), nil
	case WidgetInteger:
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			return int(v), nil
		case string:
			parsed, err := strconv.ParseFloat(sanitizeNumber(v), 64)
			if err != nil {
				return nil, fmt.Errorf("serialize %q as integer: %w", v, err)
			}
			return int(parsed), nil
		}
	case WidgetDecimal:
		switch v := value.(type) {
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case float64:
			return v, nil
		case string:
			parsed, err := strconv.ParseFloat(sanitizeNumber(v), 64)
			if err != nil {
				return nil, fmt.Errorf("serialize %q as decimal: %w", v, err)
			}
			return parsed, nil
		}
	case WidgetBoolean:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(strings.ToLower(v)))
			if err != nil {
				return nil, fmt.Errorf("serialize %q as boolean: %w", v, err)
			}
			return parsed, nil
		}
	case WidgetDateTime:
		switch v := value.(type) {
		case time.Time:
			return v.Format(time.RFC3339), nil
		case string:
			if _, err := time.Parse(time.RFC3339, v); err != nil {
				return nil, fmt.Errorf("serialize %q as datetime: %w", v, err)
			}
			return v, nil
		}
	}
	return nil, fmt.Errorf("cannot serialize %T as %s", value, widget)
}

// sanitizeNumber strips currency symbols and thousands separators from
// scraped price strings, e.g. "€1,299.00" -> "1299.00".
func sanitizeNumber(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
