// Package grouping maps attribute values onto the bucket lists that pivot
// tables and filter forms share.
package grouping

import (
	"fmt"
	"strconv"
	"strings"
)

// ExtractGrouper returns the bucket a value falls into. Numeric candidate
// lists match the first candidate, in list order, that the value is less
// than or equal to; string lists match on exact equality. List order is
// intentional: [299 99 199] buckets 159 into 299, not 199.
func ExtractGrouper(value any, candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	if IsValueNumeric(candidates[0]) {
		number, ok := toFloat(value)
		if !ok {
			return "", false
		}
		for _, candidate := range candidates {
			limit, err := strconv.ParseFloat(strings.TrimSpace(candidate), 64)
			if err != nil {
				continue
			}
			if number <= limit {
				return candidate, true
			}
		}
		return "", false
	}
	text := fmt.Sprint(value)
	for _, candidate := range candidates {
		if text == candidate {
			return candidate, true
		}
	}
	return "", false
}

// IsValueNumeric reports whether the string parses as a number. Numeric
// axis values are range bounds and need no existing attribute rows.
func IsValueNumeric(value string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	return err == nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
