package measure

import (
	"strings"
	"time"
	"unicode"

	"github.com/oreilm49/specs/models"
)

// boolTokens are the raw strings treated as a true boolean value. There is
// deliberately no negative set: "false", "no" and "n" fall through to
// plain-string handling.
var boolTokens = map[string]struct{}{
	"true": {},
	"yes":  {},
	"y":    {},
}

// ContainsNumber reports whether any character of the value is a digit.
func ContainsNumber(value string) bool {
	for _, r := range value {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// IsRangeValue reports whether splitting on "-" yields exactly two
// non-empty parts, tolerating whitespace on either side of the hyphen.
func IsRangeValue(value string) bool {
	low, high, ok := SplitRange(value)
	return ok && low != "" && high != ""
}

// SplitRange splits a "low-high" value into its trimmed sides.
func SplitRange(value string) (low, high string, ok bool) {
	parts := strings.Split(value, "-")
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

// IsBoolValue reports whether the value is a positive boolean token.
func IsBoolValue(value string) bool {
	_, ok := boolTokens[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// WidgetForValue maps a decoded native type to the unit widget tag used to
// serialize values of that unit.
func WidgetForValue(value any) models.Widget {
	switch v := value.(type) {
	case bool:
		return models.WidgetBoolean
	case int, int64:
		return models.WidgetInteger
	case float64:
		if v == float64(int64(v)) {
			return models.WidgetInteger
		}
		return models.WidgetDecimal
	case time.Time:
		return models.WidgetDateTime
	default:
		return models.WidgetText
	}
}
