package measure

import (
	"errors"
	"fmt"
)

// ErrMalformedInput signals a value the parser cannot even tokenize, such
// as an empty string. Callers degrade these to plain values.
var ErrMalformedInput = errors.New("malformed input value")

// UndefinedUnitError is returned when a token is not recognizable as any
// registered unit. Callers fall back to regex patterns, then to plain
// values.
type UndefinedUnitError struct {
	Token string
}

func (e *UndefinedUnitError) Error() string {
	return fmt.Sprintf("undefined unit %q", e.Token)
}

// QuantitySyntaxError is returned when a value looks unit-bearing but does
// not parse as a single quantity. These are the range candidates.
type QuantitySyntaxError struct {
	Input string
}

func (e *QuantitySyntaxError) Error() string {
	return fmt.Sprintf("cannot parse %q as a single quantity", e.Input)
}

// ConversionError is returned when a conversion crosses incompatible
// physical dimensions. It is never silently coerced; callers propagate it
// and abort the enclosing transaction.
type ConversionError struct {
	From string
	To   string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s to %s: %v", e.From, e.To, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
