package history

import (
	"strings"

	"github.com/neomorfeo/calcmachine/internal/domain"
)

const (
	separator       = " "
	decimalMarker   = "."
	negativeOpen    = "(-"
	negativeClose   = ")"
	percentMarker   = "%"
	zeroPlaceholder = domain.DefaultReadout
)

// IsOperator reports whether token is one of the binary operator glyphs.
func IsOperator(token string) bool {
	switch token {
	case domain.OpAdd, domain.OpSubtract, domain.OpMultiply, domain.OpDivide:
		return true
	}
	return false
}

// AddOperator appends op to the transcript, replacing a trailing operator
// instead of stacking a second one. The result always ends in "<op> ".
func AddOperator(history, op string) string {
	trimmed := strings.TrimSpace(history)
	if trimmed != "" && IsOperator(trimmed[len(trimmed)-1:]) {
		return trimmed[:len(trimmed)-1] + op + separator
	}
	return trimmed + separator + op + separator
}

// RemoveNumber drops the number being typed, keeping the trailing operator
// and its space. Without an operator the transcript becomes empty.
func RemoveNumber(history string) string {
	i := strings.LastIndex(history, separator)
	if i < 0 {
		return ""
	}
	return history[:i+1]
}

// ReplaceNumber swaps the number being typed for "<key>.". An empty key on a
// transcript without an operator yields "".
func ReplaceNumber(history, key string) string {
	if i := strings.LastIndex(history, separator); i >= 0 {
		return history[:i+1] + key + decimalMarker
	}
	if key == "" {
		return ""
	}
	return key + decimalMarker
}

// AppendDigitBeforeDecimal inserts key in front of the trailing decimal
// marker: "1. + 12." becomes "1. + 123.".
func AppendDigitBeforeDecimal(history, key string) string {
	if history == "" {
		return key + decimalMarker
	}
	return history[:len(history)-1] + key + decimalMarker
}

// AppendDigit appends key after the decimal marker.
func AppendDigit(history, key string) string {
	return history + key
}

// ConvertNumberToNegative wraps the trailing number in "(-...)". A number
// that is already wrapped is left alone.
func ConvertNumberToNegative(history string) string {
	if strings.HasSuffix(history, negativeClose) {
		return history
	}
	if i := strings.LastIndex(history, separator); i >= 0 {
		return history[:i+1] + negativeOpen + history[i+1:] + negativeClose
	}
	return negativeOpen + history + negativeClose
}

// ConvertNumberToPositive strips the wrapper around the last negated number.
func ConvertNumberToPositive(history string) string {
	end := strings.LastIndex(history, negativeClose)
	if end < 0 {
		return history
	}
	start := strings.LastIndex(history[:end], negativeOpen)
	if start < 0 {
		return history
	}
	return history[:start] + history[start+len(negativeOpen):end] + history[end+1:]
}

// HandleSecondOperandDecimalPoint resets a negated second operand to "0.".
func HandleSecondOperandDecimalPoint(history string) string {
	return RemoveNumber(history) + zeroPlaceholder
}

// AddZeroPlaceholder appends "0." for a second operand that starts with the
// decimal point. It is added once: a transcript already ending in the
// placeholder is returned unchanged.
func AddZeroPlaceholder(history string) string {
	if strings.HasSuffix(history, zeroPlaceholder) {
		return history
	}
	return history + zeroPlaceholder
}

// AppendPercent marks the trailing number as a percentage.
func AppendPercent(history string) string {
	return history + percentMarker
}

// Result renders a computed value as the whole transcript. Negative values
// are parenthesized so a later sign toggle can unwrap them.
func Result(display string) string {
	if ParseNumber(display) >= 0 {
		return display
	}
	return "(" + display + ")"
}

// HasPendingOperator reports whether the transcript contains a binary
// operator token, i.e. a second operand is being entered.
func HasPendingOperator(history string) bool {
	for _, token := range strings.Fields(history) {
		if IsOperator(token) {
			return true
		}
	}
	return false
}

// ComputePercentage returns the display value after a percentage key press.
// Without a pending operator it is display/100; with one, it is the
// percentage applied to the base operand: operand1 + display/100*operand1.
func ComputePercentage(c domain.Context) string {
	percent := ParseNumber(c.Display) / 100
	if !HasPendingOperator(c.HistoryInput) {
		return FormatNumber(percent)
	}
	base := ParseNumber(c.Operand1)
	return FormatNumber(base + percent*base)
}
