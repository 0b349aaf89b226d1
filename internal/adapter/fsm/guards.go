package fsm

import (
	"strings"

	"github.com/neomorfeo/calcmachine/internal/domain"
	"github.com/neomorfeo/calcmachine/internal/history"
)

// guard is a named, side-effect free predicate selecting between candidate
// transitions for the same event.
type guard struct {
	name string
	test func(c domain.Context, e domain.Event) bool
}

func not(g guard) guard {
	return guard{
		name: "not(" + g.name + ")",
		test: func(c domain.Context, e domain.Event) bool { return !g.test(c, e) },
	}
}

var (
	isZero = guard{"isZero", func(_ domain.Context, e domain.Event) bool {
		return e.Key == 0
	}}
	isNotZero = guard{"isNotZero", not(isZero).test}

	isDisplayZero = guard{"isDisplayZero", func(c domain.Context, _ domain.Event) bool {
		return c.Display == domain.DefaultReadout
	}}
	isNotDisplayZero = guard{"isNotDisplayZero", not(isDisplayZero).test}

	isNegative = guard{"isNegative", func(c domain.Context, _ domain.Event) bool {
		return strings.Contains(c.Display, "-")
	}}
	isNotNegative = guard{"isNotNegative", func(c domain.Context, e domain.Event) bool {
		return !isNegative.test(c, e) && !isDisplayZero.test(c, e)
	}}

	// The divisor is the entry about to be stored as operand2.
	divideByZero = guard{"divideByZero", func(c domain.Context, _ domain.Event) bool {
		return c.Operator == domain.OpDivide &&
			(c.Display == "" || history.ParseNumber(c.Display) == 0)
	}}
	notDivideByZero = guard{"notDivideByZero", not(divideByZero).test}
)
