package fsm

import (
	"math"

	"github.com/neomorfeo/calcmachine/internal/domain"
	"github.com/neomorfeo/calcmachine/internal/history"
)

// doMath applies op to the parsed operands. An unknown operator yields +Inf.
func doMath(a, b, op string) float64 {
	x, y := history.ParseNumber(a), history.ParseNumber(b)
	switch op {
	case domain.OpAdd:
		return x + y
	case domain.OpSubtract:
		return x - y
	case domain.OpDivide:
		return x / y
	case domain.OpMultiply:
		return x * y
	default:
		return math.Inf(1)
	}
}
