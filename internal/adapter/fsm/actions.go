package fsm

import (
	"strconv"
	"strings"

	"github.com/neomorfeo/calcmachine/internal/domain"
	"github.com/neomorfeo/calcmachine/internal/history"
)

// action is one context transform. A transition runs its actions left to
// right, each seeing the fields set by the previous ones.
type action func(c domain.Context, e domain.Event) domain.Context

func key(e domain.Event) string { return strconv.Itoa(e.Key) }

// Readout.

func defaultReadout(c domain.Context, _ domain.Event) domain.Context {
	c.Display = domain.DefaultReadout
	return c
}

func setReadoutNum(c domain.Context, e domain.Event) domain.Context {
	c.Display = key(e) + "."
	return c
}

// appendNumBeforeDecimal turns "123." into "1234.".
func appendNumBeforeDecimal(c domain.Context, e domain.Event) domain.Context {
	c.Display = strings.TrimSuffix(c.Display, ".") + key(e) + "."
	return c
}

func appendNumAfterDecimal(c domain.Context, e domain.Event) domain.Context {
	c.Display += key(e)
	return c
}

func toggleSign(c domain.Context, _ domain.Event) domain.Context {
	if strings.Contains(c.Display, "-") {
		c.Display = strings.Replace(c.Display, "-", "", 1)
	} else {
		c.Display = "-" + c.Display
	}
	return c
}

// Operands and operator.

func recordOperator(c domain.Context, e domain.Event) domain.Context {
	c.Operand1 = c.Display
	c.Operator = e.Operator
	c.HistoryInput = history.AddOperator(c.HistoryInput, e.Operator)
	return c
}

func setOperator(c domain.Context, e domain.Event) domain.Context {
	c.Operator = e.Operator
	c.HistoryInput = history.AddOperator(c.HistoryInput, e.Operator)
	return c
}

func storeResultAsOperand1(c domain.Context, _ domain.Event) domain.Context {
	c.Operand1 = c.Display
	return c
}

func storeResultAsOperand2(c domain.Context, _ domain.Event) domain.Context {
	c.Operand2 = c.Display
	return c
}

func compute(c domain.Context, _ domain.Event) domain.Context {
	result := doMath(c.Operand1, c.Operand2, c.Operator)
	c.Display = history.WithDecimalMarker(history.FormatNumber(result))
	return c
}

func computePercentage(c domain.Context, _ domain.Event) domain.Context {
	c.Display = history.ComputePercentage(c)
	return c
}

func reset(domain.Context, domain.Event) domain.Context {
	return domain.NewContext()
}

// History.

func defaultReadoutHistory(c domain.Context, _ domain.Event) domain.Context {
	c.HistoryInput = domain.DefaultReadout
	return c
}

func replaceLastNumberHistory(c domain.Context, e domain.Event) domain.Context {
	c.HistoryInput = history.ReplaceNumber(c.HistoryInput, key(e))
	return c
}

func removeLastNumberHistory(c domain.Context, _ domain.Event) domain.Context {
	c.HistoryInput = history.RemoveNumber(c.HistoryInput)
	return c
}

func addHistoryBeforeDecimalPoint(c domain.Context, e domain.Event) domain.Context {
	c.HistoryInput = history.AppendDigitBeforeDecimal(c.HistoryInput, key(e))
	return c
}

func addHistoryAfterDecimalPoint(c domain.Context, e domain.Event) domain.Context {
	c.HistoryInput = history.AppendDigit(c.HistoryInput, key(e))
	return c
}

func convertNumberToNegativeInHistory(c domain.Context, _ domain.Event) domain.Context {
	c.HistoryInput = history.ConvertNumberToNegative(c.HistoryInput)
	return c
}

func convertNumberToPositiveInHistory(c domain.Context, _ domain.Event) domain.Context {
	c.HistoryInput = history.ConvertNumberToPositive(c.HistoryInput)
	return c
}

func handleSecondOperandDecimalPoint(c domain.Context, _ domain.Event) domain.Context {
	c.HistoryInput = history.HandleSecondOperandDecimalPoint(c.HistoryInput)
	return c
}

func zeroSecondOperandAddToHistory(c domain.Context, _ domain.Event) domain.Context {
	c.HistoryInput = history.AddZeroPlaceholder(c.HistoryInput)
	return c
}

func addPercentageToHistory(c domain.Context, _ domain.Event) domain.Context {
	c.HistoryInput = history.AppendPercent(c.HistoryInput)
	return c
}

func resultHistory(c domain.Context, _ domain.Event) domain.Context {
	c.HistoryInput = history.Result(c.Display)
	return c
}
