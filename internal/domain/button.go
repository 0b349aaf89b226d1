package domain

import "strconv"

// Buttons is the calculator face, row by row.
var Buttons = []string{
	"C", "CE", "+/-", "/",
	"7", "8", "9", "x",
	"4", "5", "6", "-",
	"1", "2", "3", "+",
	"0", ".", "%", "=",
}

// ParseButton maps a button label to the event it sends.
func ParseButton(label string) (Event, error) {
	switch label {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return Operator(label), nil
	case "C":
		return Simple(EventClearEverything), nil
	case "CE":
		return Simple(EventClearEntry), nil
	case "+/-":
		return Simple(EventToggleSign), nil
	case ".":
		return Simple(EventDecimalPoint), nil
	case "%":
		return Simple(EventPercentage), nil
	case "=":
		return Simple(EventEquals), nil
	}

	if len(label) == 1 {
		if key, err := strconv.Atoi(label); err == nil {
			return Number(key), nil
		}
	}
	return Event{}, &InvalidButtonError{Label: label}
}
