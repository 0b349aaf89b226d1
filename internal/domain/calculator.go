package domain

import "strings"

// State is a position in the calculator machine. Nested states are written
// as "parent.child", e.g. "operand1.zero".
type State string

const (
	StateStart                 State = "start"
	StateOperand1              State = "operand1"
	StateOperand1Zero          State = "operand1.zero"
	StateOperand1BeforeDecimal State = "operand1.before_decimal_point"
	StateOperand1AfterDecimal  State = "operand1.after_decimal_point"
	StateNegativeNumber        State = "negative_number"
	StateOperatorEntered       State = "operator_entered"
	StateOperand2              State = "operand2"
	StateOperand2Zero          State = "operand2.zero"
	StateOperand2BeforeDecimal State = "operand2.before_decimal_point"
	StateOperand2AfterDecimal  State = "operand2.after_decimal_point"
	StateNegativeNumber2       State = "negative_number_2"
	StateResult                State = "result"
	StateAlert                 State = "alert"
)

const (
	stateSeparator = "."
	initialChild   = "zero"
)

// Parent returns the enclosing composite state, or "" for top-level states.
func (s State) Parent() State {
	i := strings.LastIndex(string(s), stateSeparator)
	if i < 0 {
		return ""
	}
	return s[:i]
}

// IsComposite reports whether s has nested children.
func (s State) IsComposite() bool {
	return s == StateOperand1 || s == StateOperand2
}

// Leaf resolves a composite state to its initial child. Leaf states are
// returned unchanged.
func (s State) Leaf() State {
	if s.IsComposite() {
		return s + stateSeparator + initialChild
	}
	return s
}

// In reports whether s equals ancestor or is nested inside it.
func (s State) In(ancestor State) bool {
	return s == ancestor || strings.HasPrefix(string(s), string(ancestor)+stateSeparator)
}

// LeafStates lists every state the machine can rest in.
var LeafStates = []State{
	StateStart,
	StateOperand1Zero,
	StateOperand1BeforeDecimal,
	StateOperand1AfterDecimal,
	StateNegativeNumber,
	StateOperatorEntered,
	StateOperand2Zero,
	StateOperand2BeforeDecimal,
	StateOperand2AfterDecimal,
	StateNegativeNumber2,
	StateResult,
	StateAlert,
}

// EventKind identifies the kind of input fed to the machine.
type EventKind string

const (
	EventNumber          EventKind = "NUMBER"
	EventOperator        EventKind = "OPERATOR"
	EventToggleSign      EventKind = "TOGGLE_SIGN"
	EventPercentage      EventKind = "PERCENTAGE"
	EventClearEntry      EventKind = "CLEAR_ENTRY"
	EventDecimalPoint    EventKind = "DECIMAL_POINT"
	EventClearEverything EventKind = "CLEAR_EVERYTHING"
	EventEquals          EventKind = "EQUALS"
	EventAcknowledge     EventKind = "ACKNOWLEDGE"
)

// EventKinds lists every accepted event kind.
var EventKinds = []EventKind{
	EventNumber,
	EventOperator,
	EventToggleSign,
	EventPercentage,
	EventClearEntry,
	EventDecimalPoint,
	EventClearEverything,
	EventEquals,
	EventAcknowledge,
}

// Binary operators.
const (
	OpAdd      = "+"
	OpSubtract = "-"
	OpMultiply = "x"
	OpDivide   = "/"
)

// Event is one input step. Key is meaningful for NUMBER, Operator for OPERATOR.
type Event struct {
	Kind     EventKind
	Key      int
	Operator string
}

// Number builds a NUMBER event.
func Number(key int) Event { return Event{Kind: EventNumber, Key: key} }

// Operator builds an OPERATOR event.
func Operator(op string) Event { return Event{Kind: EventOperator, Operator: op} }

// Simple builds an event that carries no payload.
func Simple(kind EventKind) Event { return Event{Kind: kind} }

// Validate checks the payload against the event kind.
func (e Event) Validate() error {
	switch e.Kind {
	case EventNumber:
		if e.Key < 0 {
			return &InvalidEventError{Kind: e.Kind, Reason: "key must be non-negative"}
		}
	case EventOperator:
		switch e.Operator {
		case OpAdd, OpSubtract, OpMultiply, OpDivide:
		default:
			return &InvalidEventError{Kind: e.Kind, Reason: "unsupported operator " + e.Operator}
		}
	case EventToggleSign, EventPercentage, EventClearEntry, EventDecimalPoint,
		EventClearEverything, EventEquals, EventAcknowledge:
	default:
		return &InvalidEventError{Kind: e.Kind, Reason: "unknown event kind"}
	}
	return nil
}

// DefaultReadout is what the display and the history show on a fresh entry.
const DefaultReadout = "0."

// DivideByZeroMessage is surfaced to users while the machine sits in alert.
const DivideByZeroMessage = "Cannot divide by zero!"

// Context is the mutable record the machine transforms. Empty Operand1,
// Operand2 and Operator mean the value has not been recorded yet.
type Context struct {
	Display      string
	Operand1     string
	Operand2     string
	Operator     string
	HistoryInput string
}

// NewContext returns the context of a fresh calculation.
func NewContext() Context {
	return Context{
		Display:      DefaultReadout,
		HistoryInput: DefaultReadout,
	}
}
