package fsm

import "github.com/neomorfeo/calcmachine/internal/domain"

// root is the implicit parent of every top-level state.
const root domain.State = ""

// transition is one candidate handler for an event. Candidates declared on
// the same state are tried in order; the first whose guard passes fires.
type transition struct {
	event   domain.EventKind
	guard   *guard
	target  domain.State
	actions []action
}

// label names the transition for the underlying FSM. Guarded candidates of
// the same event get distinct names so each can have its own destination.
func (t transition) label() string {
	if t.guard == nil {
		return string(t.event)
	}
	return string(t.event) + "[" + t.guard.name + "]"
}

func (t transition) allows(c domain.Context, e domain.Event) bool {
	return t.guard == nil || t.guard.test(c, e)
}

func on(event domain.EventKind, target domain.State, actions ...action) transition {
	return transition{event: event, target: target, actions: actions}
}

func when(g guard, event domain.EventKind, target domain.State, actions ...action) transition {
	return transition{event: event, guard: &g, target: target, actions: actions}
}

// Shared action lists.
var (
	percentage = []action{storeResultAsOperand2, addPercentageToHistory, computePercentage, resultHistory}
	chain      = []action{storeResultAsOperand2, compute, storeResultAsOperand1, setOperator}
	equals     = []action{storeResultAsOperand2, compute, resultHistory}
)

// digitEntry returns the zero / before / after decimal point children shared
// by both operands.
func digitEntry(zero, before, after domain.State) map[domain.State][]transition {
	return map[domain.State][]transition{
		zero: {
			when(isZero, domain.EventNumber, zero, setReadoutNum, replaceLastNumberHistory),
			when(isNotZero, domain.EventNumber, before, setReadoutNum, replaceLastNumberHistory),
			on(domain.EventDecimalPoint, after),
		},
		before: {
			on(domain.EventNumber, before, appendNumBeforeDecimal, addHistoryBeforeDecimalPoint),
			on(domain.EventDecimalPoint, after),
		},
		after: {
			on(domain.EventNumber, after, appendNumAfterDecimal, addHistoryAfterDecimalPoint),
			// A repeated decimal point leaves the entry as it is.
			on(domain.EventDecimalPoint, after),
		},
	}
}

// machine declares the handlers of every state, keyed by the state that
// declares them. Events not handled by a child bubble up to its parent.
var machine = buildMachine()

func buildMachine() map[domain.State][]transition {
	m := map[domain.State][]transition{
		root: {
			on(domain.EventClearEverything, domain.StateStart, reset),
		},

		domain.StateStart: {
			when(isZero, domain.EventNumber, domain.StateOperand1Zero, defaultReadout, defaultReadoutHistory),
			when(isNotZero, domain.EventNumber, domain.StateOperand1BeforeDecimal, setReadoutNum, replaceLastNumberHistory),
			on(domain.EventDecimalPoint, domain.StateOperand1AfterDecimal, defaultReadout, defaultReadoutHistory),
		},

		domain.StateOperand1: {
			on(domain.EventOperator, domain.StateOperatorEntered, recordOperator),
			when(isNotDisplayZero, domain.EventToggleSign, domain.StateNegativeNumber, toggleSign, convertNumberToNegativeInHistory),
			on(domain.EventPercentage, domain.StateResult, percentage...),
			on(domain.EventClearEntry, domain.StateOperand1, defaultReadout, defaultReadoutHistory),
		},

		domain.StateNegativeNumber: {
			when(isZero, domain.EventNumber, domain.StateOperand1Zero, defaultReadout, replaceLastNumberHistory),
			when(isNotZero, domain.EventNumber, domain.StateOperand1BeforeDecimal, setReadoutNum, replaceLastNumberHistory),
			on(domain.EventDecimalPoint, domain.StateOperand1AfterDecimal, defaultReadout, defaultReadoutHistory),
			on(domain.EventClearEntry, domain.StateStart, defaultReadout, defaultReadoutHistory),
			on(domain.EventToggleSign, domain.StateOperand1, toggleSign, convertNumberToPositiveInHistory),
			on(domain.EventOperator, domain.StateOperatorEntered, recordOperator),
			on(domain.EventPercentage, domain.StateResult, percentage...),
		},

		domain.StateOperatorEntered: {
			on(domain.EventOperator, domain.StateOperatorEntered, setOperator),
			when(isZero, domain.EventNumber, domain.StateOperand2Zero, defaultReadout, storeResultAsOperand2, replaceLastNumberHistory),
			when(isNotZero, domain.EventNumber, domain.StateOperand2BeforeDecimal, setReadoutNum, storeResultAsOperand2, replaceLastNumberHistory),
			on(domain.EventDecimalPoint, domain.StateOperand2AfterDecimal, defaultReadout, zeroSecondOperandAddToHistory),
		},

		domain.StateOperand2: {
			when(notDivideByZero, domain.EventOperator, domain.StateOperatorEntered, chain...),
			when(divideByZero, domain.EventOperator, domain.StateAlert),
			when(isNotDisplayZero, domain.EventToggleSign, domain.StateNegativeNumber2, toggleSign, convertNumberToNegativeInHistory),
			when(notDivideByZero, domain.EventEquals, domain.StateResult, equals...),
			when(divideByZero, domain.EventEquals, domain.StateAlert),
			on(domain.EventPercentage, domain.StateResult, percentage...),
			on(domain.EventClearEntry, domain.StateOperand2Zero, defaultReadout, removeLastNumberHistory),
		},

		domain.StateNegativeNumber2: {
			when(notDivideByZero, domain.EventOperator, domain.StateOperatorEntered, chain...),
			when(divideByZero, domain.EventOperator, domain.StateAlert),
			when(notDivideByZero, domain.EventEquals, domain.StateResult, equals...),
			when(divideByZero, domain.EventEquals, domain.StateAlert),
			when(isZero, domain.EventNumber, domain.StateOperand2Zero, defaultReadout, replaceLastNumberHistory),
			when(isNotZero, domain.EventNumber, domain.StateOperand2BeforeDecimal, setReadoutNum, replaceLastNumberHistory),
			on(domain.EventToggleSign, domain.StateOperand2, toggleSign, convertNumberToPositiveInHistory),
			on(domain.EventDecimalPoint, domain.StateOperand2AfterDecimal, defaultReadout, handleSecondOperandDecimalPoint),
			on(domain.EventClearEntry, domain.StateOperatorEntered, defaultReadout, removeLastNumberHistory),
			on(domain.EventPercentage, domain.StateResult, percentage...),
		},

		domain.StateResult: {
			when(isZero, domain.EventNumber, domain.StateOperand1, defaultReadout, replaceLastNumberHistory),
			when(isNotZero, domain.EventNumber, domain.StateOperand1BeforeDecimal, setReadoutNum, replaceLastNumberHistory),
			when(isNegative, domain.EventToggleSign, domain.StateOperand1, toggleSign, convertNumberToPositiveInHistory),
			when(isNotNegative, domain.EventToggleSign, domain.StateNegativeNumber, toggleSign, convertNumberToNegativeInHistory),
			on(domain.EventDecimalPoint, domain.StateOperand1AfterDecimal, defaultReadout, defaultReadoutHistory),
			on(domain.EventPercentage, domain.StateResult, percentage...),
			on(domain.EventOperator, domain.StateOperatorEntered, storeResultAsOperand1, recordOperator),
			on(domain.EventClearEntry, domain.StateStart, defaultReadout, defaultReadoutHistory),
		},

		domain.StateAlert: {
			on(domain.EventAcknowledge, domain.StateStart, reset),
		},
	}

	for state, ts := range digitEntry(domain.StateOperand1Zero, domain.StateOperand1BeforeDecimal, domain.StateOperand1AfterDecimal) {
		m[state] = ts
	}
	for state, ts := range digitEntry(domain.StateOperand2Zero, domain.StateOperand2BeforeDecimal, domain.StateOperand2AfterDecimal) {
		m[state] = ts
	}
	return m
}

// ancestry lists state followed by each of its ancestors up to root.
func ancestry(state domain.State) []domain.State {
	out := []domain.State{state}
	for s := state.Parent(); s != root; s = s.Parent() {
		out = append(out, s)
	}
	if state != root {
		out = append(out, root)
	}
	return out
}
