package fsm_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	adapter "github.com/neomorfeo/calcmachine/internal/adapter/fsm"
	"github.com/neomorfeo/calcmachine/internal/domain"
)

var (
	toggle  = domain.Simple(domain.EventToggleSign)
	percent = domain.Simple(domain.EventPercentage)
	point   = domain.Simple(domain.EventDecimalPoint)
	clearE  = domain.Simple(domain.EventClearEntry)
	clearA  = domain.Simple(domain.EventClearEverything)
	equals  = domain.Simple(domain.EventEquals)
	ack     = domain.Simple(domain.EventAcknowledge)
)

// step is one event and the expectations after applying it. Empty
// expectations are not checked.
type step struct {
	event   domain.Event
	state   domain.State
	display string
	history string
}

// machine drives an engine from a fresh session.
type machine struct {
	t      *testing.T
	engine *adapter.Engine
	state  domain.State
	ctx    domain.Context
}

func newMachine(t *testing.T) *machine {
	t.Helper()
	return &machine{t: t, engine: adapter.New(), state: domain.StateStart, ctx: domain.NewContext()}
}

func (m *machine) send(events ...domain.Event) {
	m.t.Helper()
	for _, e := range events {
		state, c, err := m.engine.Apply(context.Background(), m.state, m.ctx, e)
		if err != nil {
			m.t.Fatalf("Apply(%q, %+v) error: %v", m.state, e, err)
		}
		m.state, m.ctx = state, c
	}
}

func (m *machine) run(steps []step) {
	m.t.Helper()
	for i, s := range steps {
		m.send(s.event)
		if s.state != "" && m.state != s.state {
			m.t.Errorf("step %d (%+v): state = %q, want %q", i, s.event, m.state, s.state)
		}
		if s.display != "" && m.ctx.Display != s.display {
			m.t.Errorf("step %d (%+v): display = %q, want %q", i, s.event, m.ctx.Display, s.display)
		}
		if s.history != "" && m.ctx.HistoryInput != s.history {
			m.t.Errorf("step %d (%+v): history = %q, want %q", i, s.event, m.ctx.HistoryInput, s.history)
		}
	}
}

func TestEngine_AddingDecimals(t *testing.T) {
	m := newMachine(t)
	m.run([]step{
		{event: domain.Number(0), state: domain.StateOperand1Zero, history: "0."},
		{event: domain.Number(10), state: domain.StateOperand1BeforeDecimal, history: "10."},
		{event: point, state: domain.StateOperand1AfterDecimal},
		{event: domain.Number(1), display: "10.1", history: "10.1"},
		{event: domain.Operator("+"), state: domain.StateOperatorEntered, history: "10.1 + "},
		{event: domain.Number(21), state: domain.StateOperand2BeforeDecimal, history: "10.1 + 21."},
		{event: point, state: domain.StateOperand2AfterDecimal},
		{event: domain.Number(1), history: "10.1 + 21.1"},
		{event: equals, state: domain.StateResult},
	})

	if !strings.Contains(m.ctx.Display, "31.2") {
		t.Errorf("display = %q, want it to contain %q", m.ctx.Display, "31.2")
	}
	if !strings.Contains(m.ctx.HistoryInput, "31.2") {
		t.Errorf("history = %q, want it to contain %q", m.ctx.HistoryInput, "31.2")
	}
}

func TestEngine_PercentageOfBase(t *testing.T) {
	m := newMachine(t)
	m.run([]step{
		{event: domain.Number(100), history: "100."},
		{event: percent, state: domain.StateResult, display: "1", history: "1"},
		{event: domain.Operator("+"), history: "1 + "},
		{event: domain.Number(100), history: "1 + 100."},
		{event: percent, state: domain.StateResult, display: "2", history: "2"},
	})
}

func TestEngine_MultipleOperators(t *testing.T) {
	m := newMachine(t)
	m.send(
		domain.Number(1), domain.Operator("-"), domain.Number(1),
		domain.Operator("+"), domain.Number(2),
		domain.Operator("/"), domain.Number(2),
		equals,
	)

	if m.ctx.HistoryInput != "1." {
		t.Errorf("history = %q, want %q", m.ctx.HistoryInput, "1.")
	}
	if m.ctx.Display != "1." {
		t.Errorf("display = %q, want %q", m.ctx.Display, "1.")
	}
}

func TestEngine_ChainComputesEachOperator(t *testing.T) {
	m := newMachine(t)
	m.run([]step{
		{event: domain.Number(1)},
		{event: domain.Operator("-")},
		{event: domain.Number(1)},
		{event: domain.Operator("+"), state: domain.StateOperatorEntered, display: "0.", history: "1. - 1. + "},
	})

	if m.ctx.Operand1 != "0." {
		t.Errorf("operand1 = %q, want %q", m.ctx.Operand1, "0.")
	}
	if m.ctx.Operator != "+" {
		t.Errorf("operator = %q, want %q", m.ctx.Operator, "+")
	}
}

func TestEngine_DivideByZero(t *testing.T) {
	m := newMachine(t)
	m.run([]step{
		{event: domain.Number(5)},
		{event: domain.Operator("/")},
		{event: domain.Number(0), state: domain.StateOperand2Zero, history: "5. / 0."},
		{event: equals, state: domain.StateAlert},
		{event: ack, state: domain.StateStart},
	})

	if m.ctx != domain.NewContext() {
		t.Errorf("context after acknowledge = %+v, want fresh context", m.ctx)
	}
}

func TestEngine_DivideByZero_OnOperatorChain(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(8), domain.Operator("/"), domain.Number(0))
	m.run([]step{{event: domain.Operator("+"), state: domain.StateAlert}})
}

func TestEngine_DivideByFraction(t *testing.T) {
	m := newMachine(t)
	m.run([]step{
		{event: domain.Number(5)},
		{event: domain.Operator("/")},
		{event: point, state: domain.StateOperand2AfterDecimal, display: "0.", history: "5. / 0."},
		{event: domain.Number(5), display: "0.5", history: "5. / 0.5"},
		{event: equals, state: domain.StateResult, display: "10.", history: "10."},
	})
}

func TestEngine_DivideByZeroThenDigit(t *testing.T) {
	m := newMachine(t)
	m.run([]step{
		{event: domain.Number(5)},
		{event: domain.Operator("/")},
		{event: domain.Number(0), state: domain.StateOperand2Zero, history: "5. / 0."},
		{event: domain.Number(5), state: domain.StateOperand2BeforeDecimal, display: "5.", history: "5. / 5."},
		{event: equals, state: domain.StateResult, display: "1.", history: "1."},
	})
}

func TestEngine_SecondDecimalPointIgnored(t *testing.T) {
	for _, setup := range [][]domain.Event{
		{domain.Number(1), point, domain.Number(5)},
		{domain.Number(1), domain.Operator("+"), point, domain.Number(2)},
	} {
		m := newMachine(t)
		m.send(setup...)
		before, beforeCtx := m.state, m.ctx

		m.send(point)

		if m.state != before || m.ctx != beforeCtx {
			t.Errorf("after %v: second point moved %q %+v to %q %+v", setup, before, beforeCtx, m.state, m.ctx)
		}
	}
}

func TestEngine_AlertRejectsOtherEvents(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(5), domain.Operator("/"), domain.Number(0), equals)

	_, _, err := m.engine.Apply(context.Background(), m.state, m.ctx, domain.Number(1))
	var trErr *domain.TransitionError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if trErr.Current != domain.StateAlert {
		t.Errorf("current = %q, want %q", trErr.Current, domain.StateAlert)
	}
}

func TestEngine_UndeclaredEvent(t *testing.T) {
	cases := []struct {
		name  string
		setup []domain.Event
		event domain.Event
	}{
		{"equals at start", nil, equals},
		{"acknowledge outside alert", []domain.Event{domain.Number(1)}, ack},
		{"equals after operator", []domain.Event{domain.Number(1), domain.Operator("+")}, equals},
		{"equals twice", []domain.Event{domain.Number(1), domain.Operator("+"), domain.Number(2), equals}, equals},
	}

	for _, tc := range cases {
		m := newMachine(t)
		m.send(tc.setup...)

		state, c, err := m.engine.Apply(context.Background(), m.state, m.ctx, tc.event)
		var trErr *domain.TransitionError
		if !errors.As(err, &trErr) {
			t.Errorf("%s: expected TransitionError, got %v", tc.name, err)
			continue
		}
		if trErr.Event != tc.event.Kind {
			t.Errorf("%s: event = %q, want %q", tc.name, trErr.Event, tc.event.Kind)
		}
		if state != m.state || c != m.ctx {
			t.Errorf("%s: rejected event changed the machine", tc.name)
		}
	}
}

func TestEngine_InvalidPayload(t *testing.T) {
	m := newMachine(t)
	_, _, err := m.engine.Apply(context.Background(), m.state, m.ctx, domain.Operator("%"))
	var evErr *domain.InvalidEventError
	if !errors.As(err, &evErr) {
		t.Fatalf("expected InvalidEventError, got %v", err)
	}
}

func TestEngine_GuardBlockedEventIsNoop(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(0))
	before, beforeCtx := m.state, m.ctx

	// Toggling the sign of "0." is declared but guarded.
	m.send(toggle)

	if m.state != before || m.ctx != beforeCtx {
		t.Errorf("toggle on zero changed the machine: %q %+v", m.state, m.ctx)
	}
}

func TestEngine_DigitEntry(t *testing.T) {
	m := newMachine(t)
	m.run([]step{
		{event: domain.Number(0), state: domain.StateOperand1Zero, display: "0."},
		{event: domain.Number(0), state: domain.StateOperand1Zero, display: "0."},
		{event: domain.Number(1), state: domain.StateOperand1BeforeDecimal, display: "1."},
		{event: domain.Number(2), display: "12.", history: "12."},
		{event: domain.Number(3), display: "123.", history: "123."},
		{event: point, state: domain.StateOperand1AfterDecimal, display: "123."},
		{event: domain.Number(4), display: "123.4", history: "123.4"},
		{event: domain.Number(0), display: "123.40", history: "123.40"},
	})
}

func TestEngine_StartWithDecimalPoint(t *testing.T) {
	m := newMachine(t)
	m.run([]step{
		{event: point, state: domain.StateOperand1AfterDecimal, display: "0.", history: "0."},
		{event: domain.Number(5), display: "0.5", history: "0.5"},
	})
}

func TestEngine_NegativeFirstOperand(t *testing.T) {
	m := newMachine(t)
	m.run([]step{
		{event: domain.Number(5)},
		{event: toggle, state: domain.StateNegativeNumber, display: "-5.", history: "(-5.)"},
		{event: toggle, state: domain.StateOperand1Zero, display: "5.", history: "5."},
		{event: toggle, state: domain.StateNegativeNumber, display: "-5."},
		{event: domain.Operator("x"), state: domain.StateOperatorEntered, history: "(-5.) x "},
		{event: domain.Number(2)},
		{event: equals, display: "-10.", history: "(-10.)"},
	})
}

func TestEngine_NegativeNumberTypingStartsFresh(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(5), toggle)
	m.run([]step{
		{event: domain.Number(3), state: domain.StateOperand1BeforeDecimal, display: "3.", history: "3."},
	})
}

func TestEngine_NegativeNumberClearEntryResets(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(5), toggle)
	m.run([]step{
		{event: clearE, state: domain.StateStart, display: "0.", history: "0."},
	})
}

func TestEngine_ClearEntryFirstOperand(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(4), domain.Number(2))
	m.run([]step{
		{event: clearE, state: domain.StateOperand1Zero, display: "0.", history: "0."},
		{event: domain.Number(7), display: "7.", history: "7."},
	})
}

func TestEngine_NegativeSecondOperand(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(1), domain.Operator("+"), domain.Number(2))
	m.run([]step{
		{event: toggle, state: domain.StateNegativeNumber2, display: "-2.", history: "1. + (-2.)"},
		{event: equals, state: domain.StateResult, display: "-1.", history: "(-1.)"},
	})
}

func TestEngine_NegativeSecondOperandToggleBack(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(1), domain.Operator("+"), domain.Number(2), toggle)
	m.run([]step{
		{event: toggle, state: domain.StateOperand2Zero, display: "2.", history: "1. + 2."},
	})
}

func TestEngine_NegativeSecondOperandDecimalPoint(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(1), domain.Operator("+"), domain.Number(2), toggle)
	m.run([]step{
		{event: point, state: domain.StateOperand2AfterDecimal, display: "0.", history: "1. + 0."},
		{event: domain.Number(5), history: "1. + 0.5"},
		{event: equals, display: "1.5"},
	})
}

func TestEngine_NegativeSecondOperandClearEntry(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(1), domain.Operator("+"), domain.Number(2), toggle)
	m.run([]step{
		{event: clearE, state: domain.StateOperatorEntered, display: "0.", history: "1. + "},
	})
}

func TestEngine_ClearEntrySecondOperand(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(1), domain.Operator("+"), domain.Number(2), domain.Number(3))
	m.run([]step{
		{event: clearE, state: domain.StateOperand2Zero, display: "0.", history: "1. + "},
		{event: domain.Number(4), history: "1. + 4."},
		{event: equals, display: "5.", history: "5."},
	})
}

func TestEngine_ReplaceOperator(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(1), domain.Operator("+"))
	m.run([]step{
		{event: domain.Operator("x"), state: domain.StateOperatorEntered, history: "1. x "},
	})
	if m.ctx.Operator != "x" {
		t.Errorf("operator = %q, want %q", m.ctx.Operator, "x")
	}
}

func TestEngine_ResultStartsFreshNumber(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(1), domain.Operator("+"), domain.Number(2), equals)
	m.run([]step{
		{event: domain.Number(7), state: domain.StateOperand1BeforeDecimal, display: "7.", history: "7."},
	})
}

func TestEngine_ResultContinuesWithOperator(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(1), domain.Operator("+"), domain.Number(2), equals)
	m.run([]step{
		{event: domain.Operator("+"), state: domain.StateOperatorEntered, history: "3. + "},
		{event: domain.Number(4)},
		{event: equals, display: "7.", history: "7."},
	})
}

func TestEngine_ResultToggleSign(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(1), domain.Operator("+"), domain.Number(2), equals)
	m.run([]step{
		{event: toggle, state: domain.StateNegativeNumber, display: "-3.", history: "(-3.)"},
	})

	m = newMachine(t)
	m.send(domain.Number(1), domain.Operator("-"), domain.Number(2), equals)
	m.run([]step{
		{event: toggle, state: domain.StateOperand1Zero, display: "1.", history: "1."},
	})
}

func TestEngine_ResultClearEntry(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(1), domain.Operator("+"), domain.Number(2), equals)
	m.run([]step{
		{event: clearE, state: domain.StateStart, display: "0.", history: "0."},
	})
}

func TestEngine_ResultDecimalPoint(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(1), domain.Operator("+"), domain.Number(2), equals)
	m.run([]step{
		{event: point, state: domain.StateOperand1AfterDecimal, display: "0.", history: "0."},
	})
}

func TestEngine_NegativePercentage(t *testing.T) {
	m := newMachine(t)
	m.send(domain.Number(50), toggle)
	m.run([]step{
		{event: percent, state: domain.StateResult, display: "-0.5", history: "(-0.5)"},
		{event: toggle, display: "0.5", history: "0.5"},
	})
}

// reachable lists an event path to every leaf state.
var reachable = []struct {
	state domain.State
	path  []domain.Event
}{
	{domain.StateStart, nil},
	{domain.StateOperand1Zero, []domain.Event{domain.Number(0)}},
	{domain.StateOperand1BeforeDecimal, []domain.Event{domain.Number(5)}},
	{domain.StateOperand1AfterDecimal, []domain.Event{domain.Number(5), point}},
	{domain.StateNegativeNumber, []domain.Event{domain.Number(5), toggle}},
	{domain.StateOperatorEntered, []domain.Event{domain.Number(5), domain.Operator("+")}},
	{domain.StateOperand2Zero, []domain.Event{domain.Number(5), domain.Operator("+"), domain.Number(0)}},
	{domain.StateOperand2BeforeDecimal, []domain.Event{domain.Number(5), domain.Operator("+"), domain.Number(3)}},
	{domain.StateOperand2AfterDecimal, []domain.Event{domain.Number(5), domain.Operator("+"), point}},
	{domain.StateNegativeNumber2, []domain.Event{domain.Number(5), domain.Operator("+"), domain.Number(3), toggle}},
	{domain.StateResult, []domain.Event{domain.Number(5), domain.Operator("+"), domain.Number(3), equals}},
	{domain.StateAlert, []domain.Event{domain.Number(5), domain.Operator("/"), domain.Number(0), equals}},
}

func TestEngine_ClearEverythingFromEveryState(t *testing.T) {
	for _, r := range reachable {
		m := newMachine(t)
		m.send(r.path...)
		if m.state != r.state {
			t.Errorf("path to %q ended in %q", r.state, m.state)
			continue
		}

		m.send(clearA)
		if m.state != domain.StateStart {
			t.Errorf("CLEAR_EVERYTHING from %q: state = %q, want %q", r.state, m.state, domain.StateStart)
		}
		if m.ctx != domain.NewContext() {
			t.Errorf("CLEAR_EVERYTHING from %q: context = %+v, want fresh context", r.state, m.ctx)
		}
	}
}

func TestEngine_ComposeStateResolvesToInitialChild(t *testing.T) {
	e := adapter.New()
	state, _, err := e.Apply(context.Background(), domain.StateOperand1, domain.NewContext(), domain.Number(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != domain.StateOperand1BeforeDecimal {
		t.Errorf("state = %q, want %q", state, domain.StateOperand1BeforeDecimal)
	}
}

func TestEngine_Accepts(t *testing.T) {
	e := adapter.New()

	start := e.Accepts(domain.StateStart)
	for _, want := range []domain.EventKind{domain.EventNumber, domain.EventDecimalPoint, domain.EventClearEverything} {
		if !slices.Contains(start, want) {
			t.Errorf("Accepts(start) = %v, missing %q", start, want)
		}
	}
	if slices.Contains(start, domain.EventEquals) {
		t.Errorf("Accepts(start) = %v, should not contain %q", start, domain.EventEquals)
	}

	alert := e.Accepts(domain.StateAlert)
	want := []domain.EventKind{domain.EventClearEverything, domain.EventAcknowledge}
	if !slices.Equal(alert, want) {
		t.Errorf("Accepts(alert) = %v, want %v", alert, want)
	}

	if after := e.Accepts(domain.StateOperand1AfterDecimal); !slices.Contains(after, domain.EventDecimalPoint) {
		t.Errorf("Accepts(operand1.after_decimal_point) = %v, missing %q", after, domain.EventDecimalPoint)
	}

	// Children inherit the handlers of their parent.
	zero := e.Accepts(domain.StateOperand2Zero)
	for _, want := range []domain.EventKind{domain.EventNumber, domain.EventOperator, domain.EventEquals, domain.EventPercentage} {
		if !slices.Contains(zero, want) {
			t.Errorf("Accepts(operand2.zero) = %v, missing %q", zero, want)
		}
	}
}
