package fsm

import (
	"context"
	"errors"
	"fmt"

	loopfsm "github.com/looplab/fsm"

	"github.com/neomorfeo/calcmachine/internal/domain"
)

// Compile-time check: Engine implements domain.TransitionEngine.
var _ domain.TransitionEngine = (*Engine)(nil)

// events flattens the hierarchical machine into looplab/fsm EventDesc
// entries between leaf states. A handler declared on a composite state is
// expanded to every leaf below it, and composite targets resolve to their
// initial child. Entries with the same name and destination are merged into
// one EventDesc with several sources.
var events = buildEvents()

func buildEvents() []loopfsm.EventDesc {
	type key struct {
		event string
		dst   string
	}
	type edge struct {
		event string
		src   domain.State
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)
	seen := make(map[edge]domain.State)

	for _, leaf := range domain.LeafStates {
		for _, declaring := range ancestry(leaf) {
			for _, t := range machine[declaring] {
				dst := t.target.Leaf()
				e := edge{event: t.label(), src: leaf}
				if prev, ok := seen[e]; ok {
					if prev != dst {
						panic(fmt.Sprintf("fsm: %q from %q leads to both %q and %q", e.event, leaf, prev, dst))
					}
					continue
				}
				seen[e] = dst

				k := key{event: e.event, dst: string(dst)}
				if _, exists := grouped[k]; !exists {
					order = append(order, k)
				}
				grouped[k] = append(grouped[k], string(leaf))
			}
		}
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{
			Name: k.event,
			Src:  grouped[k],
			Dst:  k.dst,
		})
	}
	return out
}

// Engine implements domain.TransitionEngine. It selects the handler for an
// event by walking from the current leaf up through its ancestors, moves the
// state through a short-lived looplab/fsm instance, and then runs the
// handler's actions against the context.
type Engine struct{}

// New creates a new calculator transition engine.
func New() *Engine {
	return &Engine{}
}

// Apply feeds one event to the machine. It returns a domain.TransitionError
// when no state on the path to the root declares the event kind. When the
// kind is declared but every guard rejects it, state and context are
// returned unchanged.
func (e *Engine) Apply(ctx context.Context, current domain.State, c domain.Context, event domain.Event) (domain.State, domain.Context, error) {
	if err := event.Validate(); err != nil {
		return current, c, err
	}
	current = current.Leaf()

	t, declared := resolve(current, c, event)
	if !declared {
		return current, c, &domain.TransitionError{Event: event.Kind, Current: current}
	}
	if t == nil {
		return current, c, nil
	}

	m := loopfsm.NewFSM(string(current), events, nil)
	if err := m.Event(ctx, t.label()); err != nil {
		var noTransition loopfsm.NoTransitionError
		var invalidEvent loopfsm.InvalidEventError
		var unknownEvent loopfsm.UnknownEventError
		switch {
		case errors.As(err, &noTransition) && noTransition.Err == nil:
			// Self-transition, e.g. another digit in after_decimal_point.
		case errors.As(err, &invalidEvent), errors.As(err, &unknownEvent):
			return current, c, &domain.TransitionError{Event: event.Kind, Current: current}
		default:
			return current, c, err
		}
	}

	for _, act := range t.actions {
		c = act(c, event)
	}
	return domain.State(m.Current()), c, nil
}

// resolve finds the transition that fires for event. declared reports
// whether any state on the path declares the event kind at all.
func resolve(current domain.State, c domain.Context, event domain.Event) (t *transition, declared bool) {
	for _, state := range ancestry(current) {
		for i := range machine[state] {
			candidate := &machine[state][i]
			if candidate.event != event.Kind {
				continue
			}
			declared = true
			if candidate.allows(c, event) {
				return candidate, true
			}
		}
	}
	return nil, declared
}

// Accepts lists the event kinds state declares a handler for, itself or
// through an ancestor, regardless of guards.
func (e *Engine) Accepts(state domain.State) []domain.EventKind {
	leaf := state.Leaf()
	out := make([]domain.EventKind, 0, len(domain.EventKinds))
	for _, kind := range domain.EventKinds {
		for _, s := range ancestry(leaf) {
			if declares(s, kind) {
				out = append(out, kind)
				break
			}
		}
	}
	return out
}

func declares(state domain.State, kind domain.EventKind) bool {
	for _, t := range machine[state] {
		if t.event == kind {
			return true
		}
	}
	return false
}
