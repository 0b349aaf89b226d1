package domain

import "time"

// Session is one calculator in use: the machine position plus its context.
type Session struct {
	ID        string
	State     State
	Context   Context
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates a session at the start state with a fresh context.
func NewSession(id string) Session {
	now := time.Now().UTC()
	return Session{
		ID:        id,
		State:     StateStart,
		Context:   NewContext(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Alert returns the user-facing notice for the session, if any.
func (s Session) Alert() string {
	if s.State == StateAlert {
		return DivideByZeroMessage
	}
	return ""
}

// Computation is a finished calculation recorded in a session's log.
type Computation struct {
	ID         string
	SessionID  string
	Expression string
	Result     string
	CreatedAt  time.Time
}

// NewComputation stamps a computation with the current time.
func NewComputation(id, sessionID, expression, result string) Computation {
	return Computation{
		ID:         id,
		SessionID:  sessionID,
		Expression: expression,
		Result:     result,
		CreatedAt:  time.Now().UTC(),
	}
}
