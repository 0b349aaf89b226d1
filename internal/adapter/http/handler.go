package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/calcmachine/internal/app"
	"github.com/neomorfeo/calcmachine/internal/domain"
)

// SessionResponse is the API representation of a calculator session.
type SessionResponse struct {
	ID        string   `json:"id" doc:"Unique identifier"`
	State     string   `json:"state" doc:"Current machine state, e.g. operand1.before_decimal_point"`
	Display   string   `json:"display" doc:"Number shown on the readout"`
	History   string   `json:"history" doc:"Running transcript of the expression"`
	Operand1  string   `json:"operand1,omitempty" doc:"First operand, if entered"`
	Operand2  string   `json:"operand2,omitempty" doc:"Second operand, if entered"`
	Operator  string   `json:"operator,omitempty" doc:"Pending operator, if any"`
	Alert     string   `json:"alert,omitempty" doc:"User-facing notice, set while the session is in alert"`
	Accepts   []string `json:"accepts" doc:"Event kinds the current state handles"`
	CreatedAt string   `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt string   `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toSessionResponse(s domain.Session, accepts []domain.EventKind) SessionResponse {
	kinds := make([]string, len(accepts))
	for i, k := range accepts {
		kinds[i] = string(k)
	}
	return SessionResponse{
		ID:        s.ID,
		State:     string(s.State),
		Display:   s.Context.Display,
		History:   s.Context.HistoryInput,
		Operand1:  s.Context.Operand1,
		Operand2:  s.Context.Operand2,
		Operator:  s.Context.Operator,
		Alert:     s.Alert(),
		Accepts:   kinds,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

// ComputationResponse is the API representation of a recorded computation.
type ComputationResponse struct {
	ID         string `json:"id" doc:"Unique identifier"`
	Expression string `json:"expression" doc:"Transcript before the result"`
	Result     string `json:"result" doc:"Display after the computation"`
	CreatedAt  string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
}

func toComputationResponse(c domain.Computation) ComputationResponse {
	return ComputationResponse{
		ID:         c.ID,
		Expression: c.Expression,
		Result:     c.Result,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
}

// --- Create Session ---

type CreateSessionOutput struct {
	Body SessionResponse
}

// --- Get Session ---

type GetSessionInput struct {
	ID string `path:"id" doc:"Session ID"`
}

type GetSessionOutput struct {
	Body SessionResponse
}

// --- Dispatch Event ---

// EventBody names an event either by kind and payload or by a button label.
type EventBody struct {
	Type     string `json:"type,omitempty" enum:"NUMBER,OPERATOR,TOGGLE_SIGN,PERCENTAGE,CLEAR_ENTRY,DECIMAL_POINT,CLEAR_EVERYTHING,EQUALS,ACKNOWLEDGE" doc:"Event kind"`
	Key      int    `json:"key,omitempty" minimum:"0" doc:"Digit value for NUMBER events"`
	Operator string `json:"operator,omitempty" enum:"+,-,x,/" doc:"Operator for OPERATOR events"`
	Button   string `json:"button,omitempty" doc:"Calculator face label (0-9, + - x /, C, CE, +/-, ., %, =); overrides type"`
}

type DispatchInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body EventBody
}

type DispatchOutput struct {
	Body SessionResponse
}

// --- List Computations ---

type ListComputationsInput struct {
	ID     string `path:"id" doc:"Session ID"`
	Limit  int    `query:"limit" required:"false" default:"20" minimum:"1" maximum:"100" doc:"Max results"`
	Offset int    `query:"offset" required:"false" default:"0" minimum:"0" doc:"Pagination offset"`
}

type ListComputationsOutput struct {
	Body []ComputationResponse
}

// Register adds all calculator API routes to the Huma API.
func Register(api huma.API, svc *app.CalculatorService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-session",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions",
		Summary:     "Start a new calculator session",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, _ *struct{}) (*CreateSessionOutput, error) {
		session, err := svc.CreateSession(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateSessionOutput{Body: toSessionResponse(session, svc.Accepts(session))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Get a session by ID",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
		session, err := svc.GetSession(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetSessionOutput{Body: toSessionResponse(session, svc.Accepts(session))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "dispatch-event",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/events",
		Summary:     "Send a key press to a session",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, input *DispatchInput) (*DispatchOutput, error) {
		event, err := toEvent(input.Body)
		if err != nil {
			return nil, toHumaError(err)
		}
		session, err := svc.Dispatch(ctx, input.ID, event)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &DispatchOutput{Body: toSessionResponse(session, svc.Accepts(session))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-computations",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/computations",
		Summary:     "List finished computations, newest first",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, input *ListComputationsInput) (*ListComputationsOutput, error) {
		computations, err := svc.ListComputations(ctx, input.ID, input.Limit, input.Offset)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]ComputationResponse, len(computations))
		for i, c := range computations {
			resp[i] = toComputationResponse(c)
		}
		return &ListComputationsOutput{Body: resp}, nil
	})
}

// errMissingEvent is returned for a body with neither a type nor a button.
var errMissingEvent = errors.New("either type or button is required")

func toEvent(body EventBody) (domain.Event, error) {
	if body.Button != "" {
		return domain.ParseButton(body.Button)
	}
	if body.Type == "" {
		return domain.Event{}, errMissingEvent
	}
	return domain.Event{
		Kind:     domain.EventKind(body.Type),
		Key:      body.Key,
		Operator: body.Operator,
	}, nil
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	if errors.Is(err, domain.ErrSessionNotFound) {
		return huma.Error404NotFound("session not found")
	}

	if errors.Is(err, errMissingEvent) {
		return huma.Error422UnprocessableEntity(err.Error())
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error422UnprocessableEntity(trErr.Error())
	}

	var evErr *domain.InvalidEventError
	if errors.As(err, &evErr) {
		return huma.Error422UnprocessableEntity(evErr.Error())
	}

	var btnErr *domain.InvalidButtonError
	if errors.As(err, &btnErr) {
		return huma.Error422UnprocessableEntity(btnErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
