package websocket

import "github.com/stemsi/smartexam/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionState   Action = "state"
	ActionAnswer  Action = "answer"
	ActionAdvance Action = "advance"
	ActionRetreat Action = "retreat"
	ActionGoTo    Action = "goto"
	ActionSubmit  Action = "submit"
	ActionPing    Action = "ping"
)

// RequestPayload is every client message. Fields beyond Action depend on it:
// answer needs questionId and selectedOptionIndex, goto needs index.
type RequestPayload struct {
	Action              Action   `json:"action"`
	QuestionID          string   `json:"questionId,omitempty"`
	SelectedOptionIndex *int     `json:"selectedOptionIndex,omitempty"`
	TimeSpentSeconds    *float64 `json:"timeSpentSeconds,omitempty"`
	Index               *int     `json:"index,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState  Event = "state"
	EventTick   Event = "tick"
	EventGraded Event = "graded"
	EventError  Event = "error"
	EventPong   Event = "pong"
)

type StateResponse struct {
	Event   Event               `json:"event"`
	Session *model.SessionState `json:"session"`
}

// TickResponse is pushed once per timer tick while the attempt runs.
type TickResponse struct {
	Event            Event            `json:"event"`
	RemainingSeconds float64          `json:"remainingSeconds"`
	Level            model.TimerLevel `json:"level"`
}

// GradedResponse is the last event of a stream.
type GradedResponse struct {
	Event     Event             `json:"event"`
	Result    *model.ExamResult `json:"result"`
	Persisted bool              `json:"persisted"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
