package handler

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/stemsi/smartexam/internal/engine"
	"github.com/stemsi/smartexam/internal/model"
	"github.com/stemsi/smartexam/internal/response"
	"github.com/stemsi/smartexam/internal/service"
	ws "github.com/stemsi/smartexam/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if allowed == "*" || strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams one attempt: timer ticks out, navigation actions in.
type WSHandler struct {
	sessionService *service.ExamSessionService
	tick           time.Duration
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(sessionService *service.ExamSessionService, tick time.Duration, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	if tick <= 0 {
		tick = engine.DefaultTimerTick
	}
	return &WSHandler{
		sessionService: sessionService,
		tick:           tick,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/sessions/:session_id/stream
// Upgrades to WebSocket for live countdown, navigation and instant grading.
func (h *WSHandler) SessionStream(c *gin.Context) {
	sessionID := c.Param("session_id")

	state, err := h.sessionService.State(sessionID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	done, err := h.sessionService.Done(sessionID)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("session_id", sessionID).Logger()
	wsLog.Info().Msg("Candidate connected")

	w := ws.NewWriter(conn)
	if err := w.WriteTyped(ws.StateResponse{Event: ws.EventState, Session: state}); err != nil {
		return
	}

	// The request context ends with the hijacked connection, not the attempt.
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.pump(ctx, w, wsLog, sessionID, done)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}
		h.dispatch(ctx, w, wsLog, sessionID, &msg)
	}
}

// pump pushes timer ticks until the attempt is graded, then sends the result.
func (h *WSHandler) pump(ctx context.Context, w *ws.Writer, wsLog zerolog.Logger, sessionID string, done <-chan struct{}) {
	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-done:
			h.sendGraded(ctx, w, wsLog, sessionID)
			return

		case <-ticker.C:
			state, err := h.sessionService.State(sessionID)
			if err != nil {
				// Abandoned or swept from another client.
				h.writeErr(w, err)
				w.Close("session closed")
				return
			}
			if state.Status == model.SessionStatusCompleted {
				continue
			}
			if err := w.WriteTyped(ws.TickResponse{
				Event:            ws.EventTick,
				RemainingSeconds: state.RemainingSeconds,
				Level:            state.TimerLevel,
			}); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) sendGraded(ctx context.Context, w *ws.Writer, wsLog zerolog.Logger, sessionID string) {
	res, err := h.sessionService.Result(ctx, sessionID)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	w.WriteTyped(ws.GradedResponse{
		Event:     ws.EventGraded,
		Result:    res,
		Persisted: h.sessionService.PersistError(sessionID) == nil,
	})
	w.Close("graded")

	wsLog.Info().
		Int("score", res.Score).
		Str("reason", string(res.CompletionReason)).
		Msg("Graded result streamed")
}

func (h *WSHandler) dispatch(ctx context.Context, w *ws.Writer, wsLog zerolog.Logger, sessionID string, msg *ws.RequestPayload) {
	var (
		state *model.SessionState
		err   error
	)

	switch msg.Action {
	case ws.ActionPing:
		w.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		return

	case ws.ActionState:
		state, err = h.sessionService.State(sessionID)

	case ws.ActionAnswer:
		if msg.QuestionID == "" || msg.SelectedOptionIndex == nil {
			w.WriteError(string(response.ErrInvalidPayload), "questionId and selectedOptionIndex are required")
			return
		}
		state, err = h.sessionService.RecordAnswer(sessionID, model.RecordAnswerRequest{
			QuestionID:          msg.QuestionID,
			SelectedOptionIndex: msg.SelectedOptionIndex,
			TimeSpentSeconds:    msg.TimeSpentSeconds,
		})

	case ws.ActionAdvance:
		state, err = h.sessionService.Advance(sessionID)

	case ws.ActionRetreat:
		state, err = h.sessionService.Retreat(sessionID)

	case ws.ActionGoTo:
		if msg.Index == nil {
			w.WriteError(string(response.ErrInvalidPayload), "index is required")
			return
		}
		state, err = h.sessionService.GoTo(sessionID, *msg.Index)

	case ws.ActionSubmit:
		// The graded event follows from pump once the attempt is scored.
		_, err = h.sessionService.Submit(ctx, sessionID)
		if err != nil {
			h.writeErr(w, err)
		}
		return

	default:
		wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
		w.WriteError(string(response.ErrInvalidPayload), "unknown action: "+string(msg.Action))
		return
	}

	if err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteTyped(ws.StateResponse{Event: ws.EventState, Session: state})
}

func (h *WSHandler) writeErr(w *ws.Writer, err error) {
	_, code := classify(err)
	if code == response.ErrInternal {
		h.log.Error().Err(err).Msg("Stream action failed")
	}
	w.WriteError(string(code), response.GetMessage(code))
}
