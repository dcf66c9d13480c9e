package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/smartexam/internal/model"
	"github.com/stemsi/smartexam/internal/response"
	"github.com/stemsi/smartexam/internal/service"
	"github.com/stemsi/smartexam/internal/validator"
)

// SessionHandler drives a single exam attempt over plain HTTP.
type SessionHandler struct {
	sessionService *service.ExamSessionService
	log            zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.ExamSessionService, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		log:            log.With().Str("component", "session_handler").Logger(),
	}
}

// StartSession godoc
// POST /api/v1/sessions
// Draws the questions for an exam and starts the clock.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.sessionService.Start(c.Request.Context(), req.ExamID)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": state})
}

// GetState godoc
// GET /api/v1/sessions/:session_id
// Returns the current question, navigation flags and remaining time.
func (h *SessionHandler) GetState(c *gin.Context) {
	h.respondState(c)(h.sessionService.State(c.Param("session_id")))
}

// RecordAnswer godoc
// PUT /api/v1/sessions/:session_id/answers
// Stores the latest answer for a question. Re-answering replaces the old one.
func (h *SessionHandler) RecordAnswer(c *gin.Context) {
	var req model.RecordAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	h.respondState(c)(h.sessionService.RecordAnswer(c.Param("session_id"), req))
}

// Advance godoc
// POST /api/v1/sessions/:session_id/advance
// Moves to the next question. Advancing past the last one finishes the attempt.
func (h *SessionHandler) Advance(c *gin.Context) {
	h.respondState(c)(h.sessionService.Advance(c.Param("session_id")))
}

// Retreat godoc
// POST /api/v1/sessions/:session_id/retreat
func (h *SessionHandler) Retreat(c *gin.Context) {
	h.respondState(c)(h.sessionService.Retreat(c.Param("session_id")))
}

// GoTo godoc
// POST /api/v1/sessions/:session_id/goto
// Jumps to any question from the navigation grid.
func (h *SessionHandler) GoTo(c *gin.Context) {
	var req model.GoToRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	h.respondState(c)(h.sessionService.GoTo(c.Param("session_id"), *req.Index))
}

// Submit godoc
// POST /api/v1/sessions/:session_id/submit
// Finishes the attempt and returns the graded result.
func (h *SessionHandler) Submit(c *gin.Context) {
	id := c.Param("session_id")
	res, err := h.sessionService.Submit(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, h.resultBody(id, res))
}

// GetResult godoc
// GET /api/v1/sessions/:session_id/result
// Returns the graded result once the attempt has finished.
func (h *SessionHandler) GetResult(c *gin.Context) {
	id := c.Param("session_id")
	res, err := h.sessionService.Result(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, h.resultBody(id, res))
}

// GetReview godoc
// GET /api/v1/sessions/:session_id/review
// Lists every question with the chosen option, the answer key and the explanation.
func (h *SessionHandler) GetReview(c *gin.Context) {
	items, err := h.sessionService.Review(c.Param("session_id"))
	if err != nil {
		fail(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"review": items})
}

// Abandon godoc
// DELETE /api/v1/sessions/:session_id
// Discards the attempt without grading it.
func (h *SessionHandler) Abandon(c *gin.Context) {
	if err := h.sessionService.Abandon(c.Param("session_id")); err != nil {
		fail(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "session abandoned"})
}

func (h *SessionHandler) respondState(c *gin.Context) func(*model.SessionState, error) {
	return func(state *model.SessionState, err error) {
		if err != nil {
			fail(c, h.log, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"session": state})
	}
}

// resultBody flags results that could not be handed to the history store.
func (h *SessionHandler) resultBody(sessionID string, res *model.ExamResult) gin.H {
	return gin.H{
		"result":    res,
		"persisted": h.sessionService.PersistError(sessionID) == nil,
	}
}
