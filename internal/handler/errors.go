package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/smartexam/internal/engine"
	"github.com/stemsi/smartexam/internal/repository"
	"github.com/stemsi/smartexam/internal/response"
	"github.com/stemsi/smartexam/internal/service"
)

type errMapping struct {
	target error
	status int
	code   response.ErrCode
}

// errTable is checked in order; the first errors.Is match wins.
var errTable = []errMapping{
	{service.ErrExamNotFound, http.StatusNotFound, response.ErrExamNotFound},
	{service.ErrSessionNotFound, http.StatusNotFound, response.ErrSessionNotFound},
	{service.ErrQuestionNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrSessionNotCompleted, http.StatusConflict, response.ErrSessionNotCompleted},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
	{service.ErrAdminDisabled, http.StatusServiceUnavailable, response.ErrAdminDisabled},
	{engine.ErrInsufficientQuestions, http.StatusUnprocessableEntity, response.ErrInsufficientQuestions},
	{engine.ErrInvalidState, http.StatusConflict, response.ErrSessionNotActive},
	{engine.ErrUnknownQuestion, http.StatusBadRequest, response.ErrUnknownQuestion},
	{engine.ErrInvalidOption, http.StatusBadRequest, response.ErrInvalidOption},
	{engine.ErrIndexOutOfRange, http.StatusBadRequest, response.ErrIndexOutOfRange},
	{engine.ErrInvalidSession, http.StatusInternalServerError, response.ErrInvalidSession},
	{repository.ErrNotFound, http.StatusNotFound, response.ErrNotFound},
	{repository.ErrSeedImmutable, http.StatusForbidden, response.ErrSeedImmutable},
	{repository.ErrQuotaMismatch, http.StatusBadRequest, response.ErrQuotaMismatch},
	{repository.ErrInvalidRecord, http.StatusBadRequest, response.ErrValidation},
}

// classify maps a service error onto an HTTP status and error code.
func classify(err error) (int, response.ErrCode) {
	for _, m := range errTable {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusServiceUnavailable, response.ErrInternal
	}
	return http.StatusInternalServerError, response.ErrInternal
}

// fail writes the error envelope for err. Unmapped errors are logged.
func fail(c *gin.Context, log zerolog.Logger, err error) {
	status, code := classify(err)
	if code == response.ErrInternal {
		log.Error().Err(err).
			Str("path", c.FullPath()).
			Str("request_id", c.GetString(response.ContextKeyRequestID)).
			Msg("Request failed")
		response.Fail(c, status, code)
		return
	}

	var insufficient *engine.InsufficientQuestionsError
	if errors.As(err, &insufficient) {
		response.FailWithDetail(c, status, code, insufficient.Error())
		return
	}
	response.Fail(c, status, code)
}
