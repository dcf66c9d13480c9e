package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/smartexam/internal/model"
	"github.com/stemsi/smartexam/internal/response"
	"github.com/stemsi/smartexam/internal/service"
)

// maxResultsPerPage caps the ?limit= query.
const maxResultsPerPage = 100

// ResultHandler serves the result history and the dashboard summary.
type ResultHandler struct {
	resultService *service.ResultService
	log           zerolog.Logger
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(resultService *service.ResultService, log zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		resultService: resultService,
		log:           log.With().Str("component", "result_handler").Logger(),
	}
}

// ListResults godoc
// GET /api/v1/results?limit=
// Returns stored results, newest first.
func (h *ResultHandler) ListResults(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"limit": "limit must be a positive number"})
		return
	}
	if limit > maxResultsPerPage {
		limit = maxResultsPerPage
	}

	results, err := h.resultService.ListRecent(c.Request.Context(), limit)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if results == nil {
		results = []model.ExamResult{}
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// GetProgress godoc
// GET /api/v1/progress
// Returns exams taken, average score, recent results and strong/weak subjects.
func (h *ResultHandler) GetProgress(c *gin.Context) {
	progress, err := h.resultService.Progress(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progress": progress})
}
