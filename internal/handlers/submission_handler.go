package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-admin-service/internal/services"
	"github.com/SAP-F-2025/quiz-admin-service/internal/utils"
	"github.com/SAP-F-2025/quiz-admin-service/internal/validator"
)

type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
}

func NewSubmissionHandler(submissionService services.SubmissionService, logger utils.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
	}
}

// Submit stores the caller's answers for a quiz
// @Summary Submit quiz
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path uint true "Quiz ID"
// @Param body body validator.SubmitRequest true "Answers keyed by question id"
// @Success 201 {object} models.Submission
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /quizzes/{id}/submissions [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	actor, ok := h.identity(c)
	if !ok {
		return
	}

	var req validator.SubmitRequest
	if !h.bindJSON(c, nil, &req) {
		return
	}

	h.LogRequest(c, "Submitting quiz", "quiz_id", quizID)

	submission, err := h.submissionService.Submit(c.Request.Context(), actor, quizID, req.Answers)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// ListScores returns the caller's released scores
func (h *SubmissionHandler) ListScores(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}

	scores, err := h.submissionService.ListScores(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: scores})
}

func (h *SubmissionHandler) ToggleScoreVisibility(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor, ok := h.identity(c)
	if !ok {
		return
	}

	submission, err := h.submissionService.ToggleScoreVisibility(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}
