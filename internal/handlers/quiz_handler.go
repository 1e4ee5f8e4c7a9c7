package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-admin-service/internal/services"
	"github.com/SAP-F-2025/quiz-admin-service/internal/utils"
	"github.com/SAP-F-2025/quiz-admin-service/internal/validator"
)

type QuizHandler struct {
	BaseHandler
	quizService services.QuizService
	validator   *validator.Validator
}

func NewQuizHandler(quizService services.QuizService, validator *validator.Validator, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		quizService: quizService,
		validator:   validator,
	}
}

// CreateQuiz creates a quiz with its questions and assignments
// @Summary Create quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param quiz body validator.CreateQuizRequest true "Quiz data"
// @Success 201 {object} models.Quiz
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}

	// rules are checked by the service so every failure is reported at once
	var req validator.CreateQuizRequest
	if !h.bindJSON(c, nil, &req) {
		return
	}

	h.LogRequest(c, "Creating quiz", "title", req.Title)

	quiz, err := h.quizService.CreateQuiz(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// ListQuizzes lists the quizzes visible to the caller
// @Summary List quizzes
// @Tags quizzes
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]models.Quiz}
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}

	quizzes, err := h.quizService.ListVisibleQuizzes(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: quizzes})
}

// GetQuiz returns a quiz ready to be taken
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor, ok := h.identity(c)
	if !ok {
		return
	}

	view, err := h.quizService.GetQuizForTaking(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SetVisibility hides or shows a quiz
// @Summary Set quiz visibility
// @Tags quizzes
// @Accept json
// @Param id path uint true "Quiz ID"
// @Param body body validator.VisibilityRequest true "Visibility"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/visibility [put]
func (h *QuizHandler) SetVisibility(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor, ok := h.identity(c)
	if !ok {
		return
	}

	var req validator.VisibilityRequest
	if !h.bindJSON(c, h.validator, &req) {
		return
	}

	h.LogRequest(c, "Setting quiz visibility", "quiz_id", id, "hidden", *req.Hidden)

	if err := h.quizService.SetVisibility(c.Request.Context(), actor, id, *req.Hidden); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "hidden": *req.Hidden})
}

// DeleteQuiz removes a quiz and everything attached to it
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor, ok := h.identity(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting quiz", "quiz_id", id)

	if err := h.quizService.DeleteQuiz(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
