package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-admin-service/internal/services"
	"github.com/SAP-F-2025/quiz-admin-service/internal/utils"
	"github.com/SAP-F-2025/quiz-admin-service/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type GradingHandler struct {
	BaseHandler
	gradingService services.GradingService
	exportService  services.ExportService
	validator      *validator.Validator
}

func NewGradingHandler(gradingService services.GradingService, exportService services.ExportService, validator *validator.Validator, logger utils.Logger) *GradingHandler {
	return &GradingHandler{
		BaseHandler:    NewBaseHandler(logger),
		gradingService: gradingService,
		exportService:  exportService,
		validator:      validator,
	}
}

// ListUngraded lists submissions waiting for a grade, oldest first
// @Summary List ungraded submissions
// @Tags grading
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]models.Submission}
// @Failure 403 {object} ErrorResponse
// @Router /submissions/ungraded [get]
func (h *GradingHandler) ListUngraded(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}

	submissions, err := h.gradingService.ListUngraded(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: submissions})
}

func (h *GradingHandler) GetForGrading(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor, ok := h.identity(c)
	if !ok {
		return
	}

	sheet, err := h.gradingService.GetForGrading(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sheet)
}

// Grade scores a submission. Scores may be JSON numbers or strings.
// @Summary Grade submission
// @Tags grading
// @Accept json
// @Produce json
// @Param id path uint true "Submission ID"
// @Param body body validator.GradeRequest true "Scores keyed by question id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /submissions/{id}/grade [post]
func (h *GradingHandler) Grade(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor, ok := h.identity(c)
	if !ok {
		return
	}

	var req validator.GradeRequest
	if !h.bindJSON(c, h.validator, &req) {
		return
	}

	h.LogRequest(c, "Grading submission", "submission_id", id)

	score, err := h.gradingService.Grade(c.Request.Context(), actor, id, req.RawScores())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission_id": id,
		"score":         score,
		"marked":        true,
	})
}

// ExportScores downloads graded submissions as an xlsx workbook
func (h *GradingHandler) ExportScores(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}

	buf, err := h.exportService.ExportScores(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("scores-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
