package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-admin-service/internal/services"
	"github.com/SAP-F-2025/quiz-admin-service/internal/utils"
	"github.com/SAP-F-2025/quiz-admin-service/internal/validator"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
	validator   *validator.Validator
}

func NewUserHandler(userService services.UserService, validator *validator.Validator, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
		validator:   validator,
	}
}

// Register creates a regular account
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param body body validator.RegisterRequest true "Credentials"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req validator.RegisterRequest
	if !h.bindJSON(c, nil, &req) {
		return
	}

	h.LogRequest(c, "Registering user")

	user, err := h.userService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetMe returns the caller's account
// @Summary Current account
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}

	user, err := h.userService.GetAccount(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe changes the caller's email
func (h *UserHandler) UpdateMe(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}

	var req validator.UpdateAccountRequest
	if !h.bindJSON(c, h.validator, &req) {
		return
	}

	h.LogRequest(c, "Updating account", "user_id", actor.UserID)

	user, err := h.userService.UpdateEmail(c.Request.Context(), actor, req.Email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers lists accounts for the quiz assignment picker
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 50, max: 100)"
// @Param q query string false "Email search"
// @Success 200 {object} models.PaginatedResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}

	filters, page := h.parseUserFilters(c)

	users, total, err := h.userService.ListUsers(c.Request.Context(), actor, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewPaginatedResponse(users, len(users), total, page, filters.Limit))
}

// ===== HELPER METHODS =====

func (h *UserHandler) parseUserFilters(c *gin.Context) (repositories.UserFilters, int) {
	page := 1
	size := 50

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			size = s
		}
	}

	filters := repositories.UserFilters{
		Limit:  size,
		Offset: (page - 1) * size,
		Query:  c.Query("q"),
	}
	if adminStr := c.Query("is_admin"); adminStr != "" {
		if isAdmin, err := strconv.ParseBool(adminStr); err == nil {
			filters.IsAdmin = &isAdmin
		}
	}

	return filters, page
}
