package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-admin-service/internal/services"
	"github.com/SAP-F-2025/quiz-admin-service/internal/utils"
	"github.com/SAP-F-2025/quiz-admin-service/internal/validator"
)

const healthCheckTimeout = 3 * time.Second

type HandlerManager struct {
	serviceManager    services.ServiceManager
	quizHandler       *QuizHandler
	submissionHandler *SubmissionHandler
	gradingHandler    *GradingHandler
	userHandler       *UserHandler
	authenticator     Authenticator
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	authenticator Authenticator,
) *HandlerManager {
	return &HandlerManager{
		serviceManager:    serviceManager,
		quizHandler:       NewQuizHandler(serviceManager.Quiz(), validator, logger),
		submissionHandler: NewSubmissionHandler(serviceManager.Submission(), logger),
		gradingHandler:    NewGradingHandler(serviceManager.Grading(), serviceManager.Export(), validator, logger),
		userHandler:       NewUserHandler(serviceManager.User(), validator, logger),
		authenticator:     authenticator,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	v1 := router.Group("/api/v1")

	// Public routes
	v1.POST("/auth/register", hm.userHandler.Register)

	authed := v1.Group("")
	authed.Use(hm.authenticator.AuthMiddleware())
	{
		adminOnly := RequireAdminMiddleware()

		quizzes := authed.Group("/quizzes")
		{
			quizzes.GET("", hm.quizHandler.ListQuizzes)
			quizzes.POST("", adminOnly, hm.quizHandler.CreateQuiz)
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.PUT("/:id/visibility", adminOnly, hm.quizHandler.SetVisibility)
			quizzes.DELETE("/:id", adminOnly, hm.quizHandler.DeleteQuiz)
			quizzes.POST("/:id/submissions", hm.submissionHandler.Submit)
		}

		// Grading routes - Admins only
		submissions := authed.Group("/submissions")
		submissions.Use(adminOnly)
		{
			submissions.GET("/ungraded", hm.gradingHandler.ListUngraded)
			if hm.serviceManager.Export() != nil {
				submissions.GET("/export", hm.gradingHandler.ExportScores)
			}
			submissions.GET("/:id/grading", hm.gradingHandler.GetForGrading)
			submissions.POST("/:id/grade", hm.gradingHandler.Grade)
		}

		me := authed.Group("/me")
		{
			me.GET("", hm.userHandler.GetMe)
			me.PUT("", hm.userHandler.UpdateMe)
			me.GET("/scores", hm.submissionHandler.ListScores)
			me.POST("/scores/:id/toggle-visibility", hm.submissionHandler.ToggleScoreVisibility)
		}

		authed.GET("/users", adminOnly, hm.userHandler.ListUsers)
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "quiz-admin-service",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "quiz-admin-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
