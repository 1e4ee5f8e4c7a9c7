package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-admin-service/internal/services"
)

const basicAuthRealm = `Basic realm="quiz-admin"`

// BasicAuthMiddleware authenticates HTTP Basic credentials against local accounts
type BasicAuthMiddleware struct {
	users services.UserService
}

func NewBasicAuthMiddleware(users services.UserService) *BasicAuthMiddleware {
	return &BasicAuthMiddleware{users: users}
}

func (bam *BasicAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		email, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", basicAuthRealm)
			abortUnauthorized(c, "credentials required")
			return
		}

		user, err := bam.users.Authenticate(c.Request.Context(), email, password)
		if err != nil && !errors.Is(err, services.ErrUnauthorized) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
			return
		}
		if err != nil {
			c.Header("WWW-Authenticate", basicAuthRealm)
			abortUnauthorized(c, "invalid credentials")
			return
		}

		setIdentity(c, user)
		c.Next()
	}
}
