package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-admin-service/internal/config"
	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/internal/services"
)

// Authenticator produces the middleware that identifies the caller
type Authenticator interface {
	AuthMiddleware() gin.HandlerFunc
}

// CasdoorAuthMiddleware provides authentication using Casdoor SDK
type CasdoorAuthMiddleware struct {
	client *casdoorsdk.Client
	users  services.UserService
	config config.CasdoorConfig
}

// NewCasdoorAuthMiddleware creates a new Casdoor authentication middleware
func NewCasdoorAuthMiddleware(cfg config.CasdoorConfig, users services.UserService) *CasdoorAuthMiddleware {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)

	return &CasdoorAuthMiddleware{
		client: client,
		users:  users,
		config: cfg,
	}
}

// AuthMiddleware validates the bearer token and resolves the local account
func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "authorization header missing or malformed")
			return
		}

		claims, err := cam.client.ParseJwtToken(token)
		if err != nil {
			abortUnauthorized(c, fmt.Sprintf("invalid token: %v", err))
			return
		}

		email := claims.User.Email
		if email == "" {
			abortUnauthorized(c, "token carries no email")
			return
		}

		user, err := cam.users.ResolveExternal(c.Request.Context(), email, isCasdoorAdmin(claims))
		if err != nil {
			abortUnauthorized(c, fmt.Sprintf("failed to resolve user: %v", err))
			return
		}

		setIdentity(c, user)
		c.Next()
	}
}

func isCasdoorAdmin(claims *casdoorsdk.Claims) bool {
	if claims.User.IsAdmin {
		return true
	}
	switch strings.ToLower(claims.User.Type) {
	case "admin", "administrator":
		return true
	}
	return false
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// ===== CONTEXT HELPERS =====

func setIdentity(c *gin.Context, user *models.User) {
	c.Set("user_id", user.ID)
	c.Set("is_admin", user.IsAdmin)
	c.Set("user", user)
}

// GetIdentityFromContext builds the service identity from Gin context
func GetIdentityFromContext(c *gin.Context) (services.Identity, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return services.Identity{}, fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(uint)
	if !ok || id == 0 {
		return services.Identity{}, fmt.Errorf("invalid user ID type in context")
	}

	return services.Identity{UserID: id, IsAdmin: c.GetBool("is_admin")}, nil
}

// RequireAdminMiddleware rejects callers without the admin flag
func RequireAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := GetIdentityFromContext(c)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}
		if !identity.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "admin role required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": message,
	})
	c.Abort()
}
