package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"eblotter/api/internal/config"
	"eblotter/api/internal/models"
	"eblotter/api/internal/security"
	"eblotter/api/internal/service"
)

const actorKey = "actor"

// Auth verifies the bearer token and loads the live account record so
// suspensions apply immediately, not at the next token refresh.
func Auth(cfg *config.AppConfig, auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseAccessToken(tokenStr, cfg.Security.JWTSecret)
		if err != nil {
			code := "invalid_token"
			if errors.Is(err, security.ErrTokenExpired) {
				code = "token_expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code})
			return
		}

		actor, err := auth.ResolveActor(c.Request.Context(), claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account_not_found"})
			return
		}

		if actor.Status == models.AccountSuspended {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account_suspended"})
			return
		}

		c.Set(actorKey, actor)

		c.Next()
	}
}

// Actor retrieves the authenticated account placed by Auth.
func Actor(c *gin.Context) (security.Actor, bool) {
	val, exists := c.Get(actorKey)
	if !exists {
		return security.Actor{}, false
	}
	actor, ok := val.(security.Actor)
	return actor, ok
}
