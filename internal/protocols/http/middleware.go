package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"vidhub/internal/core"
	"vidhub/pkg/models"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
	ctxUserIDKey       = "user_id"
	ctxUserKey         = "user"
)

// extractAccessToken reads the credential from the access_token cookie
// first, then the Authorization header.
func extractAccessToken(c *gin.Context) string {
	if token, err := c.Cookie(accessTokenCookie); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// AuthMiddleware requires a valid access token and stores the resolved
// user in the request context.
func AuthMiddleware(authSvc core.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractAccessToken(c)
		if token == "" {
			respondError(c, models.NewUnauthorized("missing access token", models.ErrUnauthorized))
			c.Abort()
			return
		}

		user, err := authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		c.Set(ctxUserIDKey, user.ID)
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the user when a credential is
// present and proceeds anonymously when it is not.
func OptionalAuthMiddleware(authSvc core.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractAccessToken(c)
		if token != "" {
			if user, err := authSvc.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(ctxUserIDKey, user.ID)
				c.Set(ctxUserKey, user)
			}
		}
		c.Next()
	}
}

// GetUserID extracts the authenticated user ID; empty for anonymous
// requests behind OptionalAuthMiddleware.
func GetUserID(c *gin.Context) string {
	if id, ok := c.Get(ctxUserIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// GetUser retrieves the full authenticated user from the context.
func GetUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}

// RateLimitMiddleware applies a process-wide token bucket.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(429, models.APIResponse{
				Success: false,
				Error:   "too many requests",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CORSMiddleware handles cross-origin requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
