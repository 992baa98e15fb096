package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinigo/agenda-api/internal/model"
	authService "github.com/clinigo/agenda-api/internal/service/auth"
)

const ContextCaller = "caller"

type AuthMiddleware struct {
	authService *authService.Service
}

func NewAuthMiddleware(svc *authService.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: svc}
}

// Authenticate verifies the JWT token and sets the caller identity in the
// request context. Every agenda operation reads the caller from here.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid authorization format"})
			return
		}

		claims, err := m.authService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid token"})
			return
		}

		c.Set(ContextCaller, claims.Caller())
		c.Next()
	}
}

// RequireAdministrative rejects clinical-tier callers, for management
// endpoints like practitioner CRUD.
func (m *AuthMiddleware) RequireAdministrative() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFromContext(c)
		if !ok || !caller.Role.IsAdministrative() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "message": "administrative role required"})
			return
		}
		c.Next()
	}
}

// CallerFromContext returns the authenticated caller set by Authenticate.
func CallerFromContext(c *gin.Context) (model.Caller, bool) {
	v, ok := c.Get(ContextCaller)
	if !ok {
		return model.Caller{}, false
	}
	caller, ok := v.(model.Caller)
	return caller, ok
}
