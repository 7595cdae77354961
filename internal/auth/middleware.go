package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"zhilfond/server/internal/models"
)

const contextKey = "authContext"

// AuthContext is attached to the request by the middleware. A nil
// AuthContext in the gin context means the caller is anonymous.
type AuthContext struct {
	UserID    int64
	Role      string
	JTI       string
	ExpiresAt time.Time
}

func (a *AuthContext) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// FromContext returns the resolved caller, or nil for anonymous requests.
func FromContext(c *gin.Context) *AuthContext {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	return v.(*AuthContext)
}

// Middleware resolves the bearer credential once per request and attaches
// the result. It never rejects by itself; the Require* gates do that, so
// public routes can share the same chain.
func Middleware(issuer *TokenIssuer, revoked Revoker, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := issuer.Verify(tokenStr)
		if err != nil {
			logger.WithField("path", c.Request.URL.Path).Debug("Rejected invalid token")
			c.Next()
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// Fail closed: an unreachable store means we cannot prove
				// the token was not revoked, so the caller stays anonymous.
				logger.WithError(err).Error("Revocation store unavailable")
				c.Next()
				return
			}
			if isRevoked {
				c.Next()
				return
			}
		}

		authCtx := &AuthContext{
			UserID: claims.UserID,
			Role:   claims.Role,
			JTI:    claims.ID,
		}
		if claims.ExpiresAt != nil {
			authCtx.ExpiresAt = claims.ExpiresAt.Time
		}
		c.Set(contextKey, authCtx)
		c.Next()
	}
}

// RequireAuth rejects anonymous callers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if FromContext(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects anonymous callers with 401 and authenticated
// non-admins with 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authCtx := FromContext(c)
		if authCtx == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !authCtx.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access only"})
			return
		}
		c.Next()
	}
}
