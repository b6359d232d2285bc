package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/core/service"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

// AuthRequired validates the bearer token and stashes the caller's identity
// on the request context.
func AuthRequired(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing bearer token"})
			return
		}

		claims, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxRole, domain.Role(claims.Role))
		c.Next()
	}
}

// RequireRole allows the request through only for the listed roles.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := callerRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "insufficient role"})
	}
}

func callerID(c *gin.Context) string {
	id, _ := c.Get(ctxUserID)
	s, _ := id.(string)
	return s
}

func callerRole(c *gin.Context) domain.Role {
	r, _ := c.Get(ctxRole)
	role, _ := r.(domain.Role)
	return role
}
