package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "yogastudio/internal/pkg/jwt"
	"yogastudio/internal/pkg/response"
)

// Auth validates the Bearer token and stores the caller's identity on the
// context under user_id, user_email and role.
func Auth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			abortUnauthenticated(c, "Missing Authorization header")
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			abortUnauthenticated(c, "Invalid Authorization header")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			abortUnauthenticated(c, "Empty token")
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			abortUnauthenticated(c, "Invalid token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("role", claims.Role)

		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, message string) {
	response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", message)
	c.Abort()
}
