package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bloom/internal/pkg/ctxutil"
	"bloom/internal/pkg/jwt"
)

// AdminAuth validates the Bearer token on admin routes and injects the
// admin id into the request context.
func AdminAuth(jwtUtil *jwt.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40101,
				"message": "Authorization required",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40101,
				"message": "Invalid authorization header",
			})
			c.Abort()
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40102,
				"message": "Token invalid or expired",
			})
			c.Abort()
			return
		}

		ctx := ctxutil.WithAdminID(c.Request.Context(), claims.AdminID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
