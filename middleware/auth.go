package middleware

import (
	"strings"

	"github.com/NomadCrew/portfolio-backend/errors"
	"github.com/NomadCrew/portfolio-backend/internal/auth"
	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/gin-gonic/gin"
)

// OperatorAuth requires a valid operator bearer token signed with secret.
func OperatorAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			_ = c.Error(errors.AuthenticationFailed("Authorization token required"))
			c.Abort()
			return
		}

		claims, err := auth.ValidateOperatorToken(strings.TrimSpace(token), secret)
		if err != nil {
			logger.GetLogger().Warnw("Rejected operator token",
				"token", logger.MaskJWT(token),
				"client_ip", c.ClientIP())
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(string(OperatorKey), claims.Subject)
		c.Next()
	}
}
