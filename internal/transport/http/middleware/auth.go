package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kanatbekov/ticket-booking/internal/token"
)

const (
	errTokenMissing = "Authentication token is not provided."
	errTokenInvalid = "Authentication token is not valid."
)

// Auth validates the bearer token and sets "userID" and "userEmail" in
// the gin context. The Authorization header carries the raw signed token
// verbatim, no "Bearer " prefix — that is the API's wire contract.
func Auth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": errTokenMissing})
			return
		}

		claims, err := tokens.VerifyAccess(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": errTokenInvalid})
			return
		}

		c.Set("userID", claims.Subject)
		c.Set("userEmail", claims.Email)
		c.Next()
	}
}
