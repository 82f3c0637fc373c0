package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/auth"
)

const (
	DGMKey           = "dgm"
	AuthHeaderKey    = "Authorization"
	BearerPrefix     = "Bearer "
	AdminTokenHeader = "X-Admin-Token"
)

// TokenParser validates a bearer token.
type TokenParser interface {
	Parse(token string) (auth.Identity, error)
}

// Auth rejects requests without a valid bearer token and stores the DGM name
// under DGMKey for handlers.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if !strings.HasPrefix(header, BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		id, err := parser.Parse(strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix)))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(DGMKey, id.Name)
		c.Next()
	}
}

// AdminToken guards maintenance routes. An empty token disables them.
func AdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin endpoints are disabled"})
			return
		}
		got := c.GetHeader(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin token"})
			return
		}
		c.Next()
	}
}
