package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Authorizer decides whether a presented credential grants admin access.
// The shared-secret check lives behind this so a token-based scheme can
// replace it without touching the routes.
type Authorizer interface {
	Authorize(credential string) bool
}

type SharedSecretAuthorizer struct {
	secret []byte
}

func NewSharedSecretAuthorizer(secret string) *SharedSecretAuthorizer {
	return &SharedSecretAuthorizer{secret: []byte(secret)}
}

func (a *SharedSecretAuthorizer) Authorize(credential string) bool {
	if len(a.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(a.secret, []byte(credential)) == 1
}

var _ Authorizer = (*SharedSecretAuthorizer)(nil)

// AdminAuth rejects requests without a matching bearer credential. The 401
// body never says which part of the check failed.
func AdminAuth(auth Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || !auth.Authorize(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
