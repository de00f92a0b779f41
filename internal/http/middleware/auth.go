package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"planie.app/api/common/logger"
	"planie.app/api/internal/auth"
)

const identityKey = "identity"

// RequireIdentity rejects requests the resolver cannot authenticate with 401
// and stores the identity on both the gin and request contexts.
func RequireIdentity(resolver auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := resolver.Resolve(c.Request)
		if err != nil {
			slog.DebugContext(c.Request.Context(), "request not authenticated", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
				"code":  "unauthenticated",
			})
			return
		}

		ctx := auth.WithIdentity(c.Request.Context(), identity)
		ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: &identity.UserID})
		c.Request = c.Request.WithContext(ctx)
		c.Set(identityKey, identity)

		c.Next()
	}
}

// GetIdentity returns the identity stored by RequireIdentity.
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(auth.Identity); ok {
			return identity, true
		}
	}
	return auth.IdentityFromContext(c.Request.Context())
}
