package middleware

import (
	"context"
	"net/http"
	"strings"

	"devhub/internal/config"
	"devhub/internal/core/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const actorKey = "actor"

// ActorResolver is what the middleware needs from the user service.
type ActorResolver interface {
	ParseToken(raw string) (user.IdentityClaim, error)
	ResolveActor(ctx context.Context, claim user.IdentityClaim) (user.Actor, error)
}

// ActorMiddleware resolves the caller once per request and stores it in the context.
// A missing or invalid bearer token is not an error: the caller is anonymous.
func ActorMiddleware(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := user.Anonymous

		if raw := bearerToken(c.GetHeader("Authorization")); raw != "" {
			claim, err := resolver.ParseToken(raw)
			if err != nil {
				config.Logger.Debug("ignoring invalid bearer token", zap.Error(err))
			} else {
				actor, err = resolver.ResolveActor(c.Request.Context(), claim)
				if err != nil {
					config.Logger.Error("actor resolution failed", zap.Error(err))
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
					return
				}
			}
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireActor rejects anonymous callers with 401.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ActorFrom(c).IsAnonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// ActorFrom returns the resolved actor, or Anonymous when the middleware did not run.
func ActorFrom(c *gin.Context) user.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(user.Actor); ok {
			return actor
		}
	}
	return user.Anonymous
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
