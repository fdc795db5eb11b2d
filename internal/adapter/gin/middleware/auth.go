package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-service/internal/domain/user"
	"library-service/pkg/logger"
	"library-service/pkg/security"
)

// actorKey is the gin context key the authenticated actor is stored under.
const actorKey = "actor"

// Authenticate verifies the Bearer token on the request and attaches
// the caller's identity as an Actor. The role comes straight from the
// token claims, which in turn carry the stored role verbatim; nothing
// here may widen it.
func Authenticate(tokens *security.TokenManager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "missing authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authorization header must be 'Bearer <token>'",
			})
			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			log.Warn("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid or expired token",
			})
			return
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			log.Warn("token subject is not a user id", zap.String("subject", claims.Subject))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid or expired token",
			})
			return
		}

		role := user.Role(claims.Role)
		if !role.Valid() {
			role = user.RoleUser
		}

		c.Set(actorKey, user.Actor{ID: userID, Role: role})

		// Propagate the user id into the request context for log correlation.
		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// WithActor attaches a fixed actor to every request. It stands in for
// Authenticate on routes built in tests.
func WithActor(actor user.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFromContext returns the authenticated actor attached by
// Authenticate. The second return is false when the middleware did not
// run on this route.
func ActorFromContext(c *gin.Context) (user.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return user.Actor{}, false
	}
	actor, ok := v.(user.Actor)
	return actor, ok
}

// RequireAdmin gates a route group to admin actors. It must run after
// Authenticate.
func RequireAdmin(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authentication required",
			})
			return
		}
		if !actor.IsAdmin() {
			log.Warn("admin route denied", zap.Int64("user_id", actor.ID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "admin access required",
			})
			return
		}
		c.Next()
	}
}
