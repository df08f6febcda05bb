package identity

import (
	"github.com/gin-gonic/gin"

	"github.com/weiawesome/room-lobby/pkg/log"
	"github.com/weiawesome/room-lobby/pkg/response"
)

// Middleware resolves the acting identity of each request and stores it in
// the Gin context and the request logger.
func Middleware(r *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := r.Resolve(c.GetHeader(AuthHeaderKey))
		if err != nil {
			l := log.Ctx(c.Request.Context())
			l.Warn().Err(err).Msg("rejected request identity")
			response.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		c.Set(log.FieldActor, actor)
		c.Request = c.Request.WithContext(log.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// Actor extracts the acting identity from Gin context.
func Actor(c *gin.Context) string {
	return c.GetString(log.FieldActor)
}
