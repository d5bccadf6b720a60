package middleware

import (
	"github.com/haierkeys/voice-notes-service/pkg/app"
	"github.com/haierkeys/voice-notes-service/pkg/code"
	"github.com/haierkeys/voice-notes-service/pkg/limiter"

	"github.com/gin-gonic/gin"
)

func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := l.Key(c)
		if bucket, ok := l.GetBucket(key); ok {
			count := bucket.TakeAvailable(1)
			if count == 0 {
				app.NewResponse(c).ToResponse(code.ErrorTooManyRequests)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
