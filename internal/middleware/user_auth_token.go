package middleware

import (
	"strings"

	"github.com/haierkeys/voice-notes-service/pkg/app"
	"github.com/haierkeys/voice-notes-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// UserAuthTokenWithConfig authenticates the request with the injected secret.
// The token is accepted from the Authorization header (with or without the
// Bearer prefix), a token header, or the matching query parameters.
func UserAuthTokenWithConfig(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		response := app.NewResponse(c)

		if s := c.GetHeader("Authorization"); len(s) != 0 {
			token = s
		} else if s := c.GetHeader("token"); len(s) != 0 {
			token = s
		} else if s, exist := c.GetQuery("authorization"); exist {
			token = s
		} else if s, exist := c.GetQuery("token"); exist {
			token = s
		}
		token = strings.TrimPrefix(token, "Bearer ")

		if token == "" {
			response.ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		user, err := app.ParseTokenWithKey(token, secretKey)
		if err != nil {
			response.ToResponse(code.ErrorInvalidUserAuthToken)
			c.Abort()
			return
		}
		c.Set("user_token", user)

		c.Next()
	}
}
