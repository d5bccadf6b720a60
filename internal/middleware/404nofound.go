package middleware

import (
	"github.com/haierkeys/voice-notes-service/pkg/app"
	"github.com/haierkeys/voice-notes-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound handles unmatched routes.
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)
		response.ToResponse(code.ErrorNotFoundAPI)
		c.Abort()
	}
}
