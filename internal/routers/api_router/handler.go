// Package api_router provides the HTTP API route handlers.
package api_router

import (
	"context"

	"github.com/haierkeys/voice-notes-service/internal/app"
	"github.com/haierkeys/voice-notes-service/internal/middleware"

	"go.uber.org/zap"
)

// Handler is the base handler every API handler embeds to reach the
// application container.
type Handler struct {
	App *app.App
}

func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// logError logs a handler failure with its trace id.
func (h *Handler) logError(ctx context.Context, scope string, err error) {
	h.App.Logger().Error(scope,
		zap.String("trace-id", middleware.GetTraceID(ctx)),
		zap.Error(err))
}
