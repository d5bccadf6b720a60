package api_router

import (
	"net/http"

	"github.com/haierkeys/voice-notes-service/internal/app"
	"github.com/haierkeys/voice-notes-service/internal/dto"
	"github.com/haierkeys/voice-notes-service/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TranscribeHandler serves the voice pipeline endpoint. Unlike the rest of
// the API it speaks the raw {title, content} / {error} contract, with plain
// HTTP status codes, so clients can consume it without the envelope.
type TranscribeHandler struct {
	*Handler
}

func NewTranscribeHandler(a *app.App) *TranscribeHandler {
	return &TranscribeHandler{Handler: NewHandler(a)}
}

// Process handles POST /api/transcribe.
func (h *TranscribeHandler) Process(c *gin.Context) {
	params := &dto.TranscribeRequest{}

	if err := c.ShouldBindJSON(params); err != nil || params.Audio == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": code.ErrorTranscribeNoAudio.Msg()})
		return
	}

	ctx := c.Request.Context()
	out, err := h.App.TranscribeService.Process(ctx, params)
	if err != nil {
		h.App.Logger().Error("TranscribeHandler.Process",
			zap.Int("audio-len", len(params.Audio)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": code.ErrorTranscribeFailed.Msg()})
		return
	}

	c.JSON(http.StatusOK, out)
}
