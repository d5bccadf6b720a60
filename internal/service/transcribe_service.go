package service

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/haierkeys/voice-notes-service/internal/dto"
	"github.com/haierkeys/voice-notes-service/internal/speech"
	"github.com/haierkeys/voice-notes-service/pkg/code"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

const (
	emptyNoteTitle   = "Empty Note"
	emptyNoteContent = "No speech detected or empty note"

	fallbackTitleLen = 50
)

// TranscribeService turns a base64 audio blob into a titled note payload.
type TranscribeService interface {
	// Process runs transcription then formatting. An empty transcript yields
	// the empty-note payload. A formatting failure degrades to the raw
	// transcript with a truncated title. A transcription failure is fatal.
	Process(ctx context.Context, params *dto.TranscribeRequest) (*dto.TranscribeDTO, error)
}

type transcribeService struct {
	provider speech.Provider
	logger   *zap.Logger
	timeout  time.Duration
}

func NewTranscribeService(provider speech.Provider, logger *zap.Logger, timeout time.Duration) TranscribeService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &transcribeService{
		provider: provider,
		logger:   logger,
		timeout:  timeout,
	}
}

func (s *transcribeService) Process(ctx context.Context, params *dto.TranscribeRequest) (*dto.TranscribeDTO, error) {
	if params.Audio == "" {
		return nil, code.ErrorTranscribeNoAudio
	}

	audio, err := base64.StdEncoding.DecodeString(params.Audio)
	if err != nil {
		s.logger.Warn("audio payload is not valid base64", zap.Error(err))
		return nil, code.ErrorTranscribeFailed
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	transcript, err := s.provider.Transcribe(ctx, audio)
	if err != nil {
		s.logger.Error("transcription failed",
			zap.Int("audio-size", len(audio)),
			zap.Duration("time-cost", time.Since(start)),
			zap.Error(err))
		return nil, code.ErrorTranscribeFailed
	}

	if strings.TrimSpace(transcript) == "" {
		return &dto.TranscribeDTO{
			Title:   emptyNoteTitle,
			Content: emptyNoteContent,
		}, nil
	}

	raw, err := s.provider.Format(ctx, transcript)
	if err != nil {
		s.logger.Warn("formatting failed, falling back to raw transcript",
			zap.Error(err))
		return fallbackNote(transcript), nil
	}

	parsed, err := parseFormatted(raw)
	if err != nil {
		s.logger.Warn("formatter output rejected, falling back to raw transcript",
			zap.String("output", raw),
			zap.Error(err))
		return fallbackNote(transcript), nil
	}

	s.logger.Info("transcription processed",
		zap.Int("audio-size", len(audio)),
		zap.Int("transcript-len", len(transcript)),
		zap.Duration("time-cost", time.Since(start)))
	return parsed, nil
}

// parseFormatted validates the formatter's JSON output.
func parseFormatted(raw string) (*dto.TranscribeDTO, error) {
	var out dto.TranscribeDTO
	if err := sonic.UnmarshalString(raw, &out); err != nil {
		return nil, err
	}
	if out.Title == "" || out.Content == "" {
		return nil, code.ErrorTranscribeFailed.WithDetails("missing required fields in formatter response")
	}
	return &out, nil
}

// fallbackNote builds the degraded payload from the raw transcript: the
// title is the first 50 characters, with an ellipsis only when truncated.
func fallbackNote(transcript string) *dto.TranscribeDTO {
	title := transcript
	if runes := []rune(transcript); len(runes) > fallbackTitleLen {
		title = string(runes[:fallbackTitleLen]) + "..."
	}
	return &dto.TranscribeDTO{
		Title:   title,
		Content: transcript,
	}
}
