package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/haierkeys/voice-notes-service/internal/dto"
	"github.com/haierkeys/voice-notes-service/pkg/code"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider scripts the two pipeline stages.
type fakeProvider struct {
	transcript    string
	transcribeErr error
	formatted     string
	formatErr     error

	transcribeCalls int
	formatCalls     int
}

func (f *fakeProvider) Transcribe(ctx context.Context, audio []byte) (string, error) {
	f.transcribeCalls++
	return f.transcript, f.transcribeErr
}

func (f *fakeProvider) Format(ctx context.Context, transcript string) (string, error) {
	f.formatCalls++
	return f.formatted, f.formatErr
}

func audioRequest() *dto.TranscribeRequest {
	return &dto.TranscribeRequest{
		Audio: base64.StdEncoding.EncodeToString([]byte("fake-wav")),
	}
}

func TestProcessHappyPath(t *testing.T) {
	p := &fakeProvider{
		transcript: "buy milk and eggs",
		formatted:  `{"title":"Grocery Reminder","content":"## Things to pick up\n\nbuy milk and eggs"}`,
	}
	svc := NewTranscribeService(p, zap.NewNop(), time.Minute)

	out, err := svc.Process(context.Background(), audioRequest())
	require.NoError(t, err)
	assert.Equal(t, "Grocery Reminder", out.Title)
	assert.Contains(t, out.Content, "buy milk and eggs")
	assert.Equal(t, 1, p.transcribeCalls)
	assert.Equal(t, 1, p.formatCalls)
}

func TestProcessEmptyTranscriptSentinel(t *testing.T) {
	for _, transcript := range []string{"", "   ", "\n\t  "} {
		p := &fakeProvider{transcript: transcript}
		svc := NewTranscribeService(p, zap.NewNop(), time.Minute)

		out, err := svc.Process(context.Background(), audioRequest())
		require.NoError(t, err)
		assert.Equal(t, "Empty Note", out.Title)
		assert.Equal(t, "No speech detected or empty note", out.Content)
		// formatting never runs for empty speech
		assert.Equal(t, 0, p.formatCalls)
	}
}

func TestProcessTranscribeFailureIsFatal(t *testing.T) {
	p := &fakeProvider{transcribeErr: errors.New("upstream down")}
	svc := NewTranscribeService(p, zap.NewNop(), time.Minute)

	out, err := svc.Process(context.Background(), audioRequest())
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, code.ErrorTranscribeFailed.Code(), err.(*code.Code).Code())
	// no retry, no formatting attempt
	assert.Equal(t, 1, p.transcribeCalls)
	assert.Equal(t, 0, p.formatCalls)
}

func TestProcessFormatFailureDegrades(t *testing.T) {
	cases := map[string]*fakeProvider{
		"request error":  {transcript: "hello world", formatErr: errors.New("timeout")},
		"invalid json":   {transcript: "hello world", formatted: "not json at all"},
		"missing title":  {transcript: "hello world", formatted: `{"content":"x"}`},
		"missing fields": {transcript: "hello world", formatted: `{}`},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			svc := NewTranscribeService(p, zap.NewNop(), time.Minute)

			out, err := svc.Process(context.Background(), audioRequest())
			require.NoError(t, err)
			assert.Equal(t, "hello world", out.Title)
			assert.Equal(t, "hello world", out.Content)
		})
	}
}

func TestProcessMissingAudio(t *testing.T) {
	svc := NewTranscribeService(&fakeProvider{}, zap.NewNop(), time.Minute)

	_, err := svc.Process(context.Background(), &dto.TranscribeRequest{})
	require.Error(t, err)
	assert.Equal(t, code.ErrorTranscribeNoAudio.Code(), err.(*code.Code).Code())
}

func TestProcessInvalidBase64(t *testing.T) {
	svc := NewTranscribeService(&fakeProvider{}, zap.NewNop(), time.Minute)

	_, err := svc.Process(context.Background(), &dto.TranscribeRequest{Audio: "%%%not-base64%%%"})
	require.Error(t, err)
	assert.Equal(t, code.ErrorTranscribeFailed.Code(), err.(*code.Code).Code())
}

func TestPropertyFallbackTitleTruncation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("fallback keeps raw content and truncates title iff longer than 50", prop.ForAll(
		func(transcript string) bool {
			if strings.TrimSpace(transcript) == "" {
				return true
			}
			out := fallbackNote(transcript)

			if out.Content != transcript {
				return false
			}

			runes := []rune(transcript)
			if len(runes) > 50 {
				return out.Title == string(runes[:50])+"..."
			}
			return out.Title == transcript
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
