// Package client wires the session gate, the note repository and the
// recorder into the voice note pipeline.
package client

import (
	"context"
	"sync/atomic"

	"github.com/haierkeys/voice-notes-service/internal/client/notestore"
	"github.com/haierkeys/voice-notes-service/internal/client/recorder"
	"github.com/haierkeys/voice-notes-service/internal/client/session"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrPipelineBusy is returned when a pipeline invocation is requested while
// one is still in flight.
var ErrPipelineBusy = errors.New("a recording is still being processed")

// SignInPrompt is shown after saving a note while anonymous.
const SignInPrompt = "Sign in to save your notes permanently"

// Transcriber is the pipeline's remote stage, satisfied by the remote store.
type Transcriber interface {
	Transcribe(ctx context.Context, audioBase64 string) (*notestore.TranscribePayload, error)
}

// Client drives the capture, transcription and storage of voice notes.
type Client struct {
	gate        *session.Gate
	repo        *notestore.Repository
	recorder    *recorder.Recorder
	transcriber Transcriber
	logger      *zap.Logger

	inFlight atomic.Bool
}

// New builds the client. Resolve the gate and Start the repository before
// invoking the pipeline.
func New(gate *session.Gate, repo *notestore.Repository, rec *recorder.Recorder, transcriber Transcriber, logger *zap.Logger) *Client {
	return &Client{
		gate:        gate,
		repo:        repo,
		recorder:    rec,
		transcriber: transcriber,
		logger:      logger,
	}
}

// Bootstrap runs the cold-boot sequence: the session check resolves exactly
// once, then the repository takes its initial state from the gate.
func (c *Client) Bootstrap(ctx context.Context) error {
	c.gate.Resolve(ctx)
	return c.repo.Start(ctx)
}

// Repository exposes the note repository for listing and editing.
func (c *Client) Repository() *notestore.Repository {
	return c.repo
}

// Recorder exposes the capture component.
func (c *Client) Recorder() *recorder.Recorder {
	return c.recorder
}

// Gate exposes the session gate.
func (c *Client) Gate() *session.Gate {
	return c.gate
}

// ProcessResult is the outcome of one pipeline invocation.
type ProcessResult struct {
	Note *notestore.Note
	// Prompt carries the sign-in hint after an anonymous save.
	Prompt string
}

// ProcessRecording runs the strictly sequential pipeline on a captured
// blob: encode, transcribe remotely, store through the repository. Only one
// invocation may be in flight; there are no retries.
func (c *Client) ProcessRecording(ctx context.Context, blob []byte) (*ProcessResult, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrPipelineBusy
	}
	defer c.inFlight.Store(false)

	encoded := recorder.EncodeBase64(blob)

	payload, err := c.transcriber.Transcribe(ctx, encoded)
	if err != nil {
		c.logger.Error("transcription pipeline failed",
			zap.Int("blob-size", len(blob)),
			zap.Error(err))
		return nil, errors.Wrap(err, "processing failed")
	}

	note, err := c.repo.Create(ctx, payload.Title, payload.Content)
	if err != nil {
		return nil, err
	}

	result := &ProcessResult{Note: note}
	if !c.gate.SignedIn() {
		result.Prompt = SignInPrompt
	}
	return result, nil
}

// RecordAndProcess stops the active recording and pushes the blob through
// the pipeline.
func (c *Client) RecordAndProcess(ctx context.Context) (*ProcessResult, error) {
	blob, err := c.recorder.Stop()
	if err != nil {
		return nil, err
	}
	return c.ProcessRecording(ctx, blob)
}
