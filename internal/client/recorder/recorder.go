// Package recorder accumulates audio chunks for a single recording session.
package recorder

import (
	"encoding/base64"
	"sync"

	"github.com/pkg/errors"
)

// ErrRecordingActive is returned when Start is called while a recording is
// already in progress.
var ErrRecordingActive = errors.New("a recording is already active")

// ErrNotRecording is returned by Stop and AddChunk outside a session.
var ErrNotRecording = errors.New("no active recording")

// Recorder collects chunks between Start and Stop into one blob. At most
// one session is active at a time.
type Recorder struct {
	mu     sync.Mutex
	active bool
	chunks [][]byte
}

func New() *Recorder {
	return &Recorder{}
}

// Start begins a session; a second Start without Stop fails.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		return ErrRecordingActive
	}
	r.active = true
	r.chunks = nil
	return nil
}

// Active reports whether a session is in progress.
func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// AddChunk appends a captured chunk to the active session.
func (r *Recorder) AddChunk(chunk []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return ErrNotRecording
	}
	c := make([]byte, len(chunk))
	copy(c, chunk)
	r.chunks = append(r.chunks, c)
	return nil
}

// Stop ends the session and returns the accumulated blob.
func (r *Recorder) Stop() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return nil, ErrNotRecording
	}
	r.active = false

	var size int
	for _, c := range r.chunks {
		size += len(c)
	}
	blob := make([]byte, 0, size)
	for _, c := range r.chunks {
		blob = append(blob, c...)
	}
	r.chunks = nil
	return blob, nil
}

// EncodeBase64 serializes a blob for the transcription endpoint.
func EncodeBase64(blob []byte) string {
	return base64.StdEncoding.EncodeToString(blob)
}
