package notestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

const (
	// DefaultCRUDTimeout bounds every note CRUD call.
	DefaultCRUDTimeout = 30 * time.Second
	// DefaultTranscribeTimeout bounds the transcription pipeline call.
	DefaultTranscribeTimeout = 60 * time.Second
)

// TokenFunc supplies the current auth token; empty means anonymous.
type TokenFunc func() string

// RemoteStore is the thin CRUD adapter over the authenticated backend API.
// The backend owns ids, timestamps and ownership enforcement.
type RemoteStore struct {
	baseURL           string
	client            *http.Client
	token             TokenFunc
	crudTimeout       time.Duration
	transcribeTimeout time.Duration
}

// NewRemoteStore builds the adapter. token may be nil for a store that only
// serves the transcription endpoint.
func NewRemoteStore(baseURL string, token TokenFunc) *RemoteStore {
	if token == nil {
		token = func() string { return "" }
	}
	return &RemoteStore{
		baseURL:           strings.TrimSuffix(baseURL, "/"),
		client:            &http.Client{},
		token:             token,
		crudTimeout:       DefaultCRUDTimeout,
		transcribeTimeout: DefaultTranscribeTimeout,
	}
}

// wire shapes of the backend response envelope

type resEnvelope struct {
	Code    int             `json:"code"`
	Status  bool            `json:"status"`
	Message interface{}     `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type noteWire struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	IsPinned    bool      `json:"is_pinned"`
	IsFavorited bool      `json:"is_favorited"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type pagerWire struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	TotalRows int `json:"totalRows"`
}

type noteListWire struct {
	List  []*noteWire `json:"list"`
	Pager pagerWire   `json:"pager"`
}

func fromWire(w *noteWire) *Note {
	return &Note{
		ID:          PersistentID(w.ID),
		Title:       w.Title,
		Content:     w.Content,
		IsPinned:    w.IsPinned,
		IsFavorited: w.IsFavorited,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// listPageSize matches the backend's page-size cap.
const listPageSize = 100

// List fetches the caller's complete note sequence, ordered by created_at
// descending, following the pager across pages.
func (r *RemoteStore) List(ctx context.Context) ([]*Note, error) {
	var out []*Note
	for page := 1; ; page++ {
		data, err := r.call(ctx, http.MethodGet,
			fmt.Sprintf("/api/notes?page=%d&pageSize=%d", page, listPageSize), nil, r.crudTimeout)
		if err != nil {
			return nil, err
		}
		var chunk noteListWire
		if err := sonic.Unmarshal(data, &chunk); err != nil {
			return nil, errors.Wrap(err, "decode note list")
		}
		for _, w := range chunk.List {
			out = append(out, fromWire(w))
		}
		if len(chunk.List) == 0 || len(out) >= chunk.Pager.TotalRows {
			return out, nil
		}
	}
}

// Create stores a note remotely; the server assigns id and timestamps.
func (r *RemoteStore) Create(ctx context.Context, title, content string) (*Note, error) {
	body := map[string]string{"title": title, "content": content}
	data, err := r.call(ctx, http.MethodPost, "/api/note", body, r.crudTimeout)
	if err != nil {
		return nil, err
	}
	var w noteWire
	if err := sonic.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "decode created note")
	}
	return fromWire(&w), nil
}

// Update applies a partial update and returns the note as stored.
func (r *RemoteStore) Update(ctx context.Context, id int64, upd *NoteUpdate) (*Note, error) {
	body := map[string]interface{}{"id": id}
	if upd.Title != nil {
		body["title"] = *upd.Title
	}
	if upd.Content != nil {
		body["content"] = *upd.Content
	}
	if upd.IsPinned != nil {
		body["is_pinned"] = *upd.IsPinned
	}
	if upd.IsFavorited != nil {
		body["is_favorited"] = *upd.IsFavorited
	}

	data, err := r.call(ctx, http.MethodPut, "/api/note", body, r.crudTimeout)
	if err != nil {
		return nil, err
	}
	var w noteWire
	if err := sonic.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "decode updated note")
	}
	return fromWire(&w), nil
}

// Delete removes the note with the given server id.
func (r *RemoteStore) Delete(ctx context.Context, id int64) error {
	_, err := r.call(ctx, http.MethodDelete, "/api/note?id="+strconv.FormatInt(id, 10), nil, r.crudTimeout)
	return err
}

// TranscribePayload is the pipeline endpoint's success response.
type TranscribePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Transcribe submits base64 audio to the pipeline endpoint. Unlike the CRUD
// calls it speaks the raw {title, content} / {error} contract.
func (r *RemoteStore) Transcribe(ctx context.Context, audioBase64 string) (*TranscribePayload, error) {
	ctx, cancel := context.WithTimeout(ctx, r.transcribeTimeout)
	defer cancel()

	encoded, err := sonic.Marshal(map[string]string{"audio": audioBase64})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.baseURL+"/api/transcribe", bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "transcribe request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read transcribe response")
	}

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		if err := sonic.Unmarshal(respBody, &e); err == nil && e.Error != "" {
			return nil, errors.New(e.Error)
		}
		return nil, errors.Errorf("transcribe returned %d", resp.StatusCode)
	}

	var out TranscribePayload
	if err := sonic.Unmarshal(respBody, &out); err != nil {
		return nil, errors.Wrap(err, "decode transcribe response")
	}
	return &out, nil
}

// call performs an enveloped API request and returns the envelope's data.
func (r *RemoteStore) call(ctx context.Context, method, path string, body interface{}, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := sonic.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := r.token(); token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s %s response", method, path)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("%s %s returned %d", method, path, resp.StatusCode)
	}

	var envelope resEnvelope
	if err := sonic.Unmarshal(respBody, &envelope); err != nil {
		return nil, errors.Wrapf(err, "decode %s %s response", method, path)
	}
	if !envelope.Status {
		return nil, fmt.Errorf("%s %s failed: code %d %v", method, path, envelope.Code, envelope.Message)
	}
	return envelope.Data, nil
}
