package speech

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribe(t *testing.T) {
	var gotModel string
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotModel = r.FormValue("model")

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		blob, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("fake-wav"), blob)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"text": "buy milk and eggs"}`)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(Config{BaseURL: srv.URL + "/v1", APIKey: "sk-test"})

	text, err := p.Transcribe(context.Background(), []byte("fake-wav"))
	require.NoError(t, err)
	assert.Equal(t, "buy milk and eggs", text)
	assert.Equal(t, "whisper-1", gotModel)
	assert.Equal(t, "Bearer sk-test", gotAuth)
}

func TestFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		payload := string(body)
		assert.Contains(t, payload, `"gpt-4.1-nano"`)
		assert.Contains(t, payload, `"json_object"`)
		assert.Contains(t, payload, "buy milk and eggs")

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"{\"title\":\"Grocery Reminder\",\"content\":\"buy milk and eggs\"}"}}]}`)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(Config{BaseURL: srv.URL + "/v1", APIKey: "sk-test"})

	out, err := p.Format(context.Background(), "buy milk and eggs")
	require.NoError(t, err)
	assert.Contains(t, out, "Grocery Reminder")
}

func TestProviderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `{"error":{"message":"upstream down"}}`)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(Config{BaseURL: srv.URL + "/v1"})

	_, err := p.Transcribe(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "502"))

	_, err = p.Format(context.Background(), "hello")
	require.Error(t, err)
}

func TestProviderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		io.WriteString(w, `{"text":"late"}`)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(Config{BaseURL: srv.URL + "/v1", Timeout: 20 * time.Millisecond})

	_, err := p.Transcribe(context.Background(), []byte("x"))
	assert.Error(t, err)
}
