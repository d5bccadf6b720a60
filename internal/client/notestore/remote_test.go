package notestore

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteStoreTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/transcribe", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Grocery Reminder","content":"- buy milk\n- eggs"}`))
	}))
	defer srv.Close()

	store := NewRemoteStore(srv.URL, nil)
	out, err := store.Transcribe(context.Background(), "aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "Grocery Reminder", out.Title)
	assert.Equal(t, "- buy milk\n- eggs", out.Content)
}

func TestRemoteStoreTranscribeSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to process audio"}`))
	}))
	defer srv.Close()

	store := NewRemoteStore(srv.URL, nil)
	_, err := store.Transcribe(context.Background(), "aGVsbG8=")
	require.Error(t, err)
	assert.EqualError(t, err, "Failed to process audio")
}

func TestRemoteStoreRejectsFailedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":27,"status":false,"message":"Note Not Found"}`))
	}))
	defer srv.Close()

	store := NewRemoteStore(srv.URL, func() string { return "tok" })
	_, err := store.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Note Not Found")
}

func TestRemoteStoreListFollowsPager(t *testing.T) {
	const total = 250

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notes", r.URL.Path)
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, err)
		pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
		require.NoError(t, err)

		start := (page - 1) * pageSize
		end := start + pageSize
		if end > total {
			end = total
		}

		var rows []string
		for i := start; i < end; i++ {
			// created_at descending means ids count down
			rows = append(rows, fmt.Sprintf(
				`{"id":%d,"title":"note %d","content":"","is_pinned":false,"is_favorited":false,"created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"}`,
				total-i, total-i))
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w,
			`{"code":0,"status":true,"data":{"list":[%s],"pager":{"page":%d,"pageSize":%d,"totalRows":%d}}}`,
			strings.Join(rows, ","), page, pageSize, total)
	}))
	defer srv.Close()

	store := NewRemoteStore(srv.URL, func() string { return "tok" })
	notes, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, total)

	key, ok := notes[0].ID.RemoteKey()
	require.True(t, ok)
	assert.Equal(t, int64(total), key)
	key, ok = notes[total-1].ID.RemoteKey()
	require.True(t, ok)
	assert.Equal(t, int64(1), key)
}

func TestRemoteStoreSendsAuthToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":0,"status":true,"data":{"list":[]}}`))
	}))
	defer srv.Close()

	store := NewRemoteStore(srv.URL, func() string { return "tok-123" })
	notes, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.Equal(t, "tok-123", gotAuth)
}
