package notestore

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/voice-notes-service/internal/client/session"

	"github.com/bytedance/sonic"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGate struct {
	mu       sync.Mutex
	signedIn bool
	events   chan session.Event
}

func newFakeGate(signedIn bool) *fakeGate {
	return &fakeGate{signedIn: signedIn, events: make(chan session.Event, 8)}
}

func (g *fakeGate) SignedIn() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.signedIn
}

func (g *fakeGate) Events() <-chan session.Event { return g.events }

func (g *fakeGate) signIn() {
	g.mu.Lock()
	g.signedIn = true
	g.mu.Unlock()
	g.events <- session.Event{Type: session.EventIdentityAcquired}
}

func (g *fakeGate) signOut() {
	g.mu.Lock()
	g.signedIn = false
	g.mu.Unlock()
	g.events <- session.Event{Type: session.EventIdentityLost}
}

// fakeBackend is an in-memory note API speaking the server's envelope.
type fakeBackend struct {
	mu     sync.Mutex
	nextID int64
	notes  map[int64]*noteWire

	updateCalls int
	deleteCalls int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{nextID: 1, notes: map[int64]*noteWire{}}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/notes", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		list := make([]*noteWire, 0, len(b.notes))
		for _, n := range b.notes {
			list = append(list, n)
		}
		b.mu.Unlock()
		sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
		writeEnvelope(w, noteListWire{List: list})
	})
	mux.HandleFunc("/api/note", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var body struct {
				Title   string `json:"title"`
				Content string `json:"content"`
			}
			if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			b.mu.Lock()
			now := time.Now().UTC()
			n := &noteWire{ID: b.nextID, Title: body.Title, Content: body.Content, CreatedAt: now, UpdatedAt: now}
			b.nextID++
			b.notes[n.ID] = n
			b.mu.Unlock()
			writeEnvelope(w, n)
		case http.MethodPut:
			var body map[string]interface{}
			if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			b.mu.Lock()
			b.updateCalls++
			id := int64(body["id"].(float64))
			n, ok := b.notes[id]
			if !ok {
				b.mu.Unlock()
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			if v, ok := body["title"].(string); ok {
				n.Title = v
			}
			if v, ok := body["content"].(string); ok {
				n.Content = v
			}
			if v, ok := body["is_pinned"].(bool); ok {
				n.IsPinned = v
			}
			if v, ok := body["is_favorited"].(bool); ok {
				n.IsFavorited = v
			}
			n.UpdatedAt = n.UpdatedAt.Add(time.Millisecond)
			b.mu.Unlock()
			writeEnvelope(w, n)
		case http.MethodDelete:
			id, _ := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
			b.mu.Lock()
			b.deleteCalls++
			delete(b.notes, id)
			b.mu.Unlock()
			writeEnvelope(w, nil)
		}
	})
	return mux
}

func writeEnvelope(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(map[string]interface{}{
		"code":   0,
		"status": true,
		"data":   data,
	})
}

func newTestRepository(t *testing.T, gate Gate) (*Repository, *LocalStore, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	local := NewLocalStore(t.TempDir(), zap.NewNop())
	remote := NewRemoteStore(srv.URL, func() string { return "test-token" })
	repo := NewRepository(local, remote, gate, zap.NewNop())
	return repo, local, backend
}

func TestRepositoryAnonymousCreatesLocally(t *testing.T) {
	gate := newFakeGate(false)
	repo, _, backend := newTestRepository(t, gate)
	require.NoError(t, repo.Start(context.Background()))

	note, err := repo.Create(context.Background(), "T", "C")
	require.NoError(t, err)
	assert.True(t, note.ID.IsEphemeral())
	assert.Empty(t, backend.notes)

	list := repo.Notes()
	require.Len(t, list, 1)
	assert.Equal(t, "T", list[0].Title)
}

func TestRepositoryAuthenticatedCreatesRemotely(t *testing.T) {
	gate := newFakeGate(true)
	repo, local, backend := newTestRepository(t, gate)
	require.NoError(t, repo.Start(context.Background()))

	note, err := repo.Create(context.Background(), "T", "C")
	require.NoError(t, err)
	assert.False(t, note.ID.IsEphemeral())
	assert.Len(t, backend.notes, 1)
	assert.Empty(t, local.List())

	key, ok := note.ID.RemoteKey()
	require.True(t, ok)
	assert.Equal(t, "T", backend.notes[key].Title)
}

func TestRepositoryRoutesEphemeralIDsLocallyWhileSignedIn(t *testing.T) {
	gate := newFakeGate(false)
	repo, local, backend := newTestRepository(t, gate)
	require.NoError(t, repo.Start(context.Background()))

	before, err := repo.Create(context.Background(), "before sign-in", "")
	require.NoError(t, err)

	gate.signIn()
	waitAuthenticated(t, repo, true)

	title := "edited after sign-in"
	require.NoError(t, repo.Update(context.Background(), before.ID, &NoteUpdate{Title: &title}))
	assert.Zero(t, backend.updateCalls)
	assert.Equal(t, title, local.List()[0].Title)

	require.NoError(t, repo.Delete(context.Background(), before.ID))
	assert.Zero(t, backend.deleteCalls)
	assert.Empty(t, local.List())
}

func TestRepositoryRoutesPersistentIDsRemotely(t *testing.T) {
	gate := newFakeGate(true)
	repo, _, backend := newTestRepository(t, gate)
	require.NoError(t, repo.Start(context.Background()))

	note, err := repo.Create(context.Background(), "T", "C")
	require.NoError(t, err)

	pinned := true
	require.NoError(t, repo.Update(context.Background(), note.ID, &NoteUpdate{IsPinned: &pinned}))
	assert.Equal(t, 1, backend.updateCalls)
	assert.True(t, repo.Notes()[0].IsPinned)

	require.NoError(t, repo.Delete(context.Background(), note.ID))
	assert.Equal(t, 1, backend.deleteCalls)
	assert.Empty(t, repo.Notes())
}

func TestRepositoryPersistentOpsRequireAuthentication(t *testing.T) {
	gate := newFakeGate(false)
	repo, _, _ := newTestRepository(t, gate)
	require.NoError(t, repo.Start(context.Background()))

	title := "x"
	err := repo.Update(context.Background(), PersistentID(42), &NoteUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	err = repo.Delete(context.Background(), PersistentID(42))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRepositorySignInPreservesEphemeralNotes(t *testing.T) {
	gate := newFakeGate(false)
	repo, local, backend := newTestRepository(t, gate)
	require.NoError(t, repo.Start(context.Background()))

	_, err := repo.Create(context.Background(), "local one", "")
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), "local two", "")
	require.NoError(t, err)

	gate.signIn()
	waitAuthenticated(t, repo, true)

	// ephemeral notes survive and are not migrated to the backend
	assert.Len(t, local.List(), 2)
	assert.Empty(t, backend.notes)

	// new notes now land remotely, alongside the ephemeral ones
	_, err = repo.Create(context.Background(), "remote one", "")
	require.NoError(t, err)
	assert.Len(t, repo.Notes(), 3)
}

func TestRepositorySignInWithFailedReloadStillRoutesRemotely(t *testing.T) {
	gate := newFakeGate(false)
	local := NewLocalStore(t.TempDir(), zap.NewNop())
	// nothing listens on this address
	remote := NewRemoteStore("http://127.0.0.1:1", func() string { return "tok" })
	repo := NewRepository(local, remote, gate, zap.NewNop())
	require.NoError(t, repo.Start(context.Background()))

	gate.signIn()
	waitAuthenticated(t, repo, true)

	// the cache load failed, so a create must surface the remote error
	// instead of quietly falling back to the ephemeral store
	_, err := repo.Create(context.Background(), "T", "C")
	require.Error(t, err)
	assert.Empty(t, local.List())
}

func TestRepositorySignOutDropsPersistentCache(t *testing.T) {
	gate := newFakeGate(true)
	repo, _, _ := newTestRepository(t, gate)
	require.NoError(t, repo.Start(context.Background()))

	_, err := repo.Create(context.Background(), "remote", "")
	require.NoError(t, err)
	require.Len(t, repo.Notes(), 1)

	gate.signOut()
	waitAuthenticated(t, repo, false)

	assert.Empty(t, repo.Notes())
}

func waitAuthenticated(t *testing.T, repo *Repository, want bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.authenticated == want
	}, 2*time.Second, 5*time.Millisecond)
}

func TestRepositorySearch(t *testing.T) {
	gate := newFakeGate(false)
	repo, _, _ := newTestRepository(t, gate)
	require.NoError(t, repo.Start(context.Background()))

	_, err := repo.Create(context.Background(), "Grocery Reminder", "- buy milk\n- eggs")
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), "Meeting Notes", "review roadmap")
	require.NoError(t, err)

	assert.Len(t, repo.Search("MILK"), 1)
	assert.Len(t, repo.Search("notes"), 1)
	assert.Len(t, repo.Search("absent"), 0)
}

func TestSortForDisplayPinnedFirstThenRecency(t *testing.T) {
	base := time.Now()
	notes := []*Note{
		{ID: NewEphemeralID(), Title: "old unpinned", UpdatedAt: base.Add(-3 * time.Hour)},
		{ID: NewEphemeralID(), Title: "old pinned", IsPinned: true, UpdatedAt: base.Add(-2 * time.Hour)},
		{ID: NewEphemeralID(), Title: "new unpinned", UpdatedAt: base},
		{ID: NewEphemeralID(), Title: "new pinned", IsPinned: true, UpdatedAt: base.Add(-time.Hour)},
	}
	SortForDisplay(notes)

	assert.Equal(t, "new pinned", notes[0].Title)
	assert.Equal(t, "old pinned", notes[1].Title)
	assert.Equal(t, "new unpinned", notes[2].Title)
	assert.Equal(t, "old unpinned", notes[3].Title)
}

func TestSortForDisplayProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genNotes := gen.SliceOf(gopter.CombineGens(
		gen.Bool(),
		gen.Int64Range(0, 1_000_000),
	).Map(func(vals []interface{}) *Note {
		return &Note{
			ID:        NewEphemeralID(),
			IsPinned:  vals[0].(bool),
			UpdatedAt: time.Unix(0, vals[1].(int64)),
		}
	}))

	properties.Property("pinned block precedes unpinned, each ordered by recency", prop.ForAll(
		func(notes []*Note) string {
			SortForDisplay(notes)
			for i := 1; i < len(notes); i++ {
				prev, cur := notes[i-1], notes[i]
				if !prev.IsPinned && cur.IsPinned {
					return fmt.Sprintf("pinned note at %d after unpinned", i)
				}
				if prev.IsPinned == cur.IsPinned && cur.UpdatedAt.After(prev.UpdatedAt) {
					return fmt.Sprintf("recency order violated at %d", i)
				}
			}
			return ""
		},
		genNotes,
	))

	properties.TestingRun(t)
}

func TestParseNoteIDRoundTrip(t *testing.T) {
	id, err := ParseNoteID("temp_abc-123")
	require.NoError(t, err)
	assert.True(t, id.IsEphemeral())
	assert.Equal(t, "temp_abc-123", id.String())

	id, err = ParseNoteID("42")
	require.NoError(t, err)
	assert.False(t, id.IsEphemeral())
	key, ok := id.RemoteKey()
	require.True(t, ok)
	assert.Equal(t, int64(42), key)

	for _, bad := range []string{"", "temp_", "note-7"} {
		_, err := ParseNoteID(bad)
		assert.Error(t, err, bad)
	}
}
