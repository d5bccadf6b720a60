package notestore

import (
	"context"
	"strings"
	"sync"

	"github.com/haierkeys/voice-notes-service/internal/client/session"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrNotAuthenticated is returned for persistent-note operations while the
// session is anonymous.
var ErrNotAuthenticated = errors.New("not authenticated")

// Gate is the slice of the session gate the repository depends on.
type Gate interface {
	SignedIn() bool
	Events() <-chan session.Event
}

// Repository is the routing façade over the two stores. While anonymous,
// everything goes to the local store. While authenticated, routing is per
// id: ephemeral ids stay local so notes created before sign-in remain
// editable, everything else goes to the backend.
type Repository struct {
	mu     sync.Mutex
	local  *LocalStore
	remote *RemoteStore
	gate   Gate
	logger *zap.Logger

	authenticated bool
	// cache holds the persistent notes, created_at descending. It changes
	// only on successful remote calls and on session transitions.
	cache []*Note
}

func NewRepository(local *LocalStore, remote *RemoteStore, gate Gate, logger *zap.Logger) *Repository {
	return &Repository{
		local:  local,
		remote: remote,
		gate:   gate,
		logger: logger,
	}
}

// Start resolves the initial state and then follows the gate's events until
// ctx is done. Sign-in replaces the persistent cache and leaves ephemeral
// notes untouched; sign-out drops the cache and rereads the local file.
func (r *Repository) Start(ctx context.Context) error {
	if r.gate.SignedIn() {
		if err := r.handleIdentityAcquired(ctx); err != nil {
			return err
		}
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-r.gate.Events():
				if !ok {
					return
				}
				switch ev.Type {
				case session.EventIdentityAcquired:
					if err := r.handleIdentityAcquired(ctx); err != nil {
						r.logger.Error("failed to load persistent notes after sign-in",
							zap.Error(err))
					}
				case session.EventIdentityLost:
					r.handleIdentityLost()
				}
			}
		}
	}()
	return nil
}

func (r *Repository) handleIdentityAcquired(ctx context.Context) error {
	// the state flips on the transition itself, before the cache load: a
	// failed load leaves an empty cache and loud remote errors, never a
	// signed-in session writing to the local store
	r.mu.Lock()
	r.authenticated = true
	r.cache = nil
	r.mu.Unlock()

	notes, err := r.remote.List(ctx)
	if err != nil {
		return errors.Wrap(err, "list persistent notes")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = notes
	return nil
}

func (r *Repository) handleIdentityLost() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authenticated = false
	r.cache = nil
	r.local.Reload()
}

// Notes returns every visible note: the ephemeral list plus, when
// authenticated, the cached persistent notes.
func (r *Repository) Notes() []*Note {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.local.List()
	for _, n := range r.cache {
		c := *n
		out = append(out, &c)
	}
	return out
}

// Display returns the notes in presentation order: pinned first, then
// updated_at descending.
func (r *Repository) Display() []*Note {
	notes := r.Notes()
	SortForDisplay(notes)
	return notes
}

// Search filters the displayed notes by a case-insensitive title/content
// substring match.
func (r *Repository) Search(query string) []*Note {
	q := strings.ToLower(query)
	var out []*Note
	for _, n := range r.Display() {
		if strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	return out
}

// Recent returns the first n displayed notes.
func (r *Repository) Recent(n int) []*Note {
	notes := r.Display()
	if len(notes) > n {
		notes = notes[:n]
	}
	return notes
}

// Create stores a new note: locally while anonymous, remotely once
// authenticated. On a remote failure the cache is left unchanged.
func (r *Repository) Create(ctx context.Context, title, content string) (*Note, error) {
	r.mu.Lock()
	authenticated := r.authenticated
	r.mu.Unlock()

	if !authenticated {
		return r.local.Create(title, content), nil
	}

	note, err := r.remote.Create(ctx, title, content)
	if err != nil {
		return nil, errors.Wrap(err, "create note")
	}

	r.mu.Lock()
	r.cache = append([]*Note{note}, r.cache...)
	r.mu.Unlock()

	out := *note
	return &out, nil
}

// Update routes a partial update by id. Ephemeral ids always go to the
// local store regardless of session state.
func (r *Repository) Update(ctx context.Context, id NoteID, upd *NoteUpdate) error {
	if id.IsEphemeral() {
		r.local.Update(id, upd)
		return nil
	}

	key, ok := id.RemoteKey()
	if !ok {
		return errors.Errorf("invalid note id %q", id)
	}

	r.mu.Lock()
	authenticated := r.authenticated
	r.mu.Unlock()
	if !authenticated {
		return ErrNotAuthenticated
	}

	note, err := r.remote.Update(ctx, key, upd)
	if err != nil {
		return errors.Wrap(err, "update note")
	}

	r.mu.Lock()
	for i, n := range r.cache {
		if n.ID == id {
			r.cache[i] = note
			break
		}
	}
	r.mu.Unlock()
	return nil
}

// Delete routes a delete by id, mirroring Update's routing.
func (r *Repository) Delete(ctx context.Context, id NoteID) error {
	if id.IsEphemeral() {
		r.local.Delete(id)
		return nil
	}

	key, ok := id.RemoteKey()
	if !ok {
		return errors.Errorf("invalid note id %q", id)
	}

	r.mu.Lock()
	authenticated := r.authenticated
	r.mu.Unlock()
	if !authenticated {
		return ErrNotAuthenticated
	}

	if err := r.remote.Delete(ctx, key); err != nil {
		return errors.Wrap(err, "delete note")
	}

	r.mu.Lock()
	for i, n := range r.cache {
		if n.ID == id {
			r.cache = append(r.cache[:i], r.cache[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
	return nil
}
