package notestore

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/haierkeys/voice-notes-service/pkg/fileurl"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// LocalFileName is the namespaced durable key for ephemeral notes.
const LocalFileName = "voice-notes-temp.json"

// LocalStore keeps the anonymous session's notes. The in-memory slice is
// authoritative; every mutation rewrites the whole collection to one file,
// and a failed write is logged and swallowed, never surfaced to the caller.
type LocalStore struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
	notes  []*Note

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewLocalStore loads the stored collection from dir. A missing file means
// an empty collection; a corrupt file is logged and treated as empty.
func NewLocalStore(dir string, logger *zap.Logger) *LocalStore {
	s := &LocalStore{
		path:   filepath.Join(dir, LocalFileName),
		logger: logger,
		now:    time.Now,
	}
	s.load()
	return s
}

func (s *LocalStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read local note store, starting empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return
	}
	var notes []*Note
	if err := sonic.Unmarshal(data, &notes); err != nil {
		s.logger.Warn("local note store is corrupt, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return
	}
	s.notes = notes
}

// Reload rereads the collection from the file, dropping in-memory state.
func (s *LocalStore) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = nil
	s.load()
}

// persist writes the whole collection, replacing the file atomically. Write
// failures leave the in-memory collection authoritative.
func (s *LocalStore) persist() {
	data, err := sonic.Marshal(s.notes)
	if err != nil {
		s.logger.Error("failed to encode local note store", zap.Error(err))
		return
	}

	if err := fileurl.CreatePath(s.path, os.ModePerm); err != nil {
		s.logger.Error("failed to create local note store directory",
			zap.String("path", s.path), zap.Error(err))
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		s.logger.Error("failed to write local note store",
			zap.String("path", tmp), zap.Error(err))
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.logger.Error("failed to replace local note store",
			zap.String("path", s.path), zap.Error(err))
	}
}

// List returns the collection in insertion order, newest first.
func (s *LocalStore) List() []*Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Note, len(s.notes))
	for i, n := range s.notes {
		c := *n
		out[i] = &c
	}
	return out
}

// Create generates an ephemeral id and timestamps and prepends the note.
func (s *LocalStore) Create(title, content string) *Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	note := &Note{
		ID:        NewEphemeralID(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.notes = append([]*Note{note}, s.notes...)
	s.persist()

	out := *note
	return &out
}

// Update applies upd to the note with the given id and advances updated_at.
// An absent id is a silent no-op.
func (s *LocalStore) Update(id NoteID, upd *NoteUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notes {
		if n.ID != id {
			continue
		}
		upd.apply(n)
		now := s.now()
		if !now.After(n.UpdatedAt) {
			now = n.UpdatedAt.Add(time.Nanosecond)
		}
		n.UpdatedAt = now
		s.persist()
		return
	}
}

// Delete removes the note with the given id, if present.
func (s *LocalStore) Delete(id NoteID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notes {
		if n.ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			s.persist()
			return
		}
	}
}
