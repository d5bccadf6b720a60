// Package notestore implements the client-side note storage: an ephemeral
// file-backed store for anonymous sessions, a persistent adapter over the
// backend API, and the repository that routes between them.
package notestore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// EphemeralIDPrefix marks ephemeral ids in their serialized form. It exists
// only at the serialization boundary; in-memory routing is done on the
// variant tag.
const EphemeralIDPrefix = "temp_"

type idKind int

const (
	kindZero idKind = iota
	kindEphemeral
	kindPersistent
)

// NoteID identifies a note as either Ephemeral (client-generated, lives in
// the local store) or Persistent (server-assigned, lives in the backend).
type NoteID struct {
	kind      idKind
	localKey  string
	remoteKey int64
}

// NewEphemeralID generates a fresh ephemeral id.
func NewEphemeralID() NoteID {
	return NoteID{kind: kindEphemeral, localKey: uuid.NewString()}
}

// EphemeralID wraps an existing local key.
func EphemeralID(key string) NoteID {
	return NoteID{kind: kindEphemeral, localKey: key}
}

// PersistentID wraps a server-assigned key.
func PersistentID(key int64) NoteID {
	return NoteID{kind: kindPersistent, remoteKey: key}
}

// IsZero reports whether the id is the zero value.
func (id NoteID) IsZero() bool {
	return id.kind == kindZero
}

// IsEphemeral reports whether the id belongs to the local store.
func (id NoteID) IsEphemeral() bool {
	return id.kind == kindEphemeral
}

// RemoteKey returns the server-assigned key, valid only for persistent ids.
func (id NoteID) RemoteKey() (int64, bool) {
	return id.remoteKey, id.kind == kindPersistent
}

// String renders the serialized form: "temp_<key>" for ephemeral ids, the
// decimal key for persistent ones.
func (id NoteID) String() string {
	switch id.kind {
	case kindEphemeral:
		return EphemeralIDPrefix + id.localKey
	case kindPersistent:
		return strconv.FormatInt(id.remoteKey, 10)
	}
	return ""
}

// ParseNoteID parses the serialized form back into the tagged variant.
func ParseNoteID(s string) (NoteID, error) {
	if s == "" {
		return NoteID{}, fmt.Errorf("empty note id")
	}
	if key, ok := strings.CutPrefix(s, EphemeralIDPrefix); ok {
		if key == "" {
			return NoteID{}, fmt.Errorf("empty ephemeral note id")
		}
		return EphemeralID(key), nil
	}
	key, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return NoteID{}, fmt.Errorf("invalid note id %q", s)
	}
	return PersistentID(key), nil
}

// MarshalJSON keeps the prefix convention at the wire/file boundary.
func (id NoteID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(id.String())), nil
}

func (id *NoteID) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	parsed, err := ParseNoteID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
