// Package session wraps the backend's authentication into an injectable
// identity gate for the client.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/haierkeys/voice-notes-service/pkg/fileurl"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// TokenFileName stores the session token between runs.
const TokenFileName = "session-token"

// errSessionRejected marks calls the backend itself refused, as opposed to
// transport failures that say nothing about the token's validity.
var errSessionRejected = errors.New("session rejected by backend")

// EventType is a session transition kind.
type EventType int

const (
	// EventIdentityAcquired fires on a successful sign-in or sign-up.
	EventIdentityAcquired EventType = iota
	// EventIdentityLost fires on sign-out.
	EventIdentityLost
)

// Event is delivered to subscribers on every session transition.
type Event struct {
	Type EventType
}

// Identity describes the signed-in account.
type Identity struct {
	UID      int64
	Email    string
	Nickname string
}

// Gate tracks the session state. Resolve must complete once before the
// client proceeds; afterwards SignIn/SignUp/SignOut drive the transitions
// and every transition is emitted on the Events channel.
type Gate struct {
	baseURL   string
	client    *http.Client
	tokenPath string
	logger    *zap.Logger

	mu       sync.Mutex
	token    string
	identity *Identity
	resolved bool

	resolveOnce sync.Once
	events      chan Event
}

func NewGate(baseURL, stateDir string, logger *zap.Logger) *Gate {
	return &Gate{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		client:    &http.Client{Timeout: 30 * time.Second},
		tokenPath: filepath.Join(stateDir, TokenFileName),
		logger:    logger,
		events:    make(chan Event, 8),
	}
}

// Resolve performs the cold-boot session check exactly once: a stored token
// is validated against the backend and dropped when stale. Repeated calls
// return immediately.
func (g *Gate) Resolve(ctx context.Context) {
	g.resolveOnce.Do(func() {
		defer func() {
			g.mu.Lock()
			g.resolved = true
			g.mu.Unlock()
		}()

		data, readErr := os.ReadFile(g.tokenPath)
		if readErr != nil {
			if !os.IsNotExist(readErr) {
				g.logger.Warn("failed to read session token", zap.Error(readErr))
			}
			return
		}
		token := strings.TrimSpace(string(data))
		if token == "" {
			return
		}

		identity, infoErr := g.fetchIdentity(ctx, token)
		if infoErr != nil {
			// only an explicit rejection invalidates the token; a transport
			// failure keeps it for the next run and resolves as anonymous
			if errors.Is(infoErr, errSessionRejected) {
				g.logger.Info("stored session is no longer valid", zap.Error(infoErr))
				_ = os.Remove(g.tokenPath)
			} else {
				g.logger.Warn("session check failed, continuing anonymously",
					zap.Error(infoErr))
			}
			return
		}

		g.mu.Lock()
		g.token = token
		g.identity = identity
		g.mu.Unlock()
	})
}

// Resolved reports whether the cold-boot check has completed.
func (g *Gate) Resolved() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolved
}

// SignedIn reports whether an identity is present.
func (g *Gate) SignedIn() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.identity != nil
}

// Identity returns the current identity, or nil while anonymous.
func (g *Gate) Identity() *Identity {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.identity == nil {
		return nil
	}
	c := *g.identity
	return &c
}

// Token returns the current auth token, empty while anonymous.
func (g *Gate) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

// Events exposes the transition stream.
func (g *Gate) Events() <-chan Event {
	return g.events
}

// SignIn exchanges credentials for a token and acquires the identity.
func (g *Gate) SignIn(ctx context.Context, email, password string) error {
	return g.authenticate(ctx, "/api/user/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// SignUp registers a new account and acquires the identity.
func (g *Gate) SignUp(ctx context.Context, email, password, nickname string) error {
	return g.authenticate(ctx, "/api/user/register", map[string]string{
		"email":    email,
		"password": password,
		"nickname": nickname,
	})
}

// SignOut drops the identity and the stored token.
func (g *Gate) SignOut() {
	g.mu.Lock()
	wasSignedIn := g.identity != nil
	g.token = ""
	g.identity = nil
	g.mu.Unlock()

	if err := os.Remove(g.tokenPath); err != nil && !os.IsNotExist(err) {
		g.logger.Warn("failed to remove session token", zap.Error(err))
	}

	if wasSignedIn {
		g.emit(Event{Type: EventIdentityLost})
	}
}

type userWire struct {
	UID      int64  `json:"uid"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Token    string `json:"token"`
}

type resEnvelope struct {
	Code    int             `json:"code"`
	Status  bool            `json:"status"`
	Message interface{}     `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (g *Gate) authenticate(ctx context.Context, path string, body map[string]string) error {
	data, err := g.call(ctx, http.MethodPost, path, body, "")
	if err != nil {
		return err
	}

	var user userWire
	if err := sonic.Unmarshal(data, &user); err != nil {
		return errors.Wrap(err, "decode user response")
	}
	if user.Token == "" {
		return errors.New("backend returned no token")
	}

	if err := fileurl.CreatePath(g.tokenPath, os.ModePerm); err != nil {
		g.logger.Warn("failed to create session state directory", zap.Error(err))
	} else if err := os.WriteFile(g.tokenPath, []byte(user.Token), 0600); err != nil {
		g.logger.Warn("failed to store session token", zap.Error(err))
	}

	g.mu.Lock()
	g.token = user.Token
	g.identity = &Identity{UID: user.UID, Email: user.Email, Nickname: user.Nickname}
	g.mu.Unlock()

	g.emit(Event{Type: EventIdentityAcquired})
	return nil
}

func (g *Gate) fetchIdentity(ctx context.Context, token string) (*Identity, error) {
	data, err := g.call(ctx, http.MethodGet, "/api/user/info", nil, token)
	if err != nil {
		return nil, err
	}
	var user userWire
	if err := sonic.Unmarshal(data, &user); err != nil {
		return nil, errors.Wrap(err, "decode user info")
	}
	return &Identity{UID: user.UID, Email: user.Email, Nickname: user.Nickname}, nil
}

func (g *Gate) call(ctx context.Context, method, path string, body map[string]string, token string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := sonic.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("%s %s returned %d", method, path, resp.StatusCode)
	}

	var envelope resEnvelope
	if err := sonic.Unmarshal(respBody, &envelope); err != nil {
		return nil, errors.Wrapf(err, "decode %s %s response", method, path)
	}
	if !envelope.Status {
		return nil, errors.Wrapf(errSessionRejected, "%s %s failed: code %d %v", method, path, envelope.Code, envelope.Message)
	}
	return envelope.Data, nil
}

// emit never blocks the caller. When the channel is full the oldest queued
// transition is discarded so the latest state always gets through.
func (g *Gate) emit(ev Event) {
	for {
		select {
		case g.events <- ev:
			return
		default:
		}
		select {
		case stale := <-g.events:
			g.logger.Warn("session event superseded before delivery",
				zap.Int("type", int(stale.Type)))
		default:
		}
	}
}
