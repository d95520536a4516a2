package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/config"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	redisclient "github.com/angelmondragon/autocenter-backend/pkg/redis"
	"github.com/google/uuid"
)

const (
	refreshTokenBytes = 32
	tokenSeparator    = "."
)

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	AccessSessionKey(accessID string) string
}

// Session identifies the actor behind an access token id.
type Session struct {
	AccessID string
	ActorID  uuid.UUID
	Role     enums.ActorRole
}

type record struct {
	SecretHash string          `json:"h"`
	ActorID    uuid.UUID       `json:"a"`
	Role       enums.ActorRole `json:"r"`
}

// Manager handles refresh token creation, storage, and rotation. Refresh
// tokens have the form "<access id>.<secret>" and only the secret's hash is
// persisted.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	if accessTTL := cfg.AccessTokenTTL(); ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}
	return &Manager{store: client, keyer: client, ttl: ttl}, nil
}

// Generate stores a new session and returns its refresh token.
func (m *Manager) Generate(ctx context.Context, sess Session) (string, error) {
	if strings.TrimSpace(sess.AccessID) == "" {
		return "", fmt.Errorf("access id is required")
	}
	if sess.ActorID == uuid.Nil || !sess.Role.IsValid() {
		return "", fmt.Errorf("session actor is required")
	}
	secret, err := generateSecret()
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(record{SecretHash: hashSecret(secret), ActorID: sess.ActorID, Role: sess.Role})
	if err != nil {
		return "", err
	}
	if err := m.store.Set(ctx, m.keyer.AccessSessionKey(sess.AccessID), string(payload), m.ttl); err != nil {
		return "", err
	}
	return sess.AccessID + tokenSeparator + secret, nil
}

// Rotate validates the refresh token, drops the old session and creates a
// new one for the same actor. It returns the new session and refresh token.
func (m *Manager) Rotate(ctx context.Context, refreshToken string) (Session, string, error) {
	old, err := m.resolve(ctx, refreshToken)
	if err != nil {
		return Session{}, "", err
	}

	next := Session{AccessID: NewAccessID(), ActorID: old.ActorID, Role: old.Role}
	token, err := m.Generate(ctx, next)
	if err != nil {
		return Session{}, "", err
	}
	if err := m.store.Del(ctx, m.keyer.AccessSessionKey(old.AccessID)); err != nil {
		return Session{}, "", err
	}
	return next, token, nil
}

// Revoke deletes the refresh mapping tied to the access identifier.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.keyer.AccessSessionKey(accessID))
}

// HasSession reports whether the provided access ID still has an active refresh session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID)); err != nil {
		if redisclient.IsMiss(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewAccessID produces a stable identifier used as the JWT jti/Redis key.
func NewAccessID() string {
	return uuid.NewString()
}

func (m *Manager) resolve(ctx context.Context, refreshToken string) (Session, error) {
	accessID, secret, ok := strings.Cut(strings.TrimSpace(refreshToken), tokenSeparator)
	if !ok || accessID == "" || secret == "" {
		return Session{}, ErrInvalidRefreshToken
	}
	raw, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID))
	if err != nil {
		if redisclient.IsMiss(err) {
			return Session{}, ErrInvalidRefreshToken
		}
		return Session{}, err
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Session{}, ErrInvalidRefreshToken
	}
	if subtle.ConstantTimeCompare([]byte(rec.SecretHash), []byte(hashSecret(secret))) != 1 {
		return Session{}, ErrInvalidRefreshToken
	}
	return Session{AccessID: accessID, ActorID: rec.ActorID, Role: rec.Role}, nil
}

func generateSecret() (string, error) {
	bytes := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
