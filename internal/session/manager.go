package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/inkwelldev/inkwell/internal/models"
)

// ErrNoSession means the presented token does not map to a live session:
// bad signature, expired, revoked or never issued. Callers treat all of
// these the same way, as anonymous.
var ErrNoSession = errors.New("no active session")

// Manager issues and resolves sessions. A session is a signed token whose
// claims name a session id, plus a store entry binding that id to a user
// id. Both halves must check out for the session to be live.
type Manager struct {
	store  Store
	secret string
	ttl    time.Duration
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		secret: secret,
		ttl:    ttl,
	}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue starts a new session bound to the user and returns the signed
// token. Each login gets a fresh session id.
func (m *Manager) Issue(ctx context.Context, user *models.User) (string, error) {
	sessionID := uuid.New().String()

	if err := m.store.Put(ctx, sessionID, user.SessionKey(), m.ttl); err != nil {
		return "", err
	}

	return signToken(sessionID, user.ID, m.secret, m.ttl)
}

// Resolve maps a token back to the bound user id, or ErrNoSession. The
// store entry must exist and must name the same user as the token claims;
// a revoked session fails here even though the signature is still good.
func (m *Manager) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := parseToken(token, m.secret)
	if err != nil {
		return uuid.Nil, ErrNoSession
	}

	boundID, ok, err := m.store.Get(ctx, claims.SessionID)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok || boundID != claims.UserID.String() {
		return uuid.Nil, ErrNoSession
	}

	return claims.UserID, nil
}

// Revoke ends the session named by the token. Revoking a token that does
// not resolve is a no-op, not an error, so logout is idempotent.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	claims, err := parseToken(token, m.secret)
	if err != nil {
		return nil
	}

	return m.store.Delete(ctx, claims.SessionID)
}
