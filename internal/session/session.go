// Package session keeps the server-side half of a login. The client holds a
// signed token naming the session; the store decides whether it is still live.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/utils"
)

var (
	// ErrNotFound is returned for unknown, destroyed and expired sessions.
	ErrNotFound = errors.New("session not found")
	// ErrInvalidToken is returned when a token fails signature or claim checks.
	ErrInvalidToken = errors.New("invalid session token")
)

type Store interface {
	Create(ctx context.Context, s *models.Session) error
	Lookup(ctx context.Context, id string) (*models.Session, error)
	Destroy(ctx context.Context, id string) error
}

type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Start opens a session for userID and returns the signed token naming it.
func (m *Manager) Start(ctx context.Context, userID uuid.UUID) (string, *models.Session, error) {
	id, err := utils.GenerateSessionID()
	if err != nil {
		return "", nil, fmt.Errorf("generate session id: %w", err)
	}

	now := m.now()
	s := &models.Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Create(ctx, s); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	token, err := utils.GenerateSessionToken(m.secret, s.ID, userID, now, s.ExpiresAt)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, s, nil
}

// Resolve returns the user id a live token belongs to.
func (m *Manager) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := utils.ValidateSessionToken(m.secret, token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	s, err := m.store.Lookup(ctx, claims.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if s.Expired(m.now()) {
		return uuid.Nil, ErrNotFound
	}
	if s.UserID.String() != claims.Subject {
		return uuid.Nil, ErrInvalidToken
	}
	return s.UserID, nil
}

// End destroys the session named by token. Unknown sessions are not an error.
func (m *Manager) End(ctx context.Context, token string) error {
	claims, err := utils.ValidateSessionToken(m.secret, token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return m.store.Destroy(ctx, claims.ID)
}
