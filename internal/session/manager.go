// Package session decides which conversation a message belongs to.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/miru4128/gaayatri-project/internal/animalctx"
	"github.com/miru4128/gaayatri-project/internal/domain"
)

// Store is the subset of the repository the manager needs.
type Store interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	UpdateSessionContext(ctx context.Context, sessionID string, c domain.AnimalContext) error
	CountMessages(ctx context.Context, sessionID string) (int, error)
}

// Enricher verifies and completes a normalised context for its owner.
type Enricher interface {
	Augment(ctx context.Context, ownerID string, c domain.AnimalContext) domain.AnimalContext
}

// Resolution is the active session for an incoming message.
type Resolution struct {
	Session *domain.Session
	// Forked is set when a context change started a new session.
	Forked bool
	// Created is set when no usable session existed.
	Created bool
}

// Manager resolves, creates and forks sessions.
type Manager struct {
	store    Store
	enricher Enricher
	now      func() time.Time
}

// NewManager creates a session manager.
func NewManager(store Store, enricher Enricher) *Manager {
	return &Manager{
		store:    store,
		enricher: enricher,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return "sess_" + uuid.New().String()
}

// Resolve returns the session the next message of userID belongs to.
//
// The stored session is reused only if it exists and belongs to userID. The
// incoming context is normalised and enriched; when it is non-empty and
// differs from the session's context, a session that already holds messages
// is left untouched and a new one is started, while an empty session has its
// context replaced in place.
func (m *Manager) Resolve(ctx context.Context, userID, storedSessionID string, rawContext json.RawMessage) (*Resolution, error) {
	incoming := animalctx.NormaliseJSON(rawContext)
	if m.enricher != nil {
		incoming = m.enricher.Augment(ctx, userID, incoming)
	}

	current, err := m.load(ctx, userID, storedSessionID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		s, err := m.create(ctx, userID, incoming)
		if err != nil {
			return nil, err
		}
		return &Resolution{Session: s, Created: true}, nil
	}

	if incoming.IsEmpty() || incoming.Equal(current.Context) {
		return &Resolution{Session: current}, nil
	}

	count, err := m.store.CountMessages(ctx, current.SessionID)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	if count == 0 {
		if err := m.store.UpdateSessionContext(ctx, current.SessionID, incoming); err != nil {
			return nil, fmt.Errorf("update session context: %w", err)
		}
		current.Context = incoming
		return &Resolution{Session: current}, nil
	}

	forked, err := m.create(ctx, userID, incoming)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("user_id", userID).
		Str("old_session_id", current.SessionID).
		Str("new_session_id", forked.SessionID).
		Msg("context changed; starting new session")
	return &Resolution{Session: forked, Forked: true}, nil
}

func (m *Manager) load(ctx context.Context, userID, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	s, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if s == nil || s.UserID != userID {
		return nil, nil
	}
	return s, nil
}

func (m *Manager) create(ctx context.Context, userID string, c domain.AnimalContext) (*domain.Session, error) {
	s := &domain.Session{
		SessionID: NewSessionID(),
		UserID:    userID,
		CreatedAt: m.now(),
		Context:   c,
	}
	if err := m.store.CreateSession(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}
