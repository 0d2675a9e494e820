// Package repository persists sessions, messages and registered animals.
package repository

import (
	"context"

	"github.com/miru4128/gaayatri-project/internal/domain"
)

// Store defines the interface for data persistence. Getters return nil, nil
// when the row does not exist.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	UpdateSessionContext(ctx context.Context, sessionID string, c domain.AnimalContext) error

	// Message operations
	CreateMessage(ctx context.Context, message *domain.Message) error
	GetMessage(ctx context.Context, messageID string) (*domain.Message, error)
	CountMessages(ctx context.Context, sessionID string) (int, error)
	ListMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)
	ListRecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)
	UpdateMessageFeedback(ctx context.Context, messageID string, feedback domain.Feedback) (bool, error)

	// Animal operations
	CreateAnimal(ctx context.Context, animal *domain.AnimalRecord) error
	GetAnimal(ctx context.Context, animalID int64, ownerID string) (*domain.AnimalRecord, error)

	Close() error
}
