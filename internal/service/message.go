package service

import (
	"context"
	"fmt"

	"github.com/miru4128/gaayatri-project/internal/domain"
)

// GetMessages returns a session's latest limit messages in chronological
// order, or all of them for a non-positive limit. Only the session owner may
// read them.
func (s *Service) GetMessages(ctx context.Context, userID, sessionID string, limit int) ([]domain.Message, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return nil, domain.ErrNotFound
	}
	if sess.UserID != userID {
		return nil, domain.ErrForbidden
	}

	if limit <= 0 {
		messages, err := s.store.ListMessages(ctx, sessionID, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to get messages: %w", err)
		}
		return messages, nil
	}

	messages, err := s.store.ListRecentMessages(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// SubmitFeedback rates a bot message owned by userID.
func (s *Service) SubmitFeedback(ctx context.Context, userID, messageID string, score int) error {
	msg, err := s.store.GetMessage(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to get message: %w", err)
	}
	if msg == nil || msg.Role != domain.RoleBot {
		return domain.ErrNotFound
	}

	sess, err := s.store.GetSession(ctx, msg.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil || sess.UserID != userID {
		return domain.ErrForbidden
	}

	feedback := domain.Feedback(score)
	if !feedback.Valid() {
		return domain.ErrInvalidFeedback
	}

	updated, err := s.store.UpdateMessageFeedback(ctx, messageID, feedback)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}
	if !updated {
		return domain.ErrNotFound
	}
	return nil
}
