package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/miru4128/gaayatri-project/internal/adapter/llm"
	"github.com/miru4128/gaayatri-project/internal/domain"
	"github.com/miru4128/gaayatri-project/internal/geo"
	"github.com/miru4128/gaayatri-project/internal/prompt"
	"github.com/miru4128/gaayatri-project/internal/reply"
	"github.com/miru4128/gaayatri-project/internal/safety"
	"github.com/miru4128/gaayatri-project/internal/semantic"
	"github.com/miru4128/gaayatri-project/internal/textmatch"
	"github.com/miru4128/gaayatri-project/policy"
)

// Signals are the classifier outputs for one message.
type Signals struct {
	Greeting     bool
	Refusal      safety.Reason
	HasContext   bool
	KeywordHit   bool
	SemanticPass bool
	// SemanticScore is set only when the semantic classifier ran.
	SemanticScore float64
}

// SubmitMessage handles a farmer's chat message end to end. The user message
// is stored before any classification; a bot message is stored for every
// successful reply. Model failures return *ModelError and store nothing more.
func (s *Service) SubmitMessage(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, domain.ErrEmptyInput
	}
	if req.UserRole != s.config.FarmerRole {
		return nil, domain.ErrForbidden
	}

	resolved, err := s.sessions.Resolve(ctx, req.UserID, req.SessionID, req.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	sess := resolved.Session

	location := geo.DefaultLabel
	if s.locator != nil {
		location = s.locator.Label(ctx, req.ClientIP)
	}

	if _, err := s.saveMessage(ctx, sess.SessionID, domain.RoleUser, text, location); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	signals, decision, err := s.Decide(ctx, req.UserID, text, sess.Context)
	if err != nil {
		return nil, err
	}

	var answer string
	switch decision {
	case domain.DecisionGreeting:
		answer = reply.Greeting(sess.Context.Summary())
	case domain.DecisionRefuse:
		answer = reply.Refusal(signals.Refusal)
	case domain.DecisionNarrowScope:
		answer = reply.NarrowScope()
	default:
		answer, err = s.complete(ctx, sess, location, text)
		if err != nil {
			return nil, err
		}
	}

	botMsg, err := s.saveMessage(ctx, sess.SessionID, domain.RoleBot, answer, location)
	if err != nil {
		return nil, fmt.Errorf("failed to save bot message: %w", err)
	}

	return &domain.ChatResponse{
		OK:           true,
		Reply:        answer,
		BotMessageID: botMsg.MessageID,
		SessionID:    sess.SessionID,
		Decision:     decision,
	}, nil
}

// Decide classifies text and runs the policy over the signals.
func (s *Service) Decide(ctx context.Context, userID, text string, c domain.AnimalContext) (Signals, domain.Decision, error) {
	signals := s.Classify(ctx, userID, text, c)
	decision, err := s.policyEngine.Decide(ctx, signals.policyInput())
	if err != nil {
		return signals, "", fmt.Errorf("failed to decide: %w", err)
	}
	return signals, decision, nil
}

func (sig Signals) policyInput() policy.Input {
	return policy.Input{
		Greeting:     sig.Greeting,
		Refusal:      string(sig.Refusal),
		HasContext:   sig.HasContext,
		KeywordHit:   sig.KeywordHit,
		SemanticPass: sig.SemanticPass,
	}
}

// Classify gathers the greeting, refusal and scope signals for text. The
// semantic classifier only runs when nothing cheaper settles the scope gate.
func (s *Service) Classify(ctx context.Context, userID, text string, c domain.AnimalContext) Signals {
	lex := s.safety.Lexicon()
	normalized := textmatch.Normalize(text)

	sig := Signals{
		Greeting:   lex.MatchesGreeting(normalized),
		HasContext: !c.IsEmpty(),
		KeywordHit: lex.HasCattleKeyword(normalized),
	}
	if sig.Greeting {
		return sig
	}

	hasCattleContext := sig.HasContext || lex.HasBovineHint(normalized)
	sig.Refusal = s.safety.Refusal(text, hasCattleContext)
	if sig.Refusal != safety.ReasonNone || sig.HasContext || sig.KeywordHit {
		return sig
	}

	sig.SemanticPass, sig.SemanticScore = s.semanticPass(ctx, userID, text)
	return sig
}

func (s *Service) semanticPass(ctx context.Context, userID, text string) (bool, float64) {
	if s.semantic == nil {
		return false, 0
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.SemanticTimeout)
	defer cancel()

	res, err := s.semantic.Classify(ctx, text)
	if err != nil {
		// Warn once when the filter goes down; repeats stay at debug until it recovers.
		event := log.Debug()
		if s.semanticDown.CompareAndSwap(false, true) {
			event = log.Warn()
		}
		if errors.Is(err, semantic.ErrUnavailable) {
			event.Err(err).Msg("semantic filter unavailable; skipping")
		} else {
			event.Err(err).Msg("semantic filter failed; skipping")
		}
		return false, 0
	}
	if s.semanticDown.CompareAndSwap(true, false) {
		log.Info().Msg("semantic filter available again")
	}
	log.Debug().
		Float64("score", res.Score).
		Bool("passed", res.Passed).
		Str("user_id", userID).
		Msg("semantic filter")
	return res.Passed, res.Score
}

func (s *Service) complete(ctx context.Context, sess *domain.Session, location, text string) (string, error) {
	recent, err := s.store.ListRecentMessages(ctx, sess.SessionID, s.assembler.HistoryLimit)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sess.SessionID).Msg("failed to load history")
		recent = nil
	}

	req := s.assembler.Build(prompt.Input{
		Context:  sess.Context,
		Location: location,
		Recent:   recent,
		Message:  text,
	})
	resp, err := s.llmClient.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &ModelError{Code: llm.ErrorCode(err), SessionID: sess.SessionID, Err: err}
	}
	content := resp.Content()
	if content == "" {
		return "", &ModelError{Code: llm.CodeEmptyResponse, SessionID: sess.SessionID, Err: errors.New("empty completion")}
	}
	return reply.Beautify(content), nil
}

func (s *Service) saveMessage(ctx context.Context, sessionID string, role domain.Role, text, location string) (*domain.Message, error) {
	msg := &domain.Message{
		MessageID: "msg_" + uuid.New().String(),
		SessionID: sessionID,
		Role:      role,
		Text:      text,
		Location:  location,
		Feedback:  domain.FeedbackNone,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
