package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
	"github.com/rs/zerolog/log"

	"github.com/miru4128/gaayatri-project/internal/domain"
)

// Engine is the OPA policy engine that turns intake signals into a decision.
type Engine struct {
	query rego.PreparedEvalQuery
}

// Input is the set of signals gathered for one message.
type Input struct {
	Greeting     bool
	Refusal      string
	HasContext   bool
	KeywordHit   bool
	SemanticPass bool
}

func (in Input) toMap() map[string]any {
	return map[string]any{
		"greeting":      in.Greeting,
		"refusal":       in.Refusal,
		"has_context":   in.HasContext,
		"keyword_hit":   in.KeywordHit,
		"semantic_pass": in.SemanticPass,
	}
}

// NewEngine creates a new policy engine with the given policy content.
// The policy must define data.chat_policy.decision.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat_policy.decision"),
		rego.Module("chat_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// NewDefaultEngine creates an engine running DefaultPolicy.
func NewDefaultEngine(ctx context.Context) (*Engine, error) {
	return NewEngine(ctx, DefaultPolicy)
}

// Decide evaluates the policy for in.
func (e *Engine) Decide(ctx context.Context, in Input) (domain.Decision, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(in.toMap()))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return "", fmt.Errorf("policy produced no decision")
	}

	s, ok := results[0].Expressions[0].Value.(string)
	if !ok {
		return "", fmt.Errorf("unexpected decision type %T", results[0].Expressions[0].Value)
	}

	decision := domain.Decision(s)
	switch decision {
	case domain.DecisionGreeting, domain.DecisionRefuse, domain.DecisionNarrowScope, domain.DecisionProceed:
	default:
		return "", fmt.Errorf("unknown decision %q", s)
	}

	log.Debug().
		Bool("greeting", in.Greeting).
		Str("refusal", in.Refusal).
		Bool("has_context", in.HasContext).
		Bool("keyword_hit", in.KeywordHit).
		Bool("semantic_pass", in.SemanticPass).
		Str("decision", s).
		Msg("policy decision")
	return decision, nil
}

// DefaultPolicy is the default policy content. Greetings win over refusals,
// refusals over scope narrowing, and a message is forwarded only when at
// least one scope signal holds.
const DefaultPolicy = `
package chat_policy

import rego.v1

default decision := "proceed"

decision := "greeting" if {
	input.greeting
} else := "refuse" if {
	input.refusal != ""
} else := "narrow_scope" if {
	not in_scope
}

in_scope if input.has_context

in_scope if input.keyword_hit

in_scope if input.semantic_pass
`
