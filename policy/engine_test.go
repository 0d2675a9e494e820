package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miru4128/gaayatri-project/internal/domain"
)

func TestDefaultPolicyDecisions(t *testing.T) {
	ctx := context.Background()
	engine, err := NewDefaultEngine(ctx)
	require.NoError(t, err)

	tests := []struct {
		name string
		in   Input
		want domain.Decision
	}{
		{"greeting beats everything", Input{Greeting: true, Refusal: "self_harm"}, domain.DecisionGreeting},
		{"refusal beats scope", Input{Refusal: "violence", KeywordHit: true}, domain.DecisionRefuse},
		{"nothing in scope", Input{}, domain.DecisionNarrowScope},
		{"context only", Input{HasContext: true}, domain.DecisionProceed},
		{"keyword only", Input{KeywordHit: true}, domain.DecisionProceed},
		{"semantic only", Input{SemanticPass: true}, domain.DecisionProceed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := engine.Decide(ctx, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEngineRejectsUnknownDecision(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, "package chat_policy\n\nimport rego.v1\n\ndecision := \"maybe\"\n")
	require.NoError(t, err)

	_, err = engine.Decide(ctx, Input{})
	assert.Error(t, err)
}

func TestEngineRejectsBadPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "package chat_policy\n\ndecision := {")
	assert.Error(t, err)
}
