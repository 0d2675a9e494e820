// Package domain defines the core domain models for the dairy assistant.
package domain

// Role identifies who authored a conversation message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Feedback is the farmer's rating of a bot message.
type Feedback int

const (
	FeedbackBad  Feedback = -1
	FeedbackNone Feedback = 0
	FeedbackGood Feedback = 1
)

// Valid reports whether f is one of the three accepted ratings.
func (f Feedback) Valid() bool {
	return f == FeedbackBad || f == FeedbackNone || f == FeedbackGood
}

// Decision is the outcome of the intake pipeline for a single message.
type Decision string

const (
	DecisionGreeting    Decision = "greeting"
	DecisionRefuse      Decision = "refuse"
	DecisionNarrowScope Decision = "narrow_scope"
	DecisionProceed     Decision = "proceed"
)

// Source records where an AnimalContext came from.
type Source string

const (
	SourceManual Source = "manual"
	SourceSaved  Source = "saved"
)
