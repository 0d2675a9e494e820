package reply

import "github.com/miru4128/gaayatri-project/internal/safety"

const (
	refusalBase = "I'm here to support Indian dairy farmers with cattle care and management."

	welcome = "Namaste! I'm GAAYATRI's dairy assistant. Ask me about cow or buffalo health, milk yield, nutrition, " +
		"breeding, or daily management."

	narrowScope = "I'm focused on dairy cattle support. Choose one of your saved animals or share breed, age, milk yield, and " +
		"current symptoms so I can guide you better."
)

var refusalGuidance = map[safety.Reason]string{
	safety.ReasonHumanHealth: " I can't provide advice on human medical concerns. Please speak with a qualified doctor or your local " +
		"health helpline for assistance.",
	safety.ReasonSelfHarm: " It sounds like you may need urgent help. Contact local emergency services, a trusted person, or a " +
		"mental health professional immediately.",
	safety.ReasonViolence: " I can't assist with harmful or illegal actions. Please stay safe and reach out to the appropriate " +
		"authorities if needed.",
}

const defaultGuidance = " Let's focus on bovine health, nutrition, reproduction, housing, or dairy farm management queries."

// Refusal returns the reviewed refusal message for reason.
func Refusal(reason safety.Reason) string {
	guidance, ok := refusalGuidance[reason]
	if !ok {
		guidance = defaultGuidance
	}
	return Beautify(refusalBase + guidance)
}

// Greeting returns the welcome message, mentioning the animal under
// discussion when summary is not empty.
func Greeting(summary string) string {
	text := welcome
	if summary != "" {
		text = "Namaste! I see we're discussing " + summary + ". " + welcome
	}
	return Beautify(text)
}

// NarrowScope asks the farmer to bring the question back to cattle care.
func NarrowScope() string {
	return Beautify(narrowScope)
}
