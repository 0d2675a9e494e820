package reply

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/miru4128/gaayatri-project/internal/safety"
)

func TestBeautifyBulletsSentences(t *testing.T) {
	out := Beautify("Check the udder. Apply antiseptic. Watch for fever.")
	assert.Equal(t, "Check the udder.\n- Apply antiseptic.\n- Watch for fever.", out)
	assert.Len(t, strings.Split(out, "\n"), 3)
}

func TestBeautifySingleSentencePassesThrough(t *testing.T) {
	assert.Equal(t, "Give clean water", Beautify("  Give   clean\twater  "))
	assert.Equal(t, "", Beautify("   "))
}

func TestBeautifyParagraphs(t *testing.T) {
	in := "Isolate the cow.  Call a vet!\n\n\nKeep records"
	assert.Equal(t, "Isolate the cow.\n- Call a vet!\n\nKeep records", Beautify(in))
}

func TestBeautifyDoesNotSplitDecimals(t *testing.T) {
	assert.Equal(t, "Give 2.5 kg of concentrate daily.", Beautify("Give 2.5 kg of concentrate daily."))
}

func TestRefusalMessages(t *testing.T) {
	assert.Contains(t, strings.ToLower(Refusal(safety.ReasonHumanHealth)), "doctor")
	assert.Contains(t, Refusal(safety.ReasonSelfHarm), "emergency services")
	assert.Contains(t, Refusal(safety.ReasonViolence), "harmful or illegal")
	assert.Contains(t, Refusal(safety.Reason("other")), "bovine health")
	assert.True(t, strings.HasPrefix(Refusal(safety.ReasonSelfHarm), "I'm here to support Indian dairy farmers"))
}

func TestGreeting(t *testing.T) {
	assert.True(t, strings.HasPrefix(Greeting(""), "Namaste!\n- I'm GAAYATRI's dairy assistant."))
	g := Greeting("Gauri, Gir breed")
	assert.True(t, strings.HasPrefix(g, "Namaste!"))
	assert.Contains(t, g, "- I see we're discussing Gauri, Gir breed.")
}
