package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	lkdecision "github.com/aretw0/parley/pkg/decision/lanekeep"
	"github.com/aretw0/parley/pkg/domain"
)

func TestStepTurn_ServiceFragmentIsAuthoritative(t *testing.T) {
	dec := lkdecision.New()
	st := &domain.DecisionState{Status: domain.StatusAwaitingService}

	v := stepTurn(dec, st, "LKOkay, your lane keeping system in now on.", "LK", true)

	assert.Equal(t, verdictAnswer, v.kind)
	assert.Equal(t, "Okay, your lane keeping system in now on.", v.text)
	assert.Equal(t, domain.StatusDone, st.Status)
}

func TestStepTurn_QuestionSeedsSlots(t *testing.T) {
	dec := lkdecision.New()
	st := &domain.DecisionState{Status: domain.StatusUnclassified}

	v := stepTurn(dec, st, "why are there no lanes on my display", "", false)

	assert.Equal(t, verdictAsk, v.kind)
	assert.Equal(t, domain.StatusAwaitingUser, st.Status)
	assert.Equal(t, lkdecision.LabelCommand, st.Label)

	// Slots reseeded from the clause the question asks about, not from the
	// user's original info query.
	assert.Equal(t, []string{"on", "change"}, st.Slots)
}

func TestStepTurn_ClassifiesOncePerExchange(t *testing.T) {
	dec := lkdecision.New()
	st := &domain.DecisionState{Status: domain.StatusUnclassified, Label: lkdecision.LabelInfo}

	// An already-labelled exchange keeps its label even for command-looking
	// text: the vibration fact comes back instead of a vibration command.
	v := stepTurn(dec, st, "turn the vibration up", "", false)
	assert.Equal(t, verdictAnswer, v.kind)
	assert.Equal(t, "Vibration insenity is a setting for the aid mode. There are three levels: Low, Normal, High.", v.text)
}

func TestStepTurn_ForwardClearsClassification(t *testing.T) {
	dec := lkdecision.New()
	st := &domain.DecisionState{Status: domain.StatusUnclassified}

	v := stepTurn(dec, st, "turn on lane keeping", "", false)

	assert.Equal(t, verdictForward, v.kind)
	assert.Equal(t, "power on", v.forward)
	assert.Equal(t, domain.StatusAwaitingService, st.Status)
	assert.Empty(t, st.Label)
	assert.Empty(t, st.Slots)
}

func TestPenultimateClause(t *testing.T) {
	clause, ok := penultimateClause("No lanes mean your lane keeping system is off. Would you like me to turn it on?")
	assert.True(t, ok)
	assert.Equal(t, " Would you like me to turn it on", clause)

	clause, ok = penultimateClause("Shall we?")
	assert.True(t, ok)
	assert.Equal(t, "Shall we", clause)

	_, ok = penultimateClause("no terminator")
	assert.False(t, ok)
}
