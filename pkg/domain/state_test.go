package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/parley/pkg/domain"
)

func TestNewState_Defaults(t *testing.T) {
	st := domain.NewState("alice", "class_lk_dcm", 0)

	assert.Equal(t, "alice", st.UserID)
	assert.Equal(t, "class_lk_dcm", st.GraphName)
	assert.Equal(t, 0, st.CurrentNodeID)
	assert.Equal(t, domain.StatusUnclassified, st.Decision.Status)
	assert.Empty(t, st.TurnText)
}

func TestState_AppendAndLatest(t *testing.T) {
	st := domain.NewState("alice", "class_lk_dcm", 0)
	assert.Equal(t, "", st.Latest())

	st.Append("turn on lane keeping")
	st.Append("LKOkay, your lane keeping system in now on.")
	assert.Equal(t, "LKOkay, your lane keeping system in now on.", st.Latest())
}

func TestState_FinishExchange(t *testing.T) {
	st := domain.NewState("alice", "class_lk_dcm", 0)
	st.Append("power on")
	st.Append("Okay, your lane keeping system in now on.")
	st.FinishExchange()

	assert.Equal(t, 2, st.ExchangeStart)

	// The log itself is retained; only the window moves.
	assert.Len(t, st.TurnText, 2)
}

func TestDecisionState_AddSlots(t *testing.T) {
	var d domain.DecisionState

	d.AddSlots([]string{"lane", "change"})
	d.AddSlots([]string{"change", "on"})

	assert.Equal(t, []string{"lane", "change", "on"}, d.Slots)
	assert.True(t, d.HasSlot("lane"))
	assert.False(t, d.HasSlot("off"))
}

func TestDecisionState_Reset(t *testing.T) {
	d := domain.DecisionState{
		Status: domain.StatusClassified,
		Label:  "cmd",
		Slots:  []string{"lane", "on"},
	}
	d.Reset()

	assert.Equal(t, domain.StatusDone, d.Status)
	assert.Empty(t, d.Label)
	assert.Nil(t, d.Slots)
}

func TestGraphSet_Defaults(t *testing.T) {
	g := laneGraph(t)
	gs, err := domain.NewGraphSet([]*domain.Graph{g}, map[domain.Modality]string{
		domain.ModalityText: "class_lk_dcm",
	})
	assert.NoError(t, err)

	def, err := gs.Default(domain.ModalityText)
	assert.NoError(t, err)
	assert.Equal(t, "class_lk_dcm", def.Name)

	_, err = gs.Default(domain.ModalityImage)
	assert.ErrorIs(t, err, domain.ErrNoRoute)

	_, err = gs.Graph("unknown")
	assert.ErrorIs(t, err, domain.ErrNoRoute)
}

func TestNewGraphSet_Validation(t *testing.T) {
	g := laneGraph(t)

	_, err := domain.NewGraphSet([]*domain.Graph{g, g}, nil)
	assert.Error(t, err, "duplicate graph names must be rejected")

	_, err = domain.NewGraphSet([]*domain.Graph{g}, map[domain.Modality]string{
		domain.ModalityText: "nope",
	})
	assert.Error(t, err, "defaults must name a known graph")
}
