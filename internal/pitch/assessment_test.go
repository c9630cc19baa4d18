package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Assess(t *testing.T) {
	e := NewEngine(DefaultLinks())
	q := strongPitch()
	q.First100Plan = "Post on Twitter"

	a, err := e.Assess(q, []string{AddOnLaunchPlan})
	require.NoError(t, err)

	assert.Equal(t, 94, a.Score.Total)
	assert.Equal(t, BandHigh, a.Offer.Band)
	assert.Equal(t, 2500, a.Offer.TotalPrice)
	assert.Equal(t, []string{"launch-plan"}, promptIDs(a.Prompts))
}

func TestEngine_AssessRejectsIncomplete(t *testing.T) {
	e := NewEngine(DefaultLinks())
	q := strongPitch()
	q.Email = ""

	_, err := e.Assess(q, nil)
	require.ErrorIs(t, err, ErrInvalidQuestionnaire)

	_, err = e.Score(q)
	require.ErrorIs(t, err, ErrInvalidQuestionnaire)
}

func TestEngine_OfferMatchesAssess(t *testing.T) {
	e := NewEngine(DefaultLinks())
	q := weakPitch()

	s, err := e.Score(q)
	require.NoError(t, err)
	a, err := e.Assess(q, nil)
	require.NoError(t, err)

	assert.Equal(t, a.Offer, e.Offer(q, s, nil))
}
