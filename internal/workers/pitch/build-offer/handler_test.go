// internal/workers/pitch/build-offer/handler_test.go
package buildoffer

import (
	"context"
	"testing"
	"time"

	"pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/pitch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestFormData() map[string]interface{} {
	return map[string]interface{}{
		"fullName":         "Ada Founder",
		"email":            "ada@example.com",
		"ideaSummary":      "Scheduling for independent gyms",
		"problemSolved":    "Owners juggle spreadsheets and chat apps",
		"targetSegment":    "independent gyms",
		"switchReason":     "Half the price of the incumbents",
		"revenueModel":     "subscription",
		"pricePoint":       "$49/month",
		"yearOneGoal":      "$100K ARR",
		"commitmentHours":  "10-20",
		"priorLaunch":      "no",
		"tractionType":     "waitlist",
		"tractionValue":    "150",
		"first100Plan":     "Post on Reddit",
		"primaryChannel":   "partnerships",
		"mustHaveFeatures": "Class booking, member billing, reminders",
		"platform":         "web",
		"validationReady":  "yes",
		"adBudgetRange":    "500",
		"dealPreference":   "open",
	}
}

func highScore() *pitch.Score {
	return &pitch.Score{
		ProblemClarity:    15,
		Market:            15,
		SwitchReason:      10,
		BusinessModel:     10,
		FounderCommitment: 10,
		Traction:          10,
		GTMPlan:           10,
		Total:             80,
		Flags:             []pitch.Flag{},
	}
}

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{
		Timeout: time.Second,
		Links: pitch.Links{
			KickoffCallURL:      "https://book.example.com/kickoff",
			ConsultationCallURL: "https://book.example.com/consult",
			PaymentBaseURL:      "https://pay.example.com/v",
		},
	}, logger.NewTestLogger(t))
}

func TestHandler_Execute_HighBandWithAddOn(t *testing.T) {
	h := createTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{
		FormData:         createTestFormData(),
		Score:            highScore(),
		SelectedAddOnIDs: []string{pitch.AddOnLaunchPlan},
	})

	require.NoError(t, err)
	assert.Equal(t, pitch.BandHigh, out.ScoreBand)
	assert.Equal(t, "Validate + Build Track", out.Offer.BasePackage.Name)
	assert.Equal(t, 2500, out.TotalPrice)
	assert.Equal(t, out.TotalPrice, out.Offer.TotalPrice)
	assert.Equal(t, "https://book.example.com/kickoff", out.Offer.CallBookingURL)
	assert.Equal(t, "https://pay.example.com/v?amount=250000", out.Offer.PaymentURL)

	require.Len(t, out.Prompts, 1)
	assert.Equal(t, pitch.AddOnLaunchPlan, out.Prompts[0].ID)
}

func TestHandler_Execute_ScoresWhenNoneCarried(t *testing.T) {
	h := createTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{FormData: createTestFormData()})

	require.NoError(t, err)
	q, _ := pitch.FromMap(createTestFormData())
	assert.Equal(t, pitch.BandFor(pitch.Evaluate(q).Total), out.ScoreBand)
	for _, a := range out.Offer.AddOns {
		assert.False(t, a.Triggered)
	}
}

func TestHandler_Execute_InconsistentScore(t *testing.T) {
	h := createTestHandler(t)
	score := highScore()
	score.Total = 95

	_, err := h.Execute(context.Background(), &Input{FormData: createTestFormData(), Score: score})

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeOfferBuildFailed, errors.Normalize(err).Code)
}

func TestHandler_Execute_IncompleteQuestionnaire(t *testing.T) {
	h := createTestHandler(t)
	form := createTestFormData()
	delete(form, "dealPreference")

	_, err := h.Execute(context.Background(), &Input{FormData: form, Score: highScore()})

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidQuestionnaire, errors.Normalize(err).Code)
}
