package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func promptIDs(ps []Prompt) []string {
	ids := []string{}
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestPrompts(t *testing.T) {
	tests := []struct {
		name string
		q    Questionnaire
		want []string
	}{
		{"empty draft", Questionnaire{}, []string{}},
		{"short launch plan", Questionnaire{First100Plan: "tweet it"}, []string{"launch-plan"}},
		{"long launch plan", Questionnaire{First100Plan: ofLen(40)}, []string{}},
		{"not ready", Questionnaire{ValidationReady: No}, []string{"validation-warning"}},
		{"zero traction", Questionnaire{TractionValue: "0"}, []string{"audience-build"}},
		{"empty traction does not prompt", Questionnaire{TractionValue: ""}, []string{}},
		{"zero traction with audience", Questionnaire{TractionValue: "0", AudienceAssets: "2k followers"}, []string{}},
		{
			"all",
			Questionnaire{First100Plan: "ads", ValidationReady: No, TractionValue: "0", AudienceAssets: "0"},
			[]string{"launch-plan", "validation-warning", "audience-build"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, promptIDs(Prompts(tt.q)))
		})
	}
}

func TestPrompts_Details(t *testing.T) {
	ps := Prompts(Questionnaire{First100Plan: "ads", ValidationReady: No})

	assert.Equal(t, PromptAddOn, ps[0].Type)
	assert.Equal(t, 1000, ps[0].Price)
	assert.Equal(t, "launchPlan", ps[0].Field)

	assert.Equal(t, PromptWarning, ps[1].Type)
	assert.Equal(t, "We only build after validation. You can book Validation only.", ps[1].Description)
	assert.Zero(t, ps[1].Price)
}
