package pitch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formData() map[string]interface{} {
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
		"tractionValue":    float64(150),
		"first100Plan":     "Partner with three regional gym associations",
		"primaryChannel":   "partnerships",
		"mustHaveFeatures": "Class booking, member billing, reminders",
		"platform":         "web",
		"validationReady":  "yes",
		"adBudgetRange":    "500",
		"dealPreference":   "open",
		"launchPlan":       true,
	}
}

func TestFromMap_Complete(t *testing.T) {
	q, err := FromMap(formData())
	require.NoError(t, err)

	assert.Equal(t, "Ada Founder", q.FullName)
	assert.Equal(t, RevenueSubscription, q.RevenueModel)
	assert.Equal(t, Commitment10To20, q.CommitmentHours)
	assert.Equal(t, "150", q.TractionValue)
	assert.Equal(t, AdBudget500, q.AdBudgetRange)
}

func TestFromMap_MissingRequired(t *testing.T) {
	data := formData()
	delete(data, "email")
	data["platform"] = ""

	_, err := FromMap(data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidQuestionnaire))

	var invalid *InvalidQuestionnaireError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, []string{"email", "platform"}, invalid.Missing)
	assert.Empty(t, invalid.Invalid)
	assert.Contains(t, err.Error(), "missing required fields: email, platform")
}

func TestFromMap_OutOfVocabulary(t *testing.T) {
	data := formData()
	data["platform"] = "desktop"
	data["adBudgetRange"] = "750"

	_, err := FromMap(data)

	var invalid *InvalidQuestionnaireError
	require.True(t, errors.As(err, &invalid))
	assert.Empty(t, invalid.Missing)
	assert.Equal(t, []string{"platform", "adBudgetRange"}, invalid.Invalid)
	assert.Equal(t, []string{"platform", "adBudgetRange"}, invalid.Fields())
}

func TestBuilder_Sections(t *testing.T) {
	b := NewBuilder()
	assert.False(t, b.SectionComplete("founder"))

	require.NoError(t, b.Set("fullName", "Ada"))
	require.NoError(t, b.Set("email", "ada@example.com"))
	assert.True(t, b.SectionComplete("founder"))
	assert.False(t, b.SectionComplete("idea"))
	assert.True(t, b.SectionComplete("review"))
	assert.False(t, b.SectionComplete("unknown"))

	_, err := b.Build()
	require.Error(t, err)
	assert.Len(t, b.Missing(), len(RequiredFields())-2)
}

func TestBuilder_SetUnknownField(t *testing.T) {
	b := NewBuilder()
	err := b.Set("favouriteColour", "blue")
	assert.Error(t, err)
	assert.Equal(t, "", b.Get("favouriteColour"))
}

func TestBuilder_BuildOnlyWhenComplete(t *testing.T) {
	b := NewBuilder().Apply(formData())
	assert.Empty(t, b.Missing())

	q, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, q, b.Draft())

	require.NoError(t, b.Set("dealPreference", ""))
	assert.Equal(t, []string{"dealPreference"}, b.Missing())
	_, err = b.Build()
	assert.ErrorIs(t, err, ErrInvalidQuestionnaire)
}

func TestRequiredFields(t *testing.T) {
	assert.Equal(t, []string{
		"fullName", "email", "ideaSummary", "problemSolved", "targetSegment",
		"switchReason", "revenueModel", "pricePoint", "yearOneGoal",
		"commitmentHours", "priorLaunch", "tractionType", "first100Plan",
		"primaryChannel", "mustHaveFeatures", "platform", "validationReady",
		"adBudgetRange", "dealPreference",
	}, RequiredFields())
}

func TestSections_CoverEveryField(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Sections() {
		for _, f := range s.Fields {
			seen[f] = true
		}
	}
	for _, name := range FieldNames() {
		assert.True(t, seen[name], name)
	}
}

func TestToMap_RoundTrip(t *testing.T) {
	q := strongPitch()
	back, err := FromMap(ToMap(q))
	require.NoError(t, err)
	assert.Equal(t, q, back)
}

func TestOptions(t *testing.T) {
	assert.Equal(t, []string{"subscription", "one-off", "other"}, Options("revenueModel"))
	assert.Equal(t, []string{"0", "200", "500", "1000+"}, Options("adBudgetRange"))
	assert.Nil(t, Options("ideaSummary"))
	assert.Nil(t, Options("nope"))

	for _, name := range FieldNames() {
		for _, opt := range Options(name) {
			require.NoError(t, NewBuilder().Set(name, opt), "%s=%s", name, opt)
			assert.True(t, fieldIndex[name].valid(opt), "%s=%s", name, opt)
		}
	}
}
