package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitch-workers/internal/pitch"
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
		"tractionValue":    "150",
		"first100Plan":     "Partner with three regional gym associations",
		"primaryChannel":   "partnerships",
		"mustHaveFeatures": "Class booking, member billing, reminders",
		"platform":         "web",
		"validationReady":  "yes",
		"adBudgetRange":    "500",
		"dealPreference":   "open",
	}
}

func writeJSONFile(t *testing.T, v interface{}) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "pitch.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["score"])
	assert.True(t, names["registry"])
}

func TestScoreCommand(t *testing.T) {
	path := writeJSONFile(t, map[string]interface{}{"formData": formData()})

	out, err := execute(t, "score", "--file", path)
	require.NoError(t, err)

	var got struct {
		Score pitch.Score `json:"score"`
		Offer pitch.Offer `json:"offer"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	q, err := pitch.FromMap(formData())
	require.NoError(t, err)
	assert.Equal(t, pitch.Evaluate(q).Total, got.Score.Total)
	assert.Equal(t, pitch.BandFor(got.Score.Total), got.Offer.Band)
}

func TestScoreCommand_Incomplete(t *testing.T) {
	form := formData()
	delete(form, "pricePoint")
	path := writeJSONFile(t, form)

	_, err := execute(t, "score", "--file", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, pitch.ErrInvalidQuestionnaire)
}

func TestParseScoreFile(t *testing.T) {
	wrapped, err := parseScoreFile([]byte(`{"formData":{"email":"a@b.co"},"selectedAddOnIds":["launch-plan"]}`))
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", wrapped.FormData["email"])
	assert.Equal(t, []string{"launch-plan"}, wrapped.SelectedAddOnIDs)

	bare, err := parseScoreFile([]byte(`{"email":"a@b.co","selectedAddOnIds":["audience-build"]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"email": "a@b.co"}, bare.FormData)
	assert.Equal(t, []string{"audience-build"}, bare.SelectedAddOnIDs)

	_, err = parseScoreFile([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestRegistryValidate_ShippedRegistry(t *testing.T) {
	out, err := execute(t, "registry", "validate", "--path", filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "Found 9 activities")
}

func TestRegistryList(t *testing.T) {
	out, err := execute(t, "registry", "list", "--path", filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "TASK TYPE")
	assert.Contains(t, out, "relay-pitch-lead")
}
