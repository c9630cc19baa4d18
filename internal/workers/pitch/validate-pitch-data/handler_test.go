// internal/workers/pitch/validate-pitch-data/handler_test.go
package validatepitchdata

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/pitch"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestFormData() map[string]interface{} {
	return map[string]interface{}{
		"fullName":         "Ada Founder",
		"email":            "ada@example.com",
		"linkedinUrl":      "https://linkedin.com/in/ada",
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

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "pitch-intake",
		ElementId:          "Activity_ValidatePitchData",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, logger.NewTestLogger(t))
}

func TestHandler_Execute_Valid(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{
		FormData:         createTestFormData(),
		SelectedAddOnIDs: []string{"launch-plan", "unknown", "launch-plan"},
	})

	require.NoError(t, err)
	assert.True(t, out.IsValid)
	assert.Empty(t, out.ValidationErrors)
	assert.Equal(t, "150", out.FormData["tractionValue"])
	assert.NotContains(t, out.FormData, "launchPlan")
	assert.Equal(t, []string{"launch-plan"}, out.SelectedAddOnIDs)
}

func TestHandler_Execute_MissingRequired(t *testing.T) {
	h := newTestHandler(t)
	form := createTestFormData()
	delete(form, "switchReason")
	form["pricePoint"] = ""

	out, err := h.Execute(context.Background(), &Input{FormData: form})

	require.Error(t, err)
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeInvalidQuestionnaire, stdErr.Code)
	assert.Equal(t, []string{"pricePoint", "switchReason"}, stdErr.Metadata["fields"])
	assert.False(t, out.IsValid)
	require.Len(t, out.ValidationErrors, 2)
	assert.Equal(t, "REQUIRED_FIELD_MISSING", out.ValidationErrors[0].Code)
}

func TestHandler_Execute_SchemaViolations(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value interface{}
		code  string
	}{
		{"bad email", "email", "not-an-email", "FORMAT_MISMATCH"},
		{"unknown platform", "platform", "desktop", "INVALID_ENUM_VALUE"},
		{"numeric summary", "ideaSummary", float64(12), "INVALID_TYPE"},
		{"relative deck url", "pitchDeckUrl", "deck.pdf", "PATTERN_MISMATCH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)
			form := createTestFormData()
			form[tt.field] = tt.value

			out, err := h.Execute(context.Background(), &Input{FormData: form})

			require.Error(t, err)
			require.NotEmpty(t, out.ValidationErrors)
			assert.Equal(t, tt.field, out.ValidationErrors[0].Field)
			assert.Equal(t, tt.code, out.ValidationErrors[0].Code)
		})
	}
}

func TestHandler_Execute_NilFormData(t *testing.T) {
	out, err := newTestHandler(t).Execute(context.Background(), &Input{})

	require.Error(t, err)
	assert.False(t, out.IsValid)
	assert.Len(t, out.ValidationErrors, len(pitch.RequiredFields()))
}

func TestParseInput(t *testing.T) {
	job := createMockJob(42, map[string]interface{}{
		"formData":         createTestFormData(),
		"selectedAddOnIds": []string{"audience-build"},
	})

	input, err := parseInput(job)
	require.NoError(t, err)
	assert.Equal(t, "Ada Founder", input.FormData["fullName"])
	assert.Equal(t, []string{"audience-build"}, input.SelectedAddOnIDs)

	bad := createMockJob(43, nil)
	bad.Variables = "{not json"
	_, err = parseInput(bad)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeParseError, errors.Normalize(err).Code)
}

func TestGetInputSchema(t *testing.T) {
	schema := GetInputSchema()

	assert.Equal(t, "email", schema.Properties["email"].Format)
	assert.Equal(t, []string{"web", "ios", "android", "combo"}, schema.Properties["platform"].Enum)
	assert.Empty(t, schema.Properties["tractionValue"].Type)
	assert.True(t, schema.AdditionalProperties)
}
