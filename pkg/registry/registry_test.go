package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRegistry() *ActivityRegistry {
	return &ActivityRegistry{
		Version: "1.0.0",
		Activities: []Activity{
			{ID: "score-pitch", DisplayName: "Score Pitch", Category: "pitch", TaskType: "score-pitch", Timeout: "5s"},
			{ID: "build-offer", DisplayName: "Build Offer", Category: "pitch", TaskType: "build-offer"},
		},
	}
}

func TestValidate(t *testing.T) {
	reg := sampleRegistry()
	require.NoError(t, reg.Validate(nil))
	require.NoError(t, reg.Validate([]string{"build-offer", "score-pitch"}))

	err := reg.Validate([]string{"score-pitch", "build-offer", "relay-pitch-lead"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relay-pitch-lead")

	err = reg.Validate([]string{"score-pitch"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown task type: build-offer")
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ActivityRegistry)
		want   string
	}{
		{"empty", func(r *ActivityRegistry) { r.Activities = nil }, "no activities"},
		{"duplicate", func(r *ActivityRegistry) { r.Activities[1].ID = "score-pitch" }, "duplicate activity ID"},
		{"no task type", func(r *ActivityRegistry) { r.Activities[0].TaskType = "" }, "TaskType"},
		{"task type not kebab-case", func(r *ActivityRegistry) { r.Activities[0].TaskType = "scorePitch" }, "kebab-case"},
		{"bad timeout", func(r *ActivityRegistry) { r.Activities[0].Timeout = "soon" }, "invalid timeout"},
		{"bad status", func(r *ActivityRegistry) { r.Activities[1].ImplementationStatus = "wip" }, "unknown status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := sampleRegistry()
			tt.mutate(reg)
			err := reg.Validate(nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	reg := sampleRegistry()
	require.NoError(t, reg.Add(Activity{ID: "index-pitch-submission", DisplayName: "Index", Category: "data-access", TaskType: "index-pitch-submission"}))
	assert.Error(t, reg.Add(Activity{ID: "build-offer"}))

	require.NoError(t, Save(reg, path))
	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Activities, 3)
	assert.NotEmpty(t, loaded.LastUpdated)

	a, ok := loaded.Find("index-pitch-submission")
	require.True(t, ok)
	assert.Equal(t, "data-access", a.Category)
}

func TestActivityHelpers(t *testing.T) {
	a := Activity{
		Timeout:              "15s",
		ImplementationStatus: StatusDisabled,
		OutputSchema: VariableSchema{
			Type:       "object",
			Properties: map[string]interface{}{"relayed": map[string]interface{}{}, "crmStatusCode": map[string]interface{}{}},
		},
	}
	d, err := a.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, d)
	assert.False(t, a.Enabled())
	assert.Equal(t, []string{"crmStatusCode", "relayed"}, a.OutputSchema.Names())

	d, err = Activity{}.TimeoutDuration()
	require.NoError(t, err)
	assert.Zero(t, d)
	assert.True(t, Activity{ImplementationStatus: StatusCompleted}.Enabled())
}
