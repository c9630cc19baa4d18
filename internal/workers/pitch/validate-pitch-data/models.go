// internal/workers/pitch/validate-pitch-data/models.go
package validatepitchdata

import "pitch-workers/internal/common/validation"

type Input struct {
	FormData         map[string]interface{} `json:"formData"`
	SelectedAddOnIDs []string               `json:"selectedAddOnIds"`
}

type Output struct {
	IsValid          bool                         `json:"isValid"`
	ValidationErrors []validation.ValidationError `json:"validationErrors"`
	FormData         map[string]interface{}       `json:"formData,omitempty"`
	SelectedAddOnIDs []string                     `json:"selectedAddOnIds"`
}
