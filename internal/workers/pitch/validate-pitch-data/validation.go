// internal/workers/pitch/validate-pitch-data/validation.go
package validatepitchdata

import (
	stderrors "errors"
	"fmt"
	"strings"

	"pitch-workers/internal/common/validation"
	"pitch-workers/internal/pitch"
)

var urlFields = map[string]bool{
	"linkedinUrl":  true,
	"pitchDeckUrl": true,
	"loomVideoUrl": true,
}

// GetInputSchema describes the form data object. Required answers are left
// to the questionnaire builder, which also treats empty strings as missing.
// Keys outside the questionnaire are allowed so UI-only flags pass through.
func GetInputSchema() validation.JSONSchema {
	props := make(map[string]validation.Property)
	for _, name := range pitch.FieldNames() {
		p := validation.Property{Type: "string"}
		switch {
		case name == "email":
			p.Format = "email"
		case name == "tractionValue":
			// sent as a number by some clients
			p.Type = ""
		case urlFields[name]:
			p.Pattern = validation.StringPtr(`^$|^https?://`)
		}
		if opts := pitch.Options(name); opts != nil {
			p.Enum = opts
		}
		props[name] = p
	}
	return validation.JSONSchema{
		Type:                 "object",
		Properties:           props,
		AdditionalProperties: true,
	}
}

var formValidator = validation.MustValidator(GetInputSchema())

// FormError lists every problem found in a form, schema violations first.
type FormError struct {
	Problems []validation.ValidationError
}

func (e *FormError) Error() string {
	return "invalid form data: " + strings.Join(e.Fields(), ", ")
}

// Fields returns the distinct offending field names, sorted.
func (e *FormError) Fields() []string {
	return (&validation.ValidationResult{Errors: e.Problems}).Fields()
}

// ValidateForm runs the schema and the questionnaire builder over formData.
// The HTTP intake calls it before starting a process, so anything it accepts
// also passes this worker. A rejected form yields a *FormError.
func ValidateForm(formData map[string]interface{}) (pitch.Questionnaire, error) {
	if formData == nil {
		formData = map[string]interface{}{}
	}

	result := formValidator.Validate(formData)
	problems := append([]validation.ValidationError{}, result.Errors...)
	reported := make(map[string]bool, len(problems))
	for _, p := range problems {
		reported[p.Field] = true
	}

	q, err := pitch.FromMap(formData)
	var invalid *pitch.InvalidQuestionnaireError
	switch {
	case stderrors.As(err, &invalid):
		for _, name := range invalid.Missing {
			if !reported[name] {
				problems = append(problems, validation.ValidationError{
					Field:   name,
					Message: name + " is required",
					Code:    "REQUIRED_FIELD_MISSING",
				})
			}
		}
		for _, name := range invalid.Invalid {
			if !reported[name] {
				problems = append(problems, validation.ValidationError{
					Field:   name,
					Message: name + " must be one of the listed options",
					Code:    "INVALID_ENUM_VALUE",
				})
			}
		}
	case err != nil:
		return pitch.Questionnaire{}, fmt.Errorf("read questionnaire: %w", err)
	}

	if len(problems) > 0 {
		return pitch.Questionnaire{}, &FormError{Problems: problems}
	}
	return q, nil
}

var knownAddOns = map[string]bool{
	pitch.AddOnLaunchPlan:          true,
	pitch.AddOnAudienceBuild:       true,
	pitch.AddOnIntegrationPlanning: true,
}

// normalizeAddOns drops unknown and repeated ids, keeping order.
func normalizeAddOns(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if knownAddOns[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
