// internal/models/submission.go
package models

import (
	"time"

	"pitch-workers/internal/pitch"
)

const (
	SubmissionStatusSubmitted = "submitted"
	SubmissionSourcePitchForm = "pitch-me-form"
)

// ClientContext is request metadata captured by the intake API and used
// for conversion tracking.
type ClientContext struct {
	IPAddress string `json:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	Fbp       string `json:"fbp,omitempty"`
	Fbc       string `json:"fbc,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty"`
}

// StartVariables seed a pitch-intake process instance.
type StartVariables struct {
	FormData         map[string]interface{} `json:"formData"`
	SelectedAddOnIDs []string               `json:"selectedAddOnIds"`
	ClientContext    *ClientContext         `json:"clientContext,omitempty"`
	SubmittedAt      string                 `json:"submittedAt"`
}

// SubmissionDocument is what the admin search indexes.
type SubmissionDocument struct {
	SubmissionID  string   `json:"submissionId"`
	Email         string   `json:"email"`
	FullName      string   `json:"fullName"`
	Location      string   `json:"location,omitempty"`
	IdeaSummary   string   `json:"ideaSummary"`
	TargetSegment string   `json:"targetSegment"`
	RevenueModel  string   `json:"revenueModel"`
	Platform      string   `json:"platform"`
	ScoreBand     string   `json:"scoreBand"`
	ScoreTotal    int      `json:"scoreTotal"`
	Flags         []string `json:"flags"`
	Package       string   `json:"package"`
	AddOns        []string `json:"addOns"`
	TotalPrice    int      `json:"totalPrice"`
	NextStep      string   `json:"nextStep"`
	SubmittedAt   string   `json:"submittedAt"`
}

// NewSubmissionDocument flattens an assessed questionnaire for indexing.
// A zero submittedAt is replaced by the current time.
func NewSubmissionDocument(id string, q pitch.Questionnaire, score pitch.Score, offer pitch.Offer, submittedAt time.Time) SubmissionDocument {
	if submittedAt.IsZero() {
		submittedAt = time.Now()
	}
	addOns := make([]string, 0, len(offer.AddOns))
	for _, a := range offer.TriggeredAddOns() {
		addOns = append(addOns, a.ID)
	}
	return SubmissionDocument{
		SubmissionID:  id,
		Email:         q.Email,
		FullName:      q.FullName,
		Location:      q.Location,
		IdeaSummary:   q.IdeaSummary,
		TargetSegment: q.TargetSegment,
		RevenueModel:  string(q.RevenueModel),
		Platform:      string(q.Platform),
		ScoreBand:     offer.Band.String(),
		ScoreTotal:    score.Total,
		Flags:         score.FlagStrings(),
		Package:       offer.BasePackage.Name,
		AddOns:        addOns,
		TotalPrice:    offer.TotalPrice,
		NextStep:      offer.NextStep,
		SubmittedAt:   submittedAt.UTC().Format(time.RFC3339),
	}
}
