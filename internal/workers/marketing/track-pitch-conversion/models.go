package trackpitchconversion

import (
	"pitch-workers/internal/models"
	"pitch-workers/internal/pitch"
)

type Input struct {
	FormData      map[string]interface{} `json:"formData"`
	Offer         *pitch.Offer           `json:"offer,omitempty"`
	SubmissionID  string                 `json:"submissionId,omitempty"`
	ClientContext *models.ClientContext  `json:"clientContext,omitempty"`
}

type Output struct {
	Tracked        bool   `json:"conversionTracked"`
	EventID        string `json:"conversionEventId,omitempty"`
	EventsReceived int    `json:"conversionEventsReceived,omitempty"`
	SkipReason     string `json:"conversionSkipReason,omitempty"`
}
