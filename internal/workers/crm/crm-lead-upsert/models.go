package crmleadupsert

import (
	"pitch-workers/internal/pitch"
)

type Input struct {
	FormData     map[string]interface{} `json:"formData"`
	Score        *pitch.Score           `json:"score,omitempty"`
	Offer        *pitch.Offer           `json:"offer,omitempty"`
	SubmissionID string                 `json:"submissionId,omitempty"`
}

type Output struct {
	LeadID      string `json:"crmLeadId,omitempty"`
	Created     bool   `json:"crmLeadCreated"`
	CRMProvider string `json:"crmProvider"`
	SkipReason  string `json:"crmSkipReason,omitempty"`
}
