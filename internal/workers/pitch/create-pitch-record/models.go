// internal/workers/pitch/create-pitch-record/models.go
package createpitchrecord

import "pitch-workers/internal/pitch"

type Input struct {
	FormData map[string]interface{} `json:"formData"`
	Score    pitch.Score            `json:"score"`
	Offer    pitch.Offer            `json:"offer"`

	// Set from the job; it keys the row so a redelivered job is idempotent.
	ProcessInstanceKey int64 `json:"-"`
}

type Output struct {
	SubmissionID     string `json:"submissionId"`
	SubmissionStatus string `json:"submissionStatus"`
	CreatedAt        string `json:"createdAt"` // ISO 8601
}
