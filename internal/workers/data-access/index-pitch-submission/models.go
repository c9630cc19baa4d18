// internal/workers/data-access/index-pitch-submission/models.go
package indexpitchsubmission

import "pitch-workers/internal/pitch"

type Input struct {
	SubmissionID string                 `json:"submissionId"`
	FormData     map[string]interface{} `json:"formData"`
	Score        pitch.Score            `json:"score"`
	Offer        pitch.Offer            `json:"offer"`
	SubmittedAt  string                 `json:"submittedAt"`
}

type Output struct {
	Indexed    bool   `json:"indexed"`
	IndexName  string `json:"indexName"`
	DocumentID string `json:"documentId"`
}
