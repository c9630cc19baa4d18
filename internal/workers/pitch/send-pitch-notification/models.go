package sendpitchnotification

import (
	"pitch-workers/internal/models"
	"pitch-workers/internal/pitch"
)

type Input struct {
	FormData     map[string]interface{} `json:"formData"`
	Score        *pitch.Score           `json:"score,omitempty"`
	Offer        *pitch.Offer           `json:"offer,omitempty"`
	SubmissionID string                 `json:"submissionId,omitempty"`
}

type Output struct {
	Deliveries         []models.Delivery `json:"notificationDeliveries"`
	NotificationStatus string            `json:"notificationStatus"`
	SentAt             string            `json:"notificationSentAt"`
}
