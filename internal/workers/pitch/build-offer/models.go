// internal/workers/pitch/build-offer/models.go
package buildoffer

import "pitch-workers/internal/pitch"

type Input struct {
	FormData         map[string]interface{} `json:"formData"`
	Score            *pitch.Score           `json:"score"`
	SelectedAddOnIDs []string               `json:"selectedAddOnIds"`
}

type Output struct {
	Offer      pitch.Offer    `json:"offer"`
	ScoreBand  pitch.Band     `json:"scoreBand"`
	TotalPrice int            `json:"totalPrice"`
	Prompts    []pitch.Prompt `json:"prompts"`
}
