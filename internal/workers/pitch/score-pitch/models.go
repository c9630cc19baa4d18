// internal/workers/pitch/score-pitch/models.go
package scorepitch

import "pitch-workers/internal/pitch"

type Input struct {
	FormData map[string]interface{} `json:"formData"`
}

type Output struct {
	Score      pitch.Score `json:"score"`
	ScoreTotal int         `json:"scoreTotal"`
	Flags      []string    `json:"flags"`
	Cached     bool        `json:"scoreCached"`
}
