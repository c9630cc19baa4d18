package pitch

// Assessment bundles everything derived from one submission.
type Assessment struct {
	Questionnaire Questionnaire `json:"formData"`
	Score         Score         `json:"score"`
	Offer         Offer         `json:"offer"`
	Prompts       []Prompt      `json:"prompts"`
}

// Engine scores questionnaires and builds offers with a fixed set of links.
type Engine struct {
	offers *OfferBuilder
}

func NewEngine(links Links) *Engine {
	return &Engine{offers: NewOfferBuilder(links)}
}

// Assess validates q and, when it is complete, scores it and builds the
// offer. An incomplete record yields an *InvalidQuestionnaireError.
func (e *Engine) Assess(q Questionnaire, selected []string) (Assessment, error) {
	if err := Validate(q); err != nil {
		return Assessment{}, err
	}
	score := Evaluate(q)
	return Assessment{
		Questionnaire: q,
		Score:         score,
		Offer:         e.offers.Build(q, score, selected),
		Prompts:       Prompts(q),
	}, nil
}

// Score validates q and scores it.
func (e *Engine) Score(q Questionnaire) (Score, error) {
	if err := Validate(q); err != nil {
		return Score{}, err
	}
	return Evaluate(q), nil
}

// Offer builds an offer from a score computed earlier.
func (e *Engine) Offer(q Questionnaire, score Score, selected []string) Offer {
	return e.offers.Build(q, score, selected)
}
