package pitch

// Section is one step of the intake wizard.
type Section struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
}

var sections = []Section{
	{ID: "founder", Title: "Founder", Fields: []string{"fullName", "email", "location", "linkedinUrl"}},
	{ID: "idea", Title: "Your Idea", Fields: []string{"ideaSummary", "problemSolved", "targetSegment", "currentWorkaround"}},
	{ID: "market", Title: "Market & Competition", Fields: []string{"marketSize", "competitors", "switchReason"}},
	{ID: "business-model", Title: "Business Model", Fields: []string{"revenueModel", "pricePoint", "yearOneGoal"}},
	{ID: "commitment", Title: "Commitment & Traction", Fields: []string{"commitmentHours", "priorLaunch", "priorLaunchDetails", "tractionType", "tractionValue", "audienceAssets"}},
	{ID: "go-to-market", Title: "Go-to-Market", Fields: []string{"first100Plan", "primaryChannel", "launchBudget"}},
	{ID: "tech-scope", Title: "Tech Scope", Fields: []string{"mustHaveFeatures", "niceToHaveFeatures", "integrationsNeeded", "platform"}},
	{ID: "validation", Title: "Validation & Deal", Fields: []string{"validationReady", "adBudgetRange", "timeframe", "dealPreference", "pitchDeckUrl", "loomVideoUrl"}},
	{ID: "review", Title: "Review & Submit"},
}

// Sections returns the wizard steps in order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

func SectionByID(id string) (Section, bool) {
	for _, s := range sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

type PromptType string

const (
	PromptAddOn   PromptType = "addon"
	PromptWarning PromptType = "warning"
)

// Prompt is a hint shown while the founder fills the wizard.
type Prompt struct {
	ID          string     `json:"id"`
	Type        PromptType `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       int        `json:"price,omitempty"`
	Field       string     `json:"field"`
}

// Prompts computes the wizard hints for a possibly incomplete record. The
// audience-build prompt only fires on an explicit "0" traction value, unlike
// the add-on eligibility which also accepts an empty one.
func Prompts(q Questionnaire) []Prompt {
	prompts := []Prompt{}

	if q.First100Plan != "" && textLen(q.First100Plan) < 40 {
		prompts = append(prompts, Prompt{
			ID:          AddOnLaunchPlan,
			Type:        PromptAddOn,
			Title:       "Launch Plan Service",
			Description: "Include ICP, channels, funnels, first 500 users roadmap",
			Price:       1000,
			Field:       "launchPlan",
		})
	}

	if q.ValidationReady == No {
		prompts = append(prompts, Prompt{
			ID:          "validation-warning",
			Type:        PromptWarning,
			Title:       "Validation Required",
			Description: "We only build after validation. You can book Validation only.",
			Field:       "validationWarning",
		})
	}

	if q.TractionValue == "0" && (q.AudienceAssets == "" || q.AudienceAssets == "0") {
		prompts = append(prompts, Prompt{
			ID:          AddOnAudienceBuild,
			Type:        PromptAddOn,
			Title:       "Audience Build Sprint",
			Description: "Build initial audience and gather market insights",
			Price:       1000,
			Field:       "audienceBuild",
		})
	}
	return prompts
}
