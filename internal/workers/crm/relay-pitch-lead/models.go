// internal/workers/crm/relay-pitch-lead/models.go
package relaypitchlead

import "pitch-workers/internal/pitch"

type Input struct {
	FormData    map[string]interface{} `json:"formData"`
	Score       pitch.Score            `json:"score"`
	Offer       pitch.Offer            `json:"offer"`
	SubmittedAt string                 `json:"submittedAt"`
}

type Output struct {
	Relayed        bool   `json:"crmRelayed"`
	StatusCode     int    `json:"crmStatusCode,omitempty"`
	SkipReason     string `json:"crmSkipReason,omitempty"`
	SubmissionDate string `json:"crmSubmissionDate,omitempty"`
}

// LeadPayload is the flat record posted to the CRM webhook. Field order
// follows the intake form.
type LeadPayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Location    string `json:"location"`
	LinkedinURL string `json:"linkedin_url"`

	IdeaSummary       string `json:"idea_summary"`
	ProblemSolved     string `json:"problem_solved"`
	TargetSegment     string `json:"target_segment"`
	CurrentWorkaround string `json:"current_workaround"`

	MarketSize   string `json:"market_size"`
	Competitors  string `json:"competitors"`
	SwitchReason string `json:"switch_reason"`

	RevenueModel string `json:"revenue_model"`
	PricePoint   string `json:"price_point"`
	YearOneGoal  string `json:"year_one_goal"`

	CommitmentHours    string `json:"commitment_hours"`
	PriorLaunch        string `json:"prior_launch"`
	PriorLaunchDetails string `json:"prior_launch_details"`
	TractionType       string `json:"traction_type"`
	TractionValue      string `json:"traction_value"`
	AudienceAssets     string `json:"audience_assets"`

	First100Plan   string `json:"first_100_plan"`
	PrimaryChannel string `json:"primary_channel"`
	LaunchBudget   string `json:"launch_budget"`

	MustHaveFeatures   string `json:"must_have_features"`
	NiceToHaveFeatures string `json:"nice_to_have_features"`
	IntegrationsNeeded string `json:"integrations_needed"`
	Platform           string `json:"platform"`

	ValidationReady string `json:"validation_ready"`
	AdBudgetRange   string `json:"ad_budget_range"`
	Timeframe       string `json:"timeframe"`
	DealPreference  string `json:"deal_preference"`

	PitchDeckURL string `json:"pitch_deck_url"`
	LoomVideoURL string `json:"loom_video_url"`

	TotalScore             int    `json:"total_score"`
	ProblemClarityScore    int    `json:"problem_clarity_score"`
	MarketScore            int    `json:"market_score"`
	SwitchReasonScore      int    `json:"switch_reason_score"`
	BusinessModelScore     int    `json:"business_model_score"`
	FounderCommitmentScore int    `json:"founder_commitment_score"`
	TractionScore          int    `json:"traction_score"`
	GTMPlanScore           int    `json:"gtm_plan_score"`
	ValidationBudgetScore  int    `json:"validation_budget_score"`
	TechFeasibilityScore   int    `json:"tech_feasibility_score"`
	TimelineRealismScore   int    `json:"timeline_realism_score"`
	Flags                  string `json:"flags"`

	ScoreBand          string `json:"score_band"`
	RecommendedPackage string `json:"recommended_package"`
	PackagePrice       int    `json:"package_price"`
	TotalOfferPrice    int    `json:"total_offer_price"`
	NextStep           string `json:"next_step"`

	SubmissionDate string `json:"submission_date"`
	Source         string `json:"source"`
}
