// internal/workers/crm/relay-pitch-lead/payload.go
package relaypitchlead

import (
	"strings"
	"time"

	"pitch-workers/internal/pitch"
)

// NewLeadPayload flattens one assessed submission.
func NewLeadPayload(q pitch.Questionnaire, s pitch.Score, o pitch.Offer, submittedAt time.Time, source string) LeadPayload {
	return LeadPayload{
		Name:        q.FullName,
		Email:       q.Email,
		Location:    q.Location,
		LinkedinURL: q.LinkedinURL,

		IdeaSummary:       q.IdeaSummary,
		ProblemSolved:     q.ProblemSolved,
		TargetSegment:     q.TargetSegment,
		CurrentWorkaround: q.CurrentWorkaround,

		MarketSize:   q.MarketSize,
		Competitors:  q.Competitors,
		SwitchReason: q.SwitchReason,

		RevenueModel: string(q.RevenueModel),
		PricePoint:   q.PricePoint,
		YearOneGoal:  q.YearOneGoal,

		CommitmentHours:    string(q.CommitmentHours),
		PriorLaunch:        string(q.PriorLaunch),
		PriorLaunchDetails: q.PriorLaunchDetails,
		TractionType:       string(q.TractionType),
		TractionValue:      q.TractionValue,
		AudienceAssets:     q.AudienceAssets,

		First100Plan:   q.First100Plan,
		PrimaryChannel: string(q.PrimaryChannel),
		LaunchBudget:   q.LaunchBudget,

		MustHaveFeatures:   q.MustHaveFeatures,
		NiceToHaveFeatures: q.NiceToHaveFeatures,
		IntegrationsNeeded: q.IntegrationsNeeded,
		Platform:           string(q.Platform),

		ValidationReady: string(q.ValidationReady),
		AdBudgetRange:   string(q.AdBudgetRange),
		Timeframe:       q.Timeframe,
		DealPreference:  string(q.DealPreference),

		PitchDeckURL: q.PitchDeckURL,
		LoomVideoURL: q.LoomVideoURL,

		TotalScore:             s.Total,
		ProblemClarityScore:    s.ProblemClarity,
		MarketScore:            s.Market,
		SwitchReasonScore:      s.SwitchReason,
		BusinessModelScore:     s.BusinessModel,
		FounderCommitmentScore: s.FounderCommitment,
		TractionScore:          s.Traction,
		GTMPlanScore:           s.GTMPlan,
		ValidationBudgetScore:  s.ValidationBudget,
		TechFeasibilityScore:   s.TechFeasibility,
		TimelineRealismScore:   s.TimelineRealism,
		Flags:                  strings.Join(s.FlagStrings(), ", "),

		ScoreBand:          o.Band.String(),
		RecommendedPackage: o.BasePackage.Name,
		PackagePrice:       o.BasePackage.Price,
		TotalOfferPrice:    o.TotalPrice,
		NextStep:           o.NextStep,

		SubmissionDate: submittedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
		Source:         source,
	}
}
