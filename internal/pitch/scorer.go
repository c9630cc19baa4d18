package pitch

import (
	"regexp"
	"strings"
)

// Flag is a risk marker raised alongside the score.
type Flag string

const (
	FlagLegalCompliance      Flag = "Legal/compliance risk"
	FlagThirdPartyDependency Flag = "High third-party dependency risk"
	FlagDataPrivacy          Flag = "Data privacy risk"
	FlagPaymentIntegration   Flag = "Payment integration needed"
)

// Maximum points per category.
const (
	MaxProblemClarity    = 15
	MaxMarket            = 15
	MaxSwitchReason      = 10
	MaxBusinessModel     = 10
	MaxFounderCommitment = 10
	MaxTraction          = 10
	MaxGTMPlan           = 10
	MaxValidationBudget  = 8
	MaxTechFeasibility   = 7
	MaxTimelineRealism   = 5
	MaxTotal             = 100
)

// Score is the result of scoring a questionnaire. Total is always the sum of
// the ten categories.
type Score struct {
	ProblemClarity    int    `json:"problemClarity"`
	Market            int    `json:"market"`
	SwitchReason      int    `json:"switchReason"`
	BusinessModel     int    `json:"businessModel"`
	FounderCommitment int    `json:"founderCommitment"`
	Traction          int    `json:"traction"`
	GTMPlan           int    `json:"gtmPlan"`
	ValidationBudget  int    `json:"validationBudget"`
	TechFeasibility   int    `json:"techFeasibility"`
	TimelineRealism   int    `json:"timelineRealism"`
	Total             int    `json:"total"`
	Flags             []Flag `json:"flags"`
}

// Category is one line of a score breakdown.
type Category struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int    `json:"value"`
	Max   int    `json:"max"`
}

// Breakdown lists the categories in display order.
func (s Score) Breakdown() []Category {
	return []Category{
		{"problemClarity", "Problem Clarity", s.ProblemClarity, MaxProblemClarity},
		{"market", "Market", s.Market, MaxMarket},
		{"switchReason", "Switch Reason", s.SwitchReason, MaxSwitchReason},
		{"businessModel", "Business Model", s.BusinessModel, MaxBusinessModel},
		{"founderCommitment", "Founder Commitment", s.FounderCommitment, MaxFounderCommitment},
		{"traction", "Traction", s.Traction, MaxTraction},
		{"gtmPlan", "GTM Plan", s.GTMPlan, MaxGTMPlan},
		{"validationBudget", "Validation Budget", s.ValidationBudget, MaxValidationBudget},
		{"techFeasibility", "Tech Feasibility", s.TechFeasibility, MaxTechFeasibility},
		{"timelineRealism", "Timeline Realism", s.TimelineRealism, MaxTimelineRealism},
	}
}

// FlagStrings returns the flags as plain strings, never nil.
func (s Score) FlagStrings() []string {
	out := make([]string, 0, len(s.Flags))
	for _, f := range s.Flags {
		out = append(out, string(f))
	}
	return out
}

// asciiFold turns a lowercase ASCII word into a pattern matching it in any
// ASCII case. RE2's (?i) also folds the Kelvin sign into k and the long s
// into s, which the form's case-insensitive match does not.
func asciiFold(word string) string {
	var b strings.Builder
	for _, r := range word {
		b.WriteString("[" + string(r) + strings.ToUpper(string(r)) + "]")
	}
	return b.String()
}

// formLower lowercases the way the form does before its substring checks:
// the simple Unicode mapping, except that U+0130 becomes "i" followed by a
// combining dot, so "FİNANCE" does not contain "finance".
func formLower(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "\u0130", "i\u0307"))
}

// formSpace matches the white space class of the form's pattern engine, which
// is wider than RE2's \s.
const formSpace = `[\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`

var (
	marketSizePattern   = regexp.MustCompile(`\$[\d,]+|\d+[KkMmBb]|\d+` + formSpace + `*(` + asciiFold("thousand") + `|` + asciiFold("million") + `|` + asciiFold("billion") + `)`)
	pricePointPattern   = regexp.MustCompile(`\$\d+`)
	yearOneGoalPattern  = regexp.MustCompile(`\$[\d,]+[KkMmBb]?|\d+[KkMmBb]`)
	launchBudgetPattern = regexp.MustCompile(`\$[\d,]+`)
)

// Evaluate scores q. It never fails: empty optional answers simply earn no
// points.
func Evaluate(q Questionnaire) Score {
	s := Score{
		ProblemClarity:    scoreProblemClarity(q),
		Market:            scoreMarket(q),
		SwitchReason:      scoreSwitchReason(q),
		BusinessModel:     scoreBusinessModel(q),
		FounderCommitment: scoreFounderCommitment(q),
		Traction:          scoreTraction(q),
		GTMPlan:           scoreGTMPlan(q),
		ValidationBudget:  scoreValidationBudget(q),
		TechFeasibility:   scoreTechFeasibility(q),
		TimelineRealism:   scoreTimelineRealism(q),
		Flags:             riskFlags(q),
	}
	s.Total = s.ProblemClarity + s.Market + s.SwitchReason + s.BusinessModel +
		s.FounderCommitment + s.Traction + s.GTMPlan + s.ValidationBudget +
		s.TechFeasibility + s.TimelineRealism
	return s
}

func scoreProblemClarity(q Questionnaire) int {
	score := 0
	if q.IdeaSummary != "" {
		n := textLen(q.IdeaSummary)
		switch {
		case n > 50 && n < 200:
			score += 7
		case n >= 200:
			score += 5
		default:
			score += 3
		}
	}
	if q.ProblemSolved != "" {
		n := textLen(q.ProblemSolved)
		switch {
		case n > 100:
			score += 8
		case n > 50:
			score += 5
		default:
			score += 2
		}
	}
	return min(score, MaxProblemClarity)
}

func scoreMarket(q Questionnaire) int {
	score := 0
	if q.MarketSize != "" {
		switch {
		case marketSizePattern.MatchString(q.MarketSize):
			score += 8
		case textLen(q.MarketSize) > 20:
			score += 5
		default:
			score += 2
		}
	}
	switch n := textLen(q.Competitors); {
	case n > 100:
		score += 7
	case n > 50:
		score += 4
	case n > 0:
		score += 2
	}
	return min(score, MaxMarket)
}

func scoreSwitchReason(q Questionnaire) int {
	if q.SwitchReason == "" {
		return 0
	}
	switch n := textLen(q.SwitchReason); {
	case n > 150:
		return 10
	case n > 75:
		return 7
	case n > 30:
		return 4
	default:
		return 2
	}
}

func scoreBusinessModel(q Questionnaire) int {
	score := 0
	if q.RevenueModel != "" {
		score += 3
	}
	if q.PricePoint != "" {
		if pricePointPattern.MatchString(q.PricePoint) {
			score += 4
		} else {
			score += 2
		}
	}
	if q.YearOneGoal != "" {
		if yearOneGoalPattern.MatchString(q.YearOneGoal) {
			score += 3
		} else {
			score += 1
		}
	}
	return min(score, MaxBusinessModel)
}

func scoreFounderCommitment(q Questionnaire) int {
	switch q.CommitmentHours {
	case Commitment20Plus, Commitment10To20:
		return 10
	case Commitment5To10:
		return 5
	default:
		return 0
	}
}

func scoreTraction(q Questionnaire) int {
	if q.TractionType == "" || q.TractionType == TractionNone {
		return 0
	}

	raw := q.TractionValue
	if raw == "" {
		raw = "0"
	}
	value, ok := leadingInt(raw)

	switch q.TractionType {
	case TractionPayingUsers:
		return 10
	case TractionPilots:
		return 7
	case TractionWaitlist:
		if ok && value >= 100 {
			return 4
		}
		return 2
	default:
		return 0
	}
}

func scoreGTMPlan(q Questionnaire) int {
	score := 0
	switch n := textLen(q.First100Plan); {
	case n > 100:
		score += 6
	case n > 50:
		score += 4
	case n > 20:
		score += 2
	}
	if q.PrimaryChannel != "" {
		score += 2
	}
	if q.LaunchBudget != "" && launchBudgetPattern.MatchString(q.LaunchBudget) {
		score += 2
	}
	return min(score, MaxGTMPlan)
}

func scoreValidationBudget(q Questionnaire) int {
	if q.ValidationReady == No {
		return 0
	}
	switch q.AdBudgetRange {
	case AdBudget1000Plus, AdBudget500:
		return 8
	case AdBudget200:
		return 5
	default:
		return 0
	}
}

func scoreTechFeasibility(q Questionnaire) int {
	score := MaxTechFeasibility
	mustHaveLen := textLen(q.MustHaveFeatures)

	if q.MustHaveFeatures == "" || mustHaveLen < 50 {
		score -= 3
	}

	// "ai" and "ml" are plain substrings, so words like "email" count.
	if q.IntegrationsNeeded != "" {
		integrations := formLower(q.IntegrationsNeeded)
		complex := containsAny(integrations, "payment", "blockchain", "ai", "ml", "machine learning")
		if complex && q.MustHaveFeatures != "" && mustHaveLen < 100 {
			score -= 2
		}
	}

	if q.Platform == PlatformCombo {
		score -= 1
	}
	return max(score, 0)
}

func scoreTimelineRealism(q Questionnaire) int {
	score := MaxTimelineRealism
	timeframe := formLower(q.Timeframe)

	if q.Platform == PlatformCombo && strings.Contains(timeframe, "immediate") {
		score -= 2
	}
	if q.MustHaveFeatures != "" && commaParts(q.MustHaveFeatures) > 10 && strings.Contains(timeframe, "1 month") {
		score -= 2
	}
	return max(score, 0)
}

func riskFlags(q Questionnaire) []Flag {
	flags := []Flag{}
	integrations := formLower(q.IntegrationsNeeded)
	segment := formLower(q.TargetSegment)
	mustHave := formLower(q.MustHaveFeatures)

	if containsAny(integrations, "financial", "payment") || containsAny(segment, "healthcare", "finance") {
		flags = append(flags, FlagLegalCompliance)
	}
	if q.IntegrationsNeeded != "" && commaParts(q.IntegrationsNeeded) > 5 {
		flags = append(flags, FlagThirdPartyDependency)
	}
	if containsAny(mustHave, "personal data", "user data") || strings.Contains(segment, "children") {
		flags = append(flags, FlagDataPrivacy)
	}
	if q.RevenueModel == RevenueSubscription && !strings.Contains(integrations, "payment") {
		flags = append(flags, FlagPaymentIntegration)
	}
	return flags
}
