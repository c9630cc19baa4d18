// Package pitch scores founder questionnaires and derives the commercial offer
// that goes back to the founder. Everything in this package is pure: no I/O,
// no environment lookups and no shared state.
package pitch

// RevenueModel is how the founder plans to charge.
type RevenueModel string

const (
	RevenueSubscription RevenueModel = "subscription"
	RevenueOneOff       RevenueModel = "one-off"
	RevenueOther        RevenueModel = "other"
)

func (v RevenueModel) Valid() bool {
	switch v {
	case RevenueSubscription, RevenueOneOff, RevenueOther:
		return true
	}
	return false
}

// CommitmentHours is the weekly time the founder can give the project.
type CommitmentHours string

const (
	Commitment0To5   CommitmentHours = "0-5"
	Commitment5To10  CommitmentHours = "5-10"
	Commitment10To20 CommitmentHours = "10-20"
	Commitment20Plus CommitmentHours = "20+"
)

func (v CommitmentHours) Valid() bool {
	switch v {
	case Commitment0To5, Commitment5To10, Commitment10To20, Commitment20Plus:
		return true
	}
	return false
}

// YesNo is used by the priorLaunch and validationReady answers.
type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)

func (v YesNo) Valid() bool { return v == Yes || v == No }

type TractionType string

const (
	TractionWaitlist    TractionType = "waitlist"
	TractionPayingUsers TractionType = "paying-users"
	TractionPilots      TractionType = "pilots"
	TractionNone        TractionType = "none"
)

func (v TractionType) Valid() bool {
	switch v {
	case TractionWaitlist, TractionPayingUsers, TractionPilots, TractionNone:
		return true
	}
	return false
}

type Channel string

const (
	ChannelPaidAds      Channel = "paid-ads"
	ChannelPartnerships Channel = "partnerships"
	ChannelContent      Channel = "content"
	ChannelSEO          Channel = "seo"
	ChannelDirectSales  Channel = "direct-sales"
)

func (v Channel) Valid() bool {
	switch v {
	case ChannelPaidAds, ChannelPartnerships, ChannelContent, ChannelSEO, ChannelDirectSales:
		return true
	}
	return false
}

type Platform string

const (
	PlatformWeb     Platform = "web"
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformCombo   Platform = "combo"
)

func (v Platform) Valid() bool {
	switch v {
	case PlatformWeb, PlatformIOS, PlatformAndroid, PlatformCombo:
		return true
	}
	return false
}

// AdBudget is the monthly ad spend bracket available for validation.
type AdBudget string

const (
	AdBudgetNone     AdBudget = "0"
	AdBudget200      AdBudget = "200"
	AdBudget500      AdBudget = "500"
	AdBudget1000Plus AdBudget = "1000+"
)

func (v AdBudget) Valid() bool {
	switch v {
	case AdBudgetNone, AdBudget200, AdBudget500, AdBudget1000Plus:
		return true
	}
	return false
}

type DealPreference string

const (
	Deal5kTenPercent DealPreference = "5k-10percent"
	Deal1kTwentyFive DealPreference = "1k-25percent"
	DealEquityOnly   DealPreference = "0-40to50percent"
	DealOpen         DealPreference = "open"
)

func (v DealPreference) Valid() bool {
	switch v {
	case Deal5kTenPercent, Deal1kTwentyFive, DealEquityOnly, DealOpen:
		return true
	}
	return false
}

// Questionnaire is a finalized pitch submission. Free text fields may be
// empty; enumerated fields hold one of their declared values once the record
// has passed through Builder.Build.
type Questionnaire struct {
	// Founder
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Location    string `json:"location,omitempty"`
	LinkedinURL string `json:"linkedinUrl,omitempty"`

	// Idea
	IdeaSummary       string `json:"ideaSummary"`
	ProblemSolved     string `json:"problemSolved"`
	TargetSegment     string `json:"targetSegment"`
	CurrentWorkaround string `json:"currentWorkaround,omitempty"`

	// Market
	MarketSize   string `json:"marketSize,omitempty"`
	Competitors  string `json:"competitors,omitempty"`
	SwitchReason string `json:"switchReason"`

	// Business model
	RevenueModel RevenueModel `json:"revenueModel"`
	PricePoint   string       `json:"pricePoint"`
	YearOneGoal  string       `json:"yearOneGoal"`

	// Commitment & traction
	CommitmentHours    CommitmentHours `json:"commitmentHours"`
	PriorLaunch        YesNo           `json:"priorLaunch"`
	PriorLaunchDetails string          `json:"priorLaunchDetails,omitempty"`
	TractionType       TractionType    `json:"tractionType"`
	TractionValue      string          `json:"tractionValue,omitempty"`
	AudienceAssets     string          `json:"audienceAssets,omitempty"`

	// Go-to-market
	First100Plan   string  `json:"first100Plan"`
	PrimaryChannel Channel `json:"primaryChannel"`
	LaunchBudget   string  `json:"launchBudget,omitempty"`

	// Tech scope
	MustHaveFeatures   string   `json:"mustHaveFeatures"`
	NiceToHaveFeatures string   `json:"niceToHaveFeatures,omitempty"`
	IntegrationsNeeded string   `json:"integrationsNeeded,omitempty"`
	Platform           Platform `json:"platform"`

	// Validation & deal
	ValidationReady YesNo          `json:"validationReady"`
	AdBudgetRange   AdBudget       `json:"adBudgetRange"`
	Timeframe       string         `json:"timeframe,omitempty"`
	DealPreference  DealPreference `json:"dealPreference"`

	// Attachments
	PitchDeckURL string `json:"pitchDeckUrl,omitempty"`
	LoomVideoURL string `json:"loomVideoUrl,omitempty"`
}
