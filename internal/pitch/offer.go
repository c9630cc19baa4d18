package pitch

import "fmt"

// Band is the coarse classification of a total score.
type Band uint8

const (
	BandLow Band = iota
	BandMedium
	BandHigh
)

const (
	highBandThreshold   = 75
	mediumBandThreshold = 55
)

// BandFor maps a total score to its band. It is the only banding table.
func BandFor(total int) Band {
	switch {
	case total >= highBandThreshold:
		return BandHigh
	case total >= mediumBandThreshold:
		return BandMedium
	default:
		return BandLow
	}
}

func (b Band) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandMedium:
		return "medium"
	case BandLow:
		return "low"
	}
	return fmt.Sprintf("Band(%d)", uint8(b))
}

func (b Band) MarshalText() ([]byte, error) {
	if b > BandHigh {
		return nil, fmt.Errorf("pitch: invalid band %d", uint8(b))
	}
	return []byte(b.String()), nil
}

func (b *Band) UnmarshalText(text []byte) error {
	switch string(text) {
	case "high":
		*b = BandHigh
	case "medium":
		*b = BandMedium
	case "low":
		*b = BandLow
	default:
		return fmt.Errorf("pitch: unknown band %q", text)
	}
	return nil
}

// Add-on identifiers.
const (
	AddOnLaunchPlan          = "launch-plan"
	AddOnAudienceBuild       = "audience-build"
	AddOnIntegrationPlanning = "integration-planning"
)

// Package is the base engagement recommended for a pitch.
type Package struct {
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description"`
}

// AddOn is an optional service the pitch qualifies for. Triggered means the
// founder selected it and its price counts toward the total.
type AddOn struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description"`
	Triggered   bool   `json:"triggered"`
}

type Offer struct {
	Band           Band    `json:"scoreBand"`
	BasePackage    Package `json:"basePackage"`
	AddOns         []AddOn `json:"addOns"`
	TotalPrice     int     `json:"totalPrice"`
	NextStep       string  `json:"nextStep"`
	CallBookingURL string  `json:"callBookingUrl,omitempty"`
	PaymentURL     string  `json:"paymentUrl,omitempty"`
}

// TriggeredAddOns returns the add-ons that count toward the total.
func (o Offer) TriggeredAddOns() []AddOn {
	var out []AddOn
	for _, a := range o.AddOns {
		if a.Triggered {
			out = append(out, a)
		}
	}
	return out
}

// Links holds the outbound URLs embedded in offers.
type Links struct {
	KickoffCallURL      string `mapstructure:"kickoff_call_url" json:"kickoffCallUrl"`
	ConsultationCallURL string `mapstructure:"consultation_call_url" json:"consultationCallUrl"`
	PaymentBaseURL      string `mapstructure:"payment_base_url" json:"paymentBaseUrl"`
}

func DefaultLinks() Links {
	return Links{
		KickoffCallURL:      "https://calendly.com/spencertoogood/validation-kickoff",
		ConsultationCallURL: "https://calendly.com/spencertoogood/validation-consultation",
		PaymentBaseURL:      "https://buy.stripe.com/validation",
	}
}

var (
	packageValidateAndBuild = Package{
		Name:        "Validate + Build Track",
		Price:       1500,
		Description: "Market validation with credit toward build. Includes prototype, landing page, ad testing, and market report.",
	}
	packageValidationOnly = Package{
		Name:        "Validation Only",
		Price:       1500,
		Description: "Fast market test to validate demand. Build decision after results.",
	}
	packageConsultation = Package{
		Name:        "Validation Consultation",
		Price:       0,
		Description: "Feedback on your pitch and recommended preparation steps before validation.",
	}
)

var nextSteps = map[Band]string{
	BandHigh:   "Book a kickoff call to discuss validation scope and timeline. Payment secures your slot.",
	BandMedium: "Start with validation to prove market demand. Build decision after results.",
	BandLow:    "We recommend strengthening your pitch before validation. Here's a preparation plan to get ready.",
}

// OfferBuilder derives offers. The zero value has no links; use
// NewOfferBuilder.
type OfferBuilder struct {
	links Links
}

func NewOfferBuilder(links Links) *OfferBuilder {
	return &OfferBuilder{links: links}
}

// Build derives the offer for q from an already computed score. Selected
// holds add-on ids chosen by the founder; unknown or ineligible ids are
// ignored.
func (b *OfferBuilder) Build(q Questionnaire, score Score, selected []string) Offer {
	band := BandFor(score.Total)
	base := basePackage(band, q)

	chosen := make(map[string]bool, len(selected))
	for _, id := range selected {
		chosen[id] = true
	}

	addOns := eligibleAddOns(q)
	total := base.Price
	for i := range addOns {
		if chosen[addOns[i].ID] {
			addOns[i].Triggered = true
			total += addOns[i].Price
		}
	}

	offer := Offer{
		Band:        band,
		BasePackage: base,
		AddOns:      addOns,
		TotalPrice:  total,
		NextStep:    nextSteps[band],
	}

	switch band {
	case BandHigh:
		offer.CallBookingURL = b.links.KickoffCallURL
	case BandMedium:
		offer.CallBookingURL = b.links.ConsultationCallURL
	}
	if total > 0 && b.links.PaymentBaseURL != "" {
		offer.PaymentURL = fmt.Sprintf("%s?amount=%d", b.links.PaymentBaseURL, total*100)
	}
	return offer
}

// BuildOffer derives an offer using DefaultLinks.
func BuildOffer(q Questionnaire, score Score, selected []string) Offer {
	return NewOfferBuilder(DefaultLinks()).Build(q, score, selected)
}

func basePackage(band Band, q Questionnaire) Package {
	switch {
	case band == BandHigh && q.ValidationReady == Yes &&
		(q.AdBudgetRange == AdBudget500 || q.AdBudgetRange == AdBudget1000Plus):
		return packageValidateAndBuild
	case band == BandMedium || q.ValidationReady == No:
		return packageValidationOnly
	default:
		return packageConsultation
	}
}

func eligibleAddOns(q Questionnaire) []AddOn {
	addOns := []AddOn{}

	if q.First100Plan != "" && textLen(q.First100Plan) < 40 {
		addOns = append(addOns, AddOn{
			ID:          AddOnLaunchPlan,
			Name:        "Launch Plan Service",
			Price:       1000,
			Description: "Complete go-to-market strategy including ICP, channels, funnels, and first 500 users roadmap",
		})
	}

	noTraction := q.TractionValue == "" || q.TractionValue == "0"
	noAudience := q.AudienceAssets == "" || q.AudienceAssets == "0"
	if noTraction && noAudience {
		addOns = append(addOns, AddOn{
			ID:          AddOnAudienceBuild,
			Name:        "Audience Build Sprint",
			Price:       1000,
			Description: "Build initial audience and gather market insights before validation",
		})
	}

	if q.IntegrationsNeeded != "" && commaParts(q.IntegrationsNeeded) > 3 {
		addOns = append(addOns, AddOn{
			ID:          AddOnIntegrationPlanning,
			Name:        "Integration Planning",
			Price:       500,
			Description: "Technical architecture and API planning for complex integrations",
		})
	}
	return addOns
}

// SubjectLine is the subject of the assessment email sent to the founder.
func (o Offer) SubjectLine() string {
	var verdict string
	switch o.Band {
	case BandHigh:
		verdict = "Strong Fit!"
	case BandMedium:
		verdict = "Validation Recommended"
	default:
		verdict = "Preparation Needed"
	}
	return "Your Pitch Assessment - " + verdict
}

// PackageSummary is "<package> - $<total>" as shown to the admin.
func (o Offer) PackageSummary() string {
	return fmt.Sprintf("%s - $%d", o.BasePackage.Name, o.TotalPrice)
}
