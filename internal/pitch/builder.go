package pitch

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidQuestionnaire matches any *InvalidQuestionnaireError via errors.Is.
var ErrInvalidQuestionnaire = errors.New("INVALID_QUESTIONNAIRE")

// InvalidQuestionnaireError reports a record that cannot be scored yet.
// Missing lists required fields that are empty, Invalid lists enumerated
// fields holding a value outside their vocabulary.
type InvalidQuestionnaireError struct {
	Missing []string `json:"missing,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
}

func (e *InvalidQuestionnaireError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid values: "+strings.Join(e.Invalid, ", "))
	}
	return "invalid questionnaire: " + strings.Join(parts, "; ")
}

func (e *InvalidQuestionnaireError) Is(target error) bool {
	return target == ErrInvalidQuestionnaire
}

// Fields returns every offending field name, missing ones first.
func (e *InvalidQuestionnaireError) Fields() []string {
	out := make([]string, 0, len(e.Missing)+len(e.Invalid))
	out = append(out, e.Missing...)
	return append(out, e.Invalid...)
}

type field struct {
	name     string
	required bool
	options  []string
	valid    func(string) bool
	get      func(*Questionnaire) string
	set      func(*Questionnaire, string)
}

func text(name string, required bool, ptr func(*Questionnaire) *string) field {
	return field{
		name:     name,
		required: required,
		get:      func(q *Questionnaire) string { return *ptr(q) },
		set:      func(q *Questionnaire, v string) { *ptr(q) = v },
	}
}

func enum[T ~string](name string, ptr func(*Questionnaire) *T, valid func(T) bool, options ...T) field {
	opts := make([]string, len(options))
	for i, o := range options {
		opts[i] = string(o)
	}
	return field{
		name:     name,
		required: true,
		options:  opts,
		valid:    func(v string) bool { return valid(T(v)) },
		get:      func(q *Questionnaire) string { return string(*ptr(q)) },
		set:      func(q *Questionnaire, v string) { *ptr(q) = T(v) },
	}
}

// fields lists every questionnaire field in form order.
var fields = []field{
	text("fullName", true, func(q *Questionnaire) *string { return &q.FullName }),
	text("email", true, func(q *Questionnaire) *string { return &q.Email }),
	text("location", false, func(q *Questionnaire) *string { return &q.Location }),
	text("linkedinUrl", false, func(q *Questionnaire) *string { return &q.LinkedinURL }),

	text("ideaSummary", true, func(q *Questionnaire) *string { return &q.IdeaSummary }),
	text("problemSolved", true, func(q *Questionnaire) *string { return &q.ProblemSolved }),
	text("targetSegment", true, func(q *Questionnaire) *string { return &q.TargetSegment }),
	text("currentWorkaround", false, func(q *Questionnaire) *string { return &q.CurrentWorkaround }),

	text("marketSize", false, func(q *Questionnaire) *string { return &q.MarketSize }),
	text("competitors", false, func(q *Questionnaire) *string { return &q.Competitors }),
	text("switchReason", true, func(q *Questionnaire) *string { return &q.SwitchReason }),

	enum("revenueModel", func(q *Questionnaire) *RevenueModel { return &q.RevenueModel }, RevenueModel.Valid,
		RevenueSubscription, RevenueOneOff, RevenueOther),
	text("pricePoint", true, func(q *Questionnaire) *string { return &q.PricePoint }),
	text("yearOneGoal", true, func(q *Questionnaire) *string { return &q.YearOneGoal }),

	enum("commitmentHours", func(q *Questionnaire) *CommitmentHours { return &q.CommitmentHours }, CommitmentHours.Valid,
		Commitment0To5, Commitment5To10, Commitment10To20, Commitment20Plus),
	enum("priorLaunch", func(q *Questionnaire) *YesNo { return &q.PriorLaunch }, YesNo.Valid, Yes, No),
	text("priorLaunchDetails", false, func(q *Questionnaire) *string { return &q.PriorLaunchDetails }),
	enum("tractionType", func(q *Questionnaire) *TractionType { return &q.TractionType }, TractionType.Valid,
		TractionWaitlist, TractionPayingUsers, TractionPilots, TractionNone),
	text("tractionValue", false, func(q *Questionnaire) *string { return &q.TractionValue }),
	text("audienceAssets", false, func(q *Questionnaire) *string { return &q.AudienceAssets }),

	text("first100Plan", true, func(q *Questionnaire) *string { return &q.First100Plan }),
	enum("primaryChannel", func(q *Questionnaire) *Channel { return &q.PrimaryChannel }, Channel.Valid,
		ChannelPaidAds, ChannelPartnerships, ChannelContent, ChannelSEO, ChannelDirectSales),
	text("launchBudget", false, func(q *Questionnaire) *string { return &q.LaunchBudget }),

	text("mustHaveFeatures", true, func(q *Questionnaire) *string { return &q.MustHaveFeatures }),
	text("niceToHaveFeatures", false, func(q *Questionnaire) *string { return &q.NiceToHaveFeatures }),
	text("integrationsNeeded", false, func(q *Questionnaire) *string { return &q.IntegrationsNeeded }),
	enum("platform", func(q *Questionnaire) *Platform { return &q.Platform }, Platform.Valid,
		PlatformWeb, PlatformIOS, PlatformAndroid, PlatformCombo),

	enum("validationReady", func(q *Questionnaire) *YesNo { return &q.ValidationReady }, YesNo.Valid, Yes, No),
	enum("adBudgetRange", func(q *Questionnaire) *AdBudget { return &q.AdBudgetRange }, AdBudget.Valid,
		AdBudgetNone, AdBudget200, AdBudget500, AdBudget1000Plus),
	text("timeframe", false, func(q *Questionnaire) *string { return &q.Timeframe }),
	enum("dealPreference", func(q *Questionnaire) *DealPreference { return &q.DealPreference }, DealPreference.Valid,
		Deal5kTenPercent, Deal1kTwentyFive, DealEquityOnly, DealOpen),

	text("pitchDeckUrl", false, func(q *Questionnaire) *string { return &q.PitchDeckURL }),
	text("loomVideoUrl", false, func(q *Questionnaire) *string { return &q.LoomVideoURL }),
}

var fieldIndex = func() map[string]field {
	m := make(map[string]field, len(fields))
	for _, f := range fields {
		m[f.name] = f
	}
	return m
}()

// FieldNames returns every questionnaire field in form order.
func FieldNames() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.name
	}
	return out
}

// Options returns the allowed values of an enumerated field, or nil for
// free-text and unknown fields.
func Options(name string) []string {
	f, ok := fieldIndex[name]
	if !ok || f.options == nil {
		return nil
	}
	return append([]string(nil), f.options...)
}

// RequiredFields returns the fields that must be non-empty before scoring.
func RequiredFields() []string {
	var out []string
	for _, f := range fields {
		if f.required {
			out = append(out, f.name)
		}
	}
	return out
}

// Validate checks q the same way Builder.Build does. It returns an
// *InvalidQuestionnaireError or nil.
func Validate(q Questionnaire) error {
	var e InvalidQuestionnaireError
	for _, f := range fields {
		v := f.get(&q)
		switch {
		case v == "":
			if f.required {
				e.Missing = append(e.Missing, f.name)
			}
		case f.valid != nil && !f.valid(v):
			e.Invalid = append(e.Invalid, f.name)
		}
	}
	if len(e.Missing) > 0 || len(e.Invalid) > 0 {
		return &e
	}
	return nil
}

// Builder accumulates answers across the wizard steps. Only Build hands out
// a Questionnaire, and only once every required answer is present.
type Builder struct {
	draft Questionnaire
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Set records one answer by its JSON field name.
func (b *Builder) Set(name, value string) error {
	f, ok := fieldIndex[name]
	if !ok {
		return fmt.Errorf("unknown questionnaire field %q", name)
	}
	f.set(&b.draft, value)
	return nil
}

// Get returns the current answer for name, or "" when unset or unknown.
func (b *Builder) Get(name string) string {
	f, ok := fieldIndex[name]
	if !ok {
		return ""
	}
	return f.get(&b.draft)
}

// Apply records every known field in values. Keys that are not questionnaire
// fields are ignored so form payloads with UI-only flags can be passed as is.
func (b *Builder) Apply(values map[string]interface{}) *Builder {
	for name, raw := range values {
		f, ok := fieldIndex[name]
		if !ok || raw == nil {
			continue
		}
		f.set(&b.draft, stringify(raw))
	}
	return b
}

// Missing lists required fields that are still empty, in form order.
func (b *Builder) Missing() []string {
	var out []string
	for _, f := range fields {
		if f.required && f.get(&b.draft) == "" {
			out = append(out, f.name)
		}
	}
	return out
}

// SectionComplete reports whether every required field of the wizard section
// is answered. Unknown sections are never complete.
func (b *Builder) SectionComplete(id string) bool {
	s, ok := SectionByID(id)
	if !ok {
		return false
	}
	for _, name := range s.Fields {
		f := fieldIndex[name]
		if f.required && f.get(&b.draft) == "" {
			return false
		}
	}
	return true
}

// Draft returns the answers so far without validation. Use it for wizard
// hints, never for scoring.
func (b *Builder) Draft() Questionnaire {
	return b.draft
}

// Build finalizes the questionnaire.
func (b *Builder) Build() (Questionnaire, error) {
	if err := Validate(b.draft); err != nil {
		return Questionnaire{}, err
	}
	return b.draft, nil
}

// FromMap builds a questionnaire from decoded form data.
func FromMap(values map[string]interface{}) (Questionnaire, error) {
	return NewBuilder().Apply(values).Build()
}

// ToMap flattens q back into form data keyed by JSON field name.
func ToMap(q Questionnaire) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		if v := f.get(&q); v != "" {
			out[f.name] = v
		}
	}
	return out
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
