package crmleadupsert

import (
	"context"
	"fmt"
	"strings"

	"pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/common/meta"
	"pitch-workers/internal/common/zoho"
	"pitch-workers/internal/pitch"
)

const providerZoho = "zoho"

// LeadStore is the slice of the Zoho CRM API the upsert needs.
type LeadStore interface {
	SearchLeads(ctx context.Context, email string) ([]zoho.Lead, error)
	CreateLead(ctx context.Context, lead *zoho.Lead) (string, error)
	UpdateLead(ctx context.Context, leadID string, lead *zoho.Lead) error
}

type Service struct {
	config *Config
	logger logger.Logger
	leads  LeadStore
}

// NewService builds a Zoho client from config when store is nil.
func NewService(config *Config, store LeadStore, log logger.Logger) *Service {
	if store == nil && config.ZohoOAuthToken != "" {
		store = zoho.NewCRMClient(config.ZohoAPIKey, config.ZohoOAuthToken, config.ZohoBaseURL)
	}
	return &Service{config: config, logger: log, leads: store}
}

// Upsert refreshes the score fields of an existing lead with the same
// email, or creates a new one.
func (s *Service) Upsert(ctx context.Context, q pitch.Questionnaire, score pitch.Score, offer *pitch.Offer) (*Output, error) {
	if s.leads == nil {
		return nil, errors.NewBusinessRuleError("Zoho CRM client not configured", "missing oauth token")
	}

	lead := s.toLead(q, score, offer)

	existing, err := s.leads.SearchLeads(ctx, q.Email)
	if err != nil {
		return nil, errors.NewCRMAPIError("search_leads", err)
	}
	if len(existing) > 0 {
		id := existing[0].ID
		if err := s.leads.UpdateLead(ctx, id, lead); err != nil {
			return nil, errors.NewCRMAPIError("update_lead", err)
		}
		s.logger.Info("lead already in crm, refreshed score", map[string]interface{}{
			"leadId": id,
		})
		return &Output{LeadID: id, Created: false, CRMProvider: providerZoho}, nil
	}

	id, err := s.leads.CreateLead(ctx, lead)
	if err != nil {
		return nil, errors.NewCRMAPIError("create_lead", err)
	}
	s.logger.Info("lead created in crm", map[string]interface{}{"leadId": id})
	return &Output{LeadID: id, Created: true, CRMProvider: providerZoho}, nil
}

func (s *Service) toLead(q pitch.Questionnaire, score pitch.Score, offer *pitch.Offer) *zoho.Lead {
	first, last := meta.SplitName(q.FullName)
	if last == "" {
		// Zoho rejects leads without a last name
		last, first = first, ""
	}
	band := pitch.BandFor(score.Total)
	if offer != nil {
		band = offer.Band
	}

	desc := []string{
		fmt.Sprintf("Pitch score: %d/100 (%s)", score.Total, band),
		"Idea: " + q.IdeaSummary,
	}
	if flags := score.FlagStrings(); len(flags) > 0 {
		desc = append(desc, "Flags: "+strings.Join(flags, ", "))
	}
	if offer != nil {
		desc = append(desc, "Offer: "+offer.PackageSummary())
	}

	return &zoho.Lead{
		Email:       q.Email,
		FirstName:   first,
		LastName:    last,
		Company:     truncate(q.IdeaSummary, 100),
		City:        q.Location,
		Website:     q.LinkedinURL,
		LeadSource:  s.config.LeadSource,
		LeadStatus:  "Not Contacted",
		Rating:      ratingFor(band),
		Description: strings.Join(desc, "\n"),
	}
}

func ratingFor(b pitch.Band) string {
	switch b {
	case pitch.BandHigh:
		return "Hot"
	case pitch.BandMedium:
		return "Warm"
	default:
		return "Cold"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
