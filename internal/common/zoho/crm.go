// internal/common/zoho/crm.go
package zoho

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	commonhttp "pitch-workers/internal/common/http"
)

const DefaultBaseURL = "https://www.zohoapis.com/crm/v3"

type CRMClient struct {
	apiKey     string
	oauthToken string
	baseURL    string
	httpClient *commonhttp.Client
}

// Lead is a Zoho CRM Leads record.
type Lead struct {
	ID          string `json:"id,omitempty"`
	Email       string `json:"Email"`
	FirstName   string `json:"First_Name,omitempty"`
	LastName    string `json:"Last_Name"`
	Company     string `json:"Company"`
	City        string `json:"City,omitempty"`
	Website     string `json:"Website,omitempty"`
	LeadSource  string `json:"Lead_Source,omitempty"`
	LeadStatus  string `json:"Lead_Status,omitempty"`
	Rating      string `json:"Rating,omitempty"`
	Description string `json:"Description,omitempty"`
}

type writeResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

// NewCRMClient uses DefaultBaseURL when baseURL is empty.
func NewCRMClient(apiKey, oauthToken, baseURL string) *CRMClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &CRMClient{
		apiKey:     apiKey,
		oauthToken: oauthToken,
		baseURL:    baseURL,
		httpClient: commonhttp.NewClient(30 * time.Second),
	}
}

func (c *CRMClient) headers() map[string]string {
	return map[string]string{"Authorization": "Zoho-oauthtoken " + c.oauthToken}
}

// SearchLeads returns the leads whose Email equals email. Zoho answers
// 204 when nothing matches.
func (c *CRMClient) SearchLeads(ctx context.Context, email string) ([]Lead, error) {
	endpoint := fmt.Sprintf("%s/Leads/search?email=%s", c.baseURL, url.QueryEscape(email))

	resp, err := c.httpClient.Get(ctx, endpoint, c.headers())
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to search leads (status %d): %s", resp.StatusCode, string(resp.Body))
	}

	var result struct {
		Data []Lead `json:"data"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Data, nil
}

// CreateLead returns the id of the new record.
func (c *CRMClient) CreateLead(ctx context.Context, lead *Lead) (string, error) {
	resp, err := c.httpClient.PostJSON(ctx, c.baseURL+"/Leads", c.headers(), map[string]interface{}{
		"data": []Lead{*lead},
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to create lead (status %d): %s", resp.StatusCode, string(resp.Body))
	}
	return firstRecordID(resp, "lead creation")
}

// UpdateLead overwrites the non-empty fields of an existing record.
func (c *CRMClient) UpdateLead(ctx context.Context, leadID string, lead *Lead) error {
	body := *lead
	body.ID = ""
	resp, err := c.httpClient.PutJSON(ctx, fmt.Sprintf("%s/Leads/%s", c.baseURL, leadID), c.headers(), map[string]interface{}{
		"data": []Lead{body},
	})
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to update lead (status %d): %s", resp.StatusCode, string(resp.Body))
	}
	_, err = firstRecordID(resp, "lead update")
	return err
}

func firstRecordID(resp *commonhttp.Response, op string) (string, error) {
	var out writeResponse
	if err := resp.Decode(&out); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(out.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}
	if out.Data[0].Status != "success" {
		return "", fmt.Errorf("%s failed: %s", op, out.Data[0].Message)
	}
	return out.Data[0].Details.ID, nil
}
