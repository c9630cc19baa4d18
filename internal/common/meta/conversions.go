// Package meta relays server-side events to the Meta Conversions API.
package meta

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	commonhttp "pitch-workers/internal/common/http"
)

const (
	DefaultBaseURL    = "https://graph.facebook.com"
	DefaultAPIVersion = "v18.0"

	EventLead                 = "Lead"
	EventContact              = "Contact"
	EventCompleteRegistration = "CompleteRegistration"
	EventSubmitApplication    = "SubmitApplication"

	ActionSourceWebsite = "website"
)

// ErrNotConfigured is returned when the pixel id or access token is unset.
var ErrNotConfigured = errors.New("meta pixel id or access token not configured")

// UserData is the raw, unhashed user information. Send hashes the
// personal fields before they leave the process.
type UserData struct {
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	ClientIPAddress string `json:"client_ip_address,omitempty"`
	ClientUserAgent string `json:"client_user_agent,omitempty"`
	Fbc             string `json:"fbc,omitempty"`
	Fbp             string `json:"fbp,omitempty"`
}

type CustomData struct {
	Currency        string   `json:"currency,omitempty"`
	Value           float64  `json:"value,omitempty"`
	ContentName     string   `json:"content_name,omitempty"`
	ContentCategory string   `json:"content_category,omitempty"`
	ContentIDs      []string `json:"content_ids,omitempty"`
	OrderID         string   `json:"order_id,omitempty"`
}

type Event struct {
	EventName      string      `json:"event_name"`
	EventTime      int64       `json:"event_time"`
	EventID        string      `json:"event_id,omitempty"`
	EventSourceURL string      `json:"event_source_url,omitempty"`
	UserData       UserData    `json:"user_data"`
	CustomData     *CustomData `json:"custom_data,omitempty"`
	ActionSource   string      `json:"action_source"`
}

// Response is the Graph API acknowledgement.
type Response struct {
	EventsReceived int      `json:"events_received"`
	Messages       []string `json:"messages"`
	FBTraceID      string   `json:"fbtrace_id"`
}

type Client struct {
	pixelID     string
	accessToken string
	endpoint    string
	httpClient  *commonhttp.Client
	now         func() time.Time
}

type Config struct {
	PixelID     string
	AccessToken string
	BaseURL     string
	APIVersion  string
	Timeout     time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{
		pixelID:     cfg.PixelID,
		accessToken: cfg.AccessToken,
		endpoint:    fmt.Sprintf("%s/%s/%s/events", strings.TrimRight(cfg.BaseURL, "/"), cfg.APIVersion, cfg.PixelID),
		httpClient:  commonhttp.NewClient(cfg.Timeout),
		now:         time.Now,
	}
}

// Configured reports whether events can be sent.
func (c *Client) Configured() bool {
	return c.pixelID != "" && c.accessToken != ""
}

// Send posts a single event. EventTime defaults to now and ActionSource to
// website.
func (c *Client) Send(ctx context.Context, event Event) (*Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if event.EventTime == 0 {
		event.EventTime = c.now().Unix()
	}
	if event.ActionSource == "" {
		event.ActionSource = ActionSourceWebsite
	}
	event.UserData = HashUserData(event.UserData)

	resp, err := c.httpClient.PostJSON(ctx, c.endpoint, nil, map[string]interface{}{
		"data":         []Event{event},
		"access_token": c.accessToken,
	})
	if err != nil {
		return nil, fmt.Errorf("meta API request: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("Meta API error: %d %s", resp.StatusCode, resp.StatusText())
	}

	var out Response
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode meta response: %w", err)
	}
	return &out, nil
}

// HashUserData hashes email, phone (digits only) and names as lowercase,
// trimmed SHA-256 hex. Network identifiers are passed through.
func HashUserData(u UserData) UserData {
	out := UserData{
		ClientIPAddress: u.ClientIPAddress,
		ClientUserAgent: u.ClientUserAgent,
		Fbc:             u.Fbc,
		Fbp:             u.Fbp,
	}
	if u.Email != "" {
		out.Email = Hash(u.Email)
	}
	if u.Phone != "" {
		out.Phone = Hash(digitsOnly(u.Phone))
	}
	if u.FirstName != "" {
		out.FirstName = Hash(u.FirstName)
	}
	if u.LastName != "" {
		out.LastName = Hash(u.LastName)
	}
	return out
}

func Hash(value string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(value))))
	return hex.EncodeToString(sum[:])
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SplitName splits a full name into first name and the remainder.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
