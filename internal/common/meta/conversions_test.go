package meta

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	// sha256("jane@example.com")
	want := "8c87b489ce35cf2e2f39f80e282cb2e804932a56a213983eeeb428407d43b52d"
	assert.Equal(t, want, Hash("jane@example.com"))
	assert.Equal(t, want, Hash("  Jane@Example.COM "))
}

func TestHashUserData(t *testing.T) {
	in := UserData{
		Email:           "jane@example.com",
		Phone:           "+1 (555) 123-4567",
		FirstName:       "Jane",
		ClientIPAddress: "203.0.113.7",
		ClientUserAgent: "Mozilla/5.0",
		Fbp:             "fb.1.1700000000.123",
	}
	out := HashUserData(in)

	assert.Equal(t, Hash("jane@example.com"), out.Email)
	assert.Equal(t, Hash("15551234567"), out.Phone)
	assert.Equal(t, Hash("jane"), out.FirstName)
	assert.Empty(t, out.LastName)
	assert.Equal(t, "203.0.113.7", out.ClientIPAddress)
	assert.Equal(t, "Mozilla/5.0", out.ClientUserAgent)
	assert.Equal(t, "fb.1.1700000000.123", out.Fbp)
}

func TestClient_Send(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v18.0/pixel-1/events", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"events_received":1,"messages":[],"fbtrace_id":"trace-1"}`))
	}))
	defer server.Close()

	c := NewClient(Config{PixelID: "pixel-1", AccessToken: "tok", BaseURL: server.URL})
	c.now = func() time.Time { return time.Unix(1700000000, 0) }

	resp, err := c.Send(context.Background(), Event{
		EventName:      EventLead,
		EventSourceURL: "https://spencertoogood.com/pitch",
		UserData:       UserData{Email: "jane@example.com", ClientIPAddress: "203.0.113.7"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.EventsReceived)

	assert.Equal(t, "tok", captured["access_token"])
	data := captured["data"].([]interface{})
	require.Len(t, data, 1)
	event := data[0].(map[string]interface{})
	assert.Equal(t, "Lead", event["event_name"])
	assert.Equal(t, float64(1700000000), event["event_time"])
	assert.Equal(t, "website", event["action_source"])
	user := event["user_data"].(map[string]interface{})
	assert.Equal(t, Hash("jane@example.com"), user["email"])
	assert.Equal(t, "203.0.113.7", user["client_ip_address"])
}

func TestClient_SendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	c := NewClient(Config{PixelID: "pixel-1", AccessToken: "tok", BaseURL: server.URL})
	_, err := c.Send(context.Background(), Event{EventName: EventLead})

	require.Error(t, err)
	assert.Equal(t, "Meta API error: 400 Bad Request", err.Error())
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(Config{})
	assert.False(t, c.Configured())
	_, err := c.Send(context.Background(), Event{EventName: EventLead})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSplitName(t *testing.T) {
	first, last := SplitName("  Ada  Lovelace King ")
	assert.Equal(t, "Ada", first)
	assert.Equal(t, "Lovelace King", last)

	first, last = SplitName("Ada")
	assert.Equal(t, "Ada", first)
	assert.Empty(t, last)
}
