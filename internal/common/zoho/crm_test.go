package zoho

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRMClient_SearchLeads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Leads/search", r.URL.Path)
		assert.Equal(t, "jane+pitch@example.com", r.URL.Query().Get("email"))
		assert.Equal(t, "Zoho-oauthtoken tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[{"id":"900","Email":"jane+pitch@example.com","Last_Name":"Doe","Company":"Acme"}]}`))
	}))
	defer server.Close()

	client := NewCRMClient("key", "tok", server.URL)
	leads, err := client.SearchLeads(context.Background(), "jane+pitch@example.com")

	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "900", leads[0].ID)
}

func TestCRMClient_SearchLeads_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	leads, err := NewCRMClient("key", "tok", server.URL).SearchLeads(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestCRMClient_CreateLead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/Leads", r.URL.Path)

		var body struct {
			Data []Lead `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, "pitch-me-form", body.Data[0].LeadSource)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":[{"code":"SUCCESS","status":"success","details":{"id":"901"}}]}`))
	}))
	defer server.Close()

	id, err := NewCRMClient("key", "tok", server.URL).CreateLead(context.Background(), &Lead{
		Email: "jane@example.com", LastName: "Doe", Company: "Acme", LeadSource: "pitch-me-form",
	})
	require.NoError(t, err)
	assert.Equal(t, "901", id)
}

func TestCRMClient_CreateLead_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"code":"INVALID_DATA","status":"error","message":"invalid email"}]}`))
	}))
	defer server.Close()

	_, err := NewCRMClient("key", "tok", server.URL).CreateLead(context.Background(), &Lead{LastName: "Doe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email")
}

func TestCRMClient_UpdateLead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/Leads/900", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"code":"SUCCESS","status":"success","details":{"id":"900"}}]}`))
	}))
	defer server.Close()

	err := NewCRMClient("key", "tok", server.URL).UpdateLead(context.Background(), "900", &Lead{ID: "900", Email: "jane@example.com", LastName: "Doe", Company: "Acme"})
	assert.NoError(t, err)
}

func TestNewCRMClient_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewCRMClient("k", "t", "").baseURL)
}
