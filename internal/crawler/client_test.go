package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/opportunities/v2", "test-key", 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return c
}

func TestClient_SearchNotices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/opportunities/v2/search", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "1000", q.Get("limit"))
		assert.Equal(t, "2000", q.Get("offset"))
		assert.Equal(t, "05/03/2025", q.Get("postedFrom"))
		assert.Equal(t, "08/01/2025", q.Get("postedTo"))
		assert.Equal(t, "p", q.Get("ptype"))
		assert.Equal(t, "-postedDate", q.Get("sortBy"))
		assert.Equal(t, "097", q.Get("organizationCode"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		fmt.Fprint(w, `{"totalRecords":2,"opportunitiesData":[
			{"noticeId":"abc123","title":"  Widget Repair  ","postedDate":"2025-07-30"},
			{"noticeId":"def456","title":"Radar Study","postedDate":"2025-07-29"}]}`)
	})

	notices, err := c.SearchNotices(context.Background(), SearchParams{
		Limit:      1000,
		Offset:     2000,
		PostedFrom: time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
		PostedTo:   time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		PType:      "p",
		OrgCode:    "097",
	})
	require.NoError(t, err)
	require.Len(t, notices, 2)
	assert.Equal(t, "Widget Repair", notices[0].Title)
	assert.Equal(t, "p", notices[1].PType)
}

func TestClient_SearchStatuses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"quota", http.StatusTooManyRequests, ErrQuotaExhausted},
		{"server error", http.StatusInternalServerError, ErrUnexpectedStatusCode},
		{"forbidden", http.StatusForbidden, ErrUnexpectedStatusCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := c.SearchNotices(context.Background(), SearchParams{Limit: 10})
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestClient_FetchRoster(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/opportunities/v2/opportunities/abc123/ivl", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		fmt.Fprint(w, `{"ivl":[
			{"ueiSAM":"UEI000000001","cageNumber":"1ab23","name":"Acme"},
			{"ueiSAM":null,"cageNumber":"9ZZ99","name":"Bolt"}]}`)
	})

	roster, err := c.FetchRoster(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "abc123", roster[0].NoticeID)
	assert.Equal(t, "1ab23", roster[0].CAGE)
	assert.Equal(t, "", roster[1].UEI)
}

func TestClient_FetchRosterStatuses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"quota", http.StatusTooManyRequests, ErrQuotaExhausted},
		{"forbidden", http.StatusForbidden, ErrNoRoster},
		{"not found", http.StatusNotFound, ErrNoRoster},
		{"bad gateway", http.StatusBadGateway, ErrUnexpectedStatusCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := c.FetchRoster(context.Background(), "n1")
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestClient_MalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"ivl": [`)
	})

	_, err := c.FetchRoster(context.Background(), "n1")
	assert.ErrorContains(t, err, "decode")
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient("not a url", "k", time.Second)
	assert.ErrorIs(t, err, ErrInvalidBaseURL)
}
