package metrika

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)

	client := NewClient("test-token", "101026698")
	client.BaseURL = srv.URL

	return client, srv
}

func TestFetchTotals(t *testing.T) {
	var gotAuth, gotQuery string

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"totals": [120.0, 80.0, 340.0]}`))
	})
	defer srv.Close()

	totals, err := client.FetchTotals(context.Background(), "2026-08-23", "2026-08-30")
	require.NoError(t, err)

	assert.Equal(t, 120.0, totals.Visits)
	assert.Equal(t, 80.0, totals.Users)
	assert.Equal(t, 340.0, totals.Pageviews)
	assert.Equal(t, "OAuth test-token", gotAuth)
	assert.Contains(t, gotQuery, "ids=101026698")
	assert.Contains(t, gotQuery, "accuracy=full")
	assert.Contains(t, gotQuery, "date1=2026-08-23")
	assert.Contains(t, gotQuery, "date2=2026-08-30")
}

func TestFetchTotals_ShortTotals(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totals": [5.0]}`))
	})
	defer srv.Close()

	totals, err := client.FetchTotals(context.Background(), "2026-08-23", "2026-08-30")
	require.NoError(t, err)

	assert.Equal(t, 5.0, totals.Visits)
	assert.Equal(t, 0.0, totals.Users)
	assert.Equal(t, 0.0, totals.Pageviews)
}

func TestFetchTotals_UpstreamError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "invalid token"}`))
	})
	defer srv.Close()

	_, err := client.FetchTotals(context.Background(), "2026-08-23", "2026-08-30")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "invalid token")
}

func TestFetchGoals(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "dimensions=ym%3As%3AgoalDimension")
		w.Write([]byte(`{
			"data": [
				{"dimensions": [{"name": "signup"}], "metrics": [12.0]},
				{"dimensions": [{"name": "save_tree"}], "metrics": [7.0]},
				{"dimensions": [], "metrics": [99.0]}
			]
		}`))
	})
	defer srv.Close()

	goals, err := client.FetchGoals(context.Background(), "2026-08-23", "2026-08-30")
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"signup": 12.0, "save_tree": 7.0}, goals)
}
