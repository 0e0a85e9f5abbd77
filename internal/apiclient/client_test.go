package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regwatch/regwatch-mcp/internal/regquery"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"data":` + string(raw) + `,"meta":{"count":0,"api_version":"v1"}}`))
}

func TestSearchLawsSendsAuthAndQueryParams(t *testing.T) {
	var gotAuth, gotAccept string
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotQuery = r.URL.Query()
		assert.Equal(t, "/api/v1/laws", r.URL.Path)
		writeEnvelope(t, w, []any{})
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "secret-key")
	laws, err := client.SearchLaws(context.Background(), regquery.SearchLawsParams{
		Jurisdiction:       "CO",
		Status:             "enacted",
		EffectiveDateAfter: "2026-01-01",
	})
	require.NoError(t, err)
	assert.Empty(t, laws)
	assert.NotNil(t, laws)

	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, []string{"CO"}, gotQuery["jurisdiction"])
	assert.Equal(t, []string{"enacted"}, gotQuery["status"])
	assert.Equal(t, []string{"2026-01-01"}, gotQuery["effective_date_after"])
	// Absent criteria never appear as empty params.
	assert.NotContains(t, gotQuery, "category")
	assert.NotContains(t, gotQuery, "query")
}

func TestSearchLawsDecodesEnvelopeData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [{"law_id": "CO-SB24-205", "jurisdiction": "CO", "common_name": "Colorado AI Act"}],
			"meta": {"count": 1, "api_version": "v1"}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	laws, err := client.SearchLaws(context.Background(), regquery.SearchLawsParams{})
	require.NoError(t, err)
	require.Len(t, laws, 1)
	assert.Equal(t, "CO-SB24-205", laws[0].LawID)
	assert.Equal(t, "Colorado AI Act", laws[0].CommonName)
}

func TestCompareJurisdictionsJoinsCodesWithComma(t *testing.T) {
	var gotJurisdictions string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/compare", r.URL.Path)
		gotJurisdictions = r.URL.Query().Get("jurisdictions")
		writeEnvelope(t, w, []regquery.CategoryComparison{})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key")
	_, err := client.CompareJurisdictions(context.Background(), regquery.CompareJurisdictionsParams{
		Jurisdictions: []string{"CA", "CO", "UT"},
	})
	require.NoError(t, err)
	assert.Equal(t, "CA,CO,UT", gotJurisdictions)
}

func TestGetDecodesStructuredAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"VALIDATION_ERROR","message":"invalid status value","status":400}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key")
	_, err := client.SearchLaws(context.Background(), regquery.SearchLawsParams{Status: "bogus"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "invalid status value", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestGetSynthesizesErrorForUnparseableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream exploded</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key")
	_, err := client.GetChanges(context.Background(), regquery.GetChangesParams{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "API_ERROR", apiErr.Code)
	assert.Equal(t, "API returned 502", apiErr.Message)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestGetReturnsTransportErrorNotAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(server.URL, "key")
	_, err := client.GetObligations(context.Background(), regquery.GetObligationsParams{})
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestGetHonorsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, "key")
	_, err := client.SearchLaws(ctx, regquery.SearchLawsParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
