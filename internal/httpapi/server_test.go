package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regwatch/regwatch-mcp/internal/apiclient"
	"github.com/regwatch/regwatch-mcp/internal/httpapi"
	"github.com/regwatch/regwatch-mcp/internal/lawstore"
	"github.com/regwatch/regwatch-mcp/internal/regquery"
)

// stubService records the last params it saw and returns canned data.
type stubService struct {
	laws        []lawstore.Law
	obligations []lawstore.ObligationDetail
	comparison  []regquery.CategoryComparison
	changes     []lawstore.ChangeDetail
	err         error

	lastSearch  regquery.SearchLawsParams
	lastCompare regquery.CompareJurisdictionsParams
}

func (s *stubService) SearchLaws(_ context.Context, params regquery.SearchLawsParams) ([]lawstore.Law, error) {
	s.lastSearch = params
	return s.laws, s.err
}

func (s *stubService) GetObligations(_ context.Context, params regquery.GetObligationsParams) ([]lawstore.ObligationDetail, error) {
	return s.obligations, s.err
}

func (s *stubService) CompareJurisdictions(_ context.Context, params regquery.CompareJurisdictionsParams) ([]regquery.CategoryComparison, error) {
	s.lastCompare = params
	return s.comparison, s.err
}

func (s *stubService) GetChanges(_ context.Context, params regquery.GetChangesParams) ([]lawstore.ChangeDetail, error) {
	return s.changes, s.err
}

func newTestServer(t *testing.T, svc regquery.Service, token string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(httpapi.NewServer(svc, token).Handler())
	t.Cleanup(server.Close)
	return server
}

func getJSON(t *testing.T, url, token string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestLawsReturnsDataEnvelope(t *testing.T) {
	svc := &stubService{laws: []lawstore.Law{{LawID: "CO-SB24-205", Jurisdiction: "CO"}}}
	server := newTestServer(t, svc, "")

	resp, body := getJSON(t, server.URL+"/api/v1/laws?jurisdiction=CO&status=enacted", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var meta struct {
		Count      int    `json:"count"`
		APIVersion string `json:"api_version"`
	}
	require.NoError(t, json.Unmarshal(body["meta"], &meta))
	assert.Equal(t, 1, meta.Count)
	assert.Equal(t, "v1", meta.APIVersion)

	var laws []lawstore.Law
	require.NoError(t, json.Unmarshal(body["data"], &laws))
	require.Len(t, laws, 1)
	assert.Equal(t, "CO-SB24-205", laws[0].LawID)

	assert.Equal(t, "CO", svc.lastSearch.Jurisdiction)
	assert.Equal(t, "enacted", svc.lastSearch.Status)
}

func TestLawsRejectsInvalidStatus(t *testing.T) {
	server := newTestServer(t, &stubService{}, "")

	resp, body := getJSON(t, server.URL+"/api/v1/laws?status=imaginary", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(body["error"], &errBody))
	assert.Equal(t, "VALIDATION_ERROR", errBody.Code)
	assert.Equal(t, http.StatusBadRequest, errBody.Status)
	assert.Contains(t, errBody.Message, "imaginary")
}

func TestObligationsRejectsInvalidCategory(t *testing.T) {
	server := newTestServer(t, &stubService{}, "")

	resp, _ := getJSON(t, server.URL+"/api/v1/obligations?category=nonsense", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompareNormalizesAndRequiresTwoJurisdictions(t *testing.T) {
	svc := &stubService{}
	server := newTestServer(t, svc, "")

	resp, _ := getJSON(t, server.URL+"/api/v1/compare?jurisdictions=California,colorado", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"CA", "CO"}, svc.lastCompare.Jurisdictions)

	// Unrecognized codes are dropped before the minimum-count check.
	resp, body := getJSON(t, server.URL+"/api/v1/compare?jurisdictions=California,Narnia", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(body["error"], &errBody))
	assert.Equal(t, "VALIDATION_ERROR", errBody.Code)
}

func TestBearerAuthRequiredWhenTokenSet(t *testing.T) {
	server := newTestServer(t, &stubService{}, "hunter2")

	resp, _ := getJSON(t, server.URL+"/api/v1/laws", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = getJSON(t, server.URL+"/api/v1/laws", "wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = getJSON(t, server.URL+"/api/v1/laws", "hunter2")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownPathReturnsNotFoundEnvelope(t *testing.T) {
	server := newTestServer(t, &stubService{}, "")

	resp, body := getJSON(t, server.URL+"/api/v1/nonsense", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errBody struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(body["error"], &errBody))
	assert.Equal(t, "NOT_FOUND", errBody.Code)
}

func TestServiceErrorSurfacesAsInternalError(t *testing.T) {
	server := newTestServer(t, &stubService{err: errors.New("disk on fire")}, "")

	resp, body := getJSON(t, server.URL+"/api/v1/changes", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var errBody struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(body["error"], &errBody))
	assert.Equal(t, "INTERNAL_ERROR", errBody.Code)
}

// The REST client and server speak the same wire format end to end.
func TestClientServerRoundTrip(t *testing.T) {
	deadline := "2026-06-30"
	svc := &stubService{
		obligations: []lawstore.ObligationDetail{{
			Obligation: lawstore.Obligation{
				ObligationID: "CO-SB24-205-OBL-001",
				LawID:        "CO-SB24-205",
				AppliesTo:    "deployer",
				Category:     lawstore.CategoryRiskAssessment,
				Deadline:     &deadline,
				Recurring:    true,
			},
			LawCommonName: "Colorado AI Act",
			Jurisdiction:  "CO",
		}},
	}
	server := newTestServer(t, svc, "round-trip-token")

	client := apiclient.NewClient(server.URL, "round-trip-token")
	obligations, err := client.GetObligations(context.Background(), regquery.GetObligationsParams{
		Jurisdiction: "CO",
	})
	require.NoError(t, err)
	require.Len(t, obligations, 1)

	got := obligations[0]
	assert.Equal(t, "CO-SB24-205-OBL-001", got.ObligationID)
	assert.Equal(t, "Colorado AI Act", got.LawCommonName)
	assert.Equal(t, "CO", got.Jurisdiction)
	assert.True(t, got.Recurring)
	require.NotNil(t, got.Deadline)
	assert.Equal(t, "2026-06-30", *got.Deadline)
}
