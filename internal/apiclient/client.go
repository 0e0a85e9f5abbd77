// Package apiclient implements the remote form of the law-data service:
// a REST client speaking the /api/v1 resource surface.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/regwatch/regwatch-mcp/internal/lawstore"
	"github.com/regwatch/regwatch-mcp/internal/logger"
	"github.com/regwatch/regwatch-mcp/internal/regquery"
)

// APIError is a structured upstream failure decoded from the API's
// error envelope. Transport-level failures are plain wrapped errors.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Message, e.Status)
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta struct {
		Count      int    `json:"count"`
		APIVersion string `json:"api_version"`
	} `json:"meta"`
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

// Client calls the remote law-data API. It satisfies regquery.Service,
// so the tool layer is indifferent to which backend it talks to.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

var _ regquery.Service = (*Client)(nil)

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.ForComponent("apiclient"),
	}
}

func (c *Client) SearchLaws(ctx context.Context, params regquery.SearchLawsParams) ([]lawstore.Law, error) {
	query := url.Values{}
	setParam(query, "jurisdiction", params.Jurisdiction)
	setParam(query, "status", params.Status)
	setParam(query, "effective_date_after", params.EffectiveDateAfter)
	setParam(query, "effective_date_before", params.EffectiveDateBefore)
	setParam(query, "applies_to", params.AppliesTo)
	setParam(query, "category", params.Category)
	setParam(query, "query", params.Query)

	laws := make([]lawstore.Law, 0)
	if err := c.get(ctx, "/api/v1/laws", query, &laws); err != nil {
		return nil, err
	}
	return laws, nil
}

func (c *Client) GetObligations(ctx context.Context, params regquery.GetObligationsParams) ([]lawstore.ObligationDetail, error) {
	query := url.Values{}
	setParam(query, "law_id", params.LawID)
	setParam(query, "jurisdiction", params.Jurisdiction)
	setParam(query, "applies_to", params.AppliesTo)
	setParam(query, "category", params.Category)

	obligations := make([]lawstore.ObligationDetail, 0)
	if err := c.get(ctx, "/api/v1/obligations", query, &obligations); err != nil {
		return nil, err
	}
	return obligations, nil
}

func (c *Client) CompareJurisdictions(ctx context.Context, params regquery.CompareJurisdictionsParams) ([]regquery.CategoryComparison, error) {
	query := url.Values{}
	setParam(query, "jurisdictions", strings.Join(params.Jurisdictions, ","))
	setParam(query, "category", params.Category)
	setParam(query, "applies_to", params.AppliesTo)

	comparison := make([]regquery.CategoryComparison, 0)
	if err := c.get(ctx, "/api/v1/compare", query, &comparison); err != nil {
		return nil, err
	}
	return comparison, nil
}

func (c *Client) GetChanges(ctx context.Context, params regquery.GetChangesParams) ([]lawstore.ChangeDetail, error) {
	query := url.Values{}
	setParam(query, "since", params.Since)
	setParam(query, "until", params.Until)
	setParam(query, "law_id", params.LawID)
	setParam(query, "change_type", params.ChangeType)

	changes := make([]lawstore.ChangeDetail, 0)
	if err := c.get(ctx, "/api/v1/changes", query, &changes); err != nil {
		return nil, err
	}
	return changes, nil
}

// get issues one request and decodes the data envelope into out. Non-2xx
// responses decode to *APIError; an unparseable error body synthesizes a
// generic code carrying the raw HTTP status.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody errorEnvelope
		if err := json.Unmarshal(body, &errBody); err != nil || errBody.Error.Code == "" {
			return &APIError{
				Code:    "API_ERROR",
				Message: fmt.Sprintf("API returned %d", resp.StatusCode),
				Status:  resp.StatusCode,
			}
		}
		c.log.Warn("api error response", "path", path, "code", errBody.Error.Code, "status", resp.StatusCode)
		return &errBody.Error
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode response envelope: %w", err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func setParam(query url.Values, key, value string) {
	if value != "" {
		query.Set(key, value)
	}
}
