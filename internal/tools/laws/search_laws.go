// Package laws exposes the four query operations as MCP tools. Each
// tool is written against regquery.Service, so the same tool set serves
// both the embedded store and the remote API backends.
package laws

import (
	"context"
	"encoding/json"

	"github.com/regwatch/regwatch-mcp/internal/lawstore"
	"github.com/regwatch/regwatch-mcp/internal/regquery"
	"github.com/regwatch/regwatch-mcp/internal/tools"
)

const noLawsMessage = "No laws found matching the specified criteria."

type SearchLawsTool struct {
	svc regquery.Service
}

func NewSearchLawsTool(svc regquery.Service) *SearchLawsTool {
	return &SearchLawsTool{svc: svc}
}

func (t *SearchLawsTool) Name() string {
	return "search_laws"
}

func (t *SearchLawsTool) Title() string {
	return "Search laws"
}

func (t *SearchLawsTool) Description() string {
	return "Search US AI and privacy laws by jurisdiction, status, effective date range, applicability, and category. Returns matching laws with summary-level data."
}

func (t *SearchLawsTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *SearchLawsTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"jurisdiction": {
				"type": "string",
				"description": "Filter by jurisdiction (e.g. 'CO', 'CA', 'TX', 'US-federal', 'EU')"
			},
			"status": {
				"type": "string",
				"description": "Filter by law status",
				"enum": ["enacted", "effective", "proposed", "amended"]
			},
			"effective_date_after": {
				"type": "string",
				"description": "Only laws effective on or after this date (YYYY-MM-DD)"
			},
			"effective_date_before": {
				"type": "string",
				"description": "Only laws effective on or before this date (YYYY-MM-DD)"
			},
			"applies_to": {
				"type": "string",
				"description": "Filter to laws with obligations applying to this role (e.g. 'deployer', 'developer')"
			},
			"category": {
				"type": "string",
				"description": "Filter to laws with obligations in this category",
				"enum": ["risk_assessment", "transparency", "documentation", "consumer_rights", "bias_testing", "human_oversight", "incident_reporting", "disclosure", "governance", "data_protection", "other"]
			},
			"query": {
				"type": "string",
				"description": "Free-text search across law name, summary, and citation (case-sensitive substring match)"
			}
		},
		"required": []
	}`)
}

func (t *SearchLawsTool) Execute(ctx context.Context, input json.RawMessage) (any, error) {
	var params regquery.SearchLawsParams
	if len(input) > 0 {
		if err := json.Unmarshal(input, &params); err != nil {
			return nil, tools.NewInvalidArgumentsError(t.Name(), err)
		}
	}

	if params.Status != "" && !lawstore.LawStatus(params.Status).Valid() {
		return nil, tools.NewInvalidArgumentsError(t.Name(), errInvalidEnum("status", params.Status))
	}
	if params.Category != "" && !lawstore.Category(params.Category).Valid() {
		return nil, tools.NewInvalidArgumentsError(t.Name(), errInvalidEnum("category", params.Category))
	}

	matches, err := t.svc.SearchLaws(ctx, params)
	if err != nil {
		return tools.ErrorResult(err), nil
	}
	if len(matches) == 0 {
		return tools.TextResult(noLawsMessage), nil
	}
	return tools.JSONResult(matches)
}
