package laws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/regwatch/regwatch-mcp/internal/lawstore"
	"github.com/regwatch/regwatch-mcp/internal/regquery"
	"github.com/regwatch/regwatch-mcp/internal/tools"
)

const noObligationsMessage = "No obligations found matching the specified criteria."

func errInvalidEnum(field, value string) error {
	return fmt.Errorf("invalid %s: %q", field, value)
}

type GetObligationsTool struct {
	svc regquery.Service
}

func NewGetObligationsTool(svc regquery.Service) *GetObligationsTool {
	return &GetObligationsTool{svc: svc}
}

func (t *GetObligationsTool) Name() string {
	return "get_obligations"
}

func (t *GetObligationsTool) Title() string {
	return "Get obligations"
}

func (t *GetObligationsTool) Description() string {
	return "Get structured obligations from AI/privacy laws. Filter by law, jurisdiction, role, or obligation category. Returns discrete, categorized obligations that agents can reason over."
}

func (t *GetObligationsTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *GetObligationsTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"law_id": {
				"type": "string",
				"description": "Specific law ID (e.g. 'CO-SB24-205')"
			},
			"jurisdiction": {
				"type": "string",
				"description": "Filter by jurisdiction (e.g. 'CO', 'CA')"
			},
			"applies_to": {
				"type": "string",
				"description": "Filter by who the obligation applies to (e.g. 'deployer', 'developer')"
			},
			"category": {
				"type": "string",
				"description": "Filter by obligation category",
				"enum": ["risk_assessment", "transparency", "documentation", "consumer_rights", "bias_testing", "human_oversight", "incident_reporting", "disclosure", "governance", "data_protection", "other"]
			}
		},
		"required": []
	}`)
}

func (t *GetObligationsTool) Execute(ctx context.Context, input json.RawMessage) (any, error) {
	var params regquery.GetObligationsParams
	if len(input) > 0 {
		if err := json.Unmarshal(input, &params); err != nil {
			return nil, tools.NewInvalidArgumentsError(t.Name(), err)
		}
	}

	if params.Category != "" && !lawstore.Category(params.Category).Valid() {
		return nil, tools.NewInvalidArgumentsError(t.Name(), errInvalidEnum("category", params.Category))
	}

	obligations, err := t.svc.GetObligations(ctx, params)
	if err != nil {
		return tools.ErrorResult(err), nil
	}
	if len(obligations) == 0 {
		return tools.TextResult(noObligationsMessage), nil
	}
	return tools.JSONResult(obligations)
}
