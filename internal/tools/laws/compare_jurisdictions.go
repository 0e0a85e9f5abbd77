package laws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/regwatch/regwatch-mcp/internal/jurisdiction"
	"github.com/regwatch/regwatch-mcp/internal/lawstore"
	"github.com/regwatch/regwatch-mcp/internal/regquery"
	"github.com/regwatch/regwatch-mcp/internal/tools"
)

const noComparisonMessage = "No obligations found for the specified jurisdictions and criteria."

type CompareJurisdictionsTool struct {
	svc regquery.Service
}

func NewCompareJurisdictionsTool(svc regquery.Service) *CompareJurisdictionsTool {
	return &CompareJurisdictionsTool{svc: svc}
}

func (t *CompareJurisdictionsTool) Name() string {
	return "compare_jurisdictions"
}

func (t *CompareJurisdictionsTool) Title() string {
	return "Compare jurisdictions"
}

func (t *CompareJurisdictionsTool) Description() string {
	return "Compare AI/privacy law obligations across jurisdictions. Given a list of jurisdictions and optional filters, returns a side-by-side comparison grouped by obligation category."
}

func (t *CompareJurisdictionsTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *CompareJurisdictionsTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"jurisdictions": {
				"type": "array",
				"items": {"type": "string"},
				"minItems": 2,
				"description": "List of jurisdictions to compare (e.g. ['CO', 'CA', 'TX'])"
			},
			"category": {
				"type": "string",
				"description": "Filter comparison to a specific obligation category",
				"enum": ["risk_assessment", "transparency", "documentation", "consumer_rights", "bias_testing", "human_oversight", "incident_reporting", "disclosure", "governance", "data_protection", "other"]
			},
			"applies_to": {
				"type": "string",
				"description": "Filter to obligations applying to this role (e.g. 'deployer')"
			}
		},
		"required": ["jurisdictions"]
	}`)
}

func (t *CompareJurisdictionsTool) Execute(ctx context.Context, input json.RawMessage) (any, error) {
	var args struct {
		Jurisdictions []string `json:"jurisdictions"`
		Category      string   `json:"category"`
		AppliesTo     string   `json:"applies_to"`
	}
	if len(input) > 0 {
		if err := json.Unmarshal(input, &args); err != nil {
			return nil, tools.NewInvalidArgumentsError(t.Name(), err)
		}
	}

	if len(args.Jurisdictions) < 2 {
		return nil, tools.NewInvalidArgumentsError(t.Name(),
			fmt.Errorf("at least two jurisdictions are required"))
	}
	if args.Category != "" && !lawstore.Category(args.Category).Valid() {
		return nil, tools.NewInvalidArgumentsError(t.Name(), errInvalidEnum("category", args.Category))
	}

	// Free-text names are accepted; the engine itself expects canonical
	// codes, so unrecognized entries are dropped here.
	codes := jurisdiction.NormalizeAll(args.Jurisdictions)
	if len(codes) < 2 {
		return nil, tools.NewInvalidArgumentsError(t.Name(),
			fmt.Errorf("fewer than two recognized jurisdictions (valid codes: %v)", jurisdiction.ValidCodes()))
	}

	comparison, err := t.svc.CompareJurisdictions(ctx, regquery.CompareJurisdictionsParams{
		Jurisdictions: codes,
		Category:      args.Category,
		AppliesTo:     args.AppliesTo,
	})
	if err != nil {
		return tools.ErrorResult(err), nil
	}
	if len(comparison) == 0 {
		return tools.TextResult(noComparisonMessage), nil
	}
	return tools.JSONResult(comparison)
}
