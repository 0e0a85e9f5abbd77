package laws

import (
	"context"
	"encoding/json"

	"github.com/regwatch/regwatch-mcp/internal/lawstore"
	"github.com/regwatch/regwatch-mcp/internal/regquery"
	"github.com/regwatch/regwatch-mcp/internal/tools"
)

const noChangesMessage = "No changes found for the specified criteria."

type GetChangesTool struct {
	svc regquery.Service
}

func NewGetChangesTool(svc regquery.Service) *GetChangesTool {
	return &GetChangesTool{svc: svc}
}

func (t *GetChangesTool) Name() string {
	return "get_changes"
}

func (t *GetChangesTool) Title() string {
	return "Get regulatory changes"
}

func (t *GetChangesTool) Description() string {
	return "Get recent changes (amendments, delays, enforcement actions, new guidance) across tracked AI/privacy laws. The 'what's new' feed for staying current on regulatory changes."
}

func (t *GetChangesTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *GetChangesTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"since": {
				"type": "string",
				"description": "Only changes on or after this date (YYYY-MM-DD)"
			},
			"until": {
				"type": "string",
				"description": "Only changes on or before this date (YYYY-MM-DD)"
			},
			"law_id": {
				"type": "string",
				"description": "Filter to changes for a specific law"
			},
			"change_type": {
				"type": "string",
				"description": "Filter by type of change",
				"enum": ["amendment", "delay", "guidance", "enforcement_action", "new_law"]
			}
		},
		"required": []
	}`)
}

func (t *GetChangesTool) Execute(ctx context.Context, input json.RawMessage) (any, error) {
	var params regquery.GetChangesParams
	if len(input) > 0 {
		if err := json.Unmarshal(input, &params); err != nil {
			return nil, tools.NewInvalidArgumentsError(t.Name(), err)
		}
	}

	if params.ChangeType != "" && !lawstore.ChangeType(params.ChangeType).Valid() {
		return nil, tools.NewInvalidArgumentsError(t.Name(), errInvalidEnum("change_type", params.ChangeType))
	}

	changes, err := t.svc.GetChanges(ctx, params)
	if err != nil {
		return tools.ErrorResult(err), nil
	}
	if len(changes) == 0 {
		return tools.TextResult(noChangesMessage), nil
	}
	return tools.JSONResult(changes)
}
