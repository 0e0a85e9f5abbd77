package laws

import (
	"github.com/regwatch/regwatch-mcp/internal/regquery"
	"github.com/regwatch/regwatch-mcp/internal/tools"
)

func GetTools(svc regquery.Service) []tools.Tool {
	return []tools.Tool{
		NewSearchLawsTool(svc),
		NewGetObligationsTool(svc),
		NewCompareJurisdictionsTool(svc),
		NewGetChangesTool(svc),
	}
}

func GetToolByName(name string, svc regquery.Service) tools.Tool {
	for _, tool := range GetTools(svc) {
		if tool.Name() == name {
			return tool
		}
	}
	return nil
}
