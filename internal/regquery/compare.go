package regquery

import (
	"context"

	"github.com/regwatch/regwatch-mcp/internal/lawstore"
)

// CompareJurisdictions filters obligations to the given jurisdiction
// set (plus optional category and role, all on the same obligation row)
// and pivots the flat result into category -> jurisdiction -> obligation
// groups. Category groups appear in ascending category order and
// jurisdiction cells in ascending jurisdiction order, both inherited
// from the underlying sorted scan. An empty result is normal, including
// when none of the given codes matches any law.
func (e *Engine) CompareJurisdictions(ctx context.Context, params CompareJurisdictionsParams) ([]CategoryComparison, error) {
	preds := []lawstore.Predicate{
		lawstore.In{Column: "l.jurisdiction", Values: params.Jurisdictions},
	}
	if params.Category != "" {
		preds = append(preds, lawstore.Equals{Column: "o.category", Value: params.Category})
	}
	if params.AppliesTo != "" {
		preds = append(preds, lawstore.Equals{Column: "o.applies_to", Value: params.AppliesTo})
	}

	order := []lawstore.OrderBy{
		{Column: "o.category"},
		{Column: "l.jurisdiction"},
		{Column: "o.obligation_id"},
	}

	rows, err := e.store.ScanObligations(ctx, preds, order)
	if err != nil {
		return nil, err
	}

	result := pivotComparison(rows)
	e.log.Debug("compare_jurisdictions executed",
		"jurisdictions", params.Jurisdictions,
		"categories", len(result))
	return result, nil
}

// pivotComparison reshapes sorted obligation rows into nested category
// groups, preserving first-seen order for categories and for the
// jurisdiction cells within each category. The first law encountered in
// sort order supplies a cell's law_id and common_name.
func pivotComparison(rows []lawstore.ObligationDetail) []CategoryComparison {
	result := make([]CategoryComparison, 0)
	categoryIndex := make(map[string]int)
	cellIndex := make(map[string]map[string]int)

	for _, row := range rows {
		category := string(row.Category)

		ci, ok := categoryIndex[category]
		if !ok {
			ci = len(result)
			categoryIndex[category] = ci
			cellIndex[category] = make(map[string]int)
			result = append(result, CategoryComparison{
				Category:      category,
				Jurisdictions: []JurisdictionColumn{},
			})
		}

		ji, ok := cellIndex[category][row.Jurisdiction]
		if !ok {
			ji = len(result[ci].Jurisdictions)
			cellIndex[category][row.Jurisdiction] = ji
			result[ci].Jurisdictions = append(result[ci].Jurisdictions, JurisdictionColumn{
				Jurisdiction: row.Jurisdiction,
				LawID:        row.LawID,
				CommonName:   row.LawCommonName,
				Obligations:  []ObligationSummary{},
			})
		}

		cell := &result[ci].Jurisdictions[ji]
		cell.Obligations = append(cell.Obligations, ObligationSummary{
			ObligationID:    row.ObligationID,
			AppliesTo:       row.AppliesTo,
			RequirementText: row.RequirementText,
			PlainLanguage:   row.PlainLanguage,
			Deadline:        row.Deadline,
			Citation:        row.Citation,
		})
	}

	return result
}
