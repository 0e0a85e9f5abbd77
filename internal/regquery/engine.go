package regquery

import (
	"context"
	"log/slog"

	"github.com/regwatch/regwatch-mcp/internal/lawstore"
	"github.com/regwatch/regwatch-mcp/internal/logger"
)

// Engine runs the query operations against an embedded law store. It
// composes typed predicates; the store compiles and executes them.
type Engine struct {
	store *lawstore.Store
	log   *slog.Logger
}

func NewEngine(store *lawstore.Store) *Engine {
	return &Engine{
		store: store,
		log:   logger.ForComponent("regquery"),
	}
}

var _ Service = (*Engine)(nil)

// SearchLaws returns laws satisfying every present criterion, ordered
// ascending by effective date. applies_to and category constrain via
// existence of a single obligation row matching both at once, so a law
// qualifies when any one of its obligations satisfies the pair jointly.
func (e *Engine) SearchLaws(ctx context.Context, params SearchLawsParams) ([]lawstore.Law, error) {
	var preds []lawstore.Predicate

	if params.Jurisdiction != "" {
		preds = append(preds, lawstore.Equals{Column: "l.jurisdiction", Value: params.Jurisdiction})
	}
	if params.Status != "" {
		preds = append(preds, lawstore.Equals{Column: "l.status", Value: params.Status})
	}
	if params.EffectiveDateAfter != "" {
		preds = append(preds, lawstore.RangeAfter{Column: "l.effective_date", Min: params.EffectiveDateAfter})
	}
	if params.EffectiveDateBefore != "" {
		preds = append(preds, lawstore.RangeBefore{Column: "l.effective_date", Max: params.EffectiveDateBefore})
	}
	if params.Query != "" {
		preds = append(preds, lawstore.SubstringAnyOf{
			Columns: []string{"l.common_name", "l.summary", "l.official_citation"},
			Needle:  params.Query,
		})
	}

	var obligationPreds []lawstore.Predicate
	if params.AppliesTo != "" {
		obligationPreds = append(obligationPreds, lawstore.Equals{Column: "o.applies_to", Value: params.AppliesTo})
	}
	if params.Category != "" {
		obligationPreds = append(obligationPreds, lawstore.Equals{Column: "o.category", Value: params.Category})
	}
	if len(obligationPreds) > 0 {
		preds = append(preds, lawstore.ExistsJoinWhere{Preds: obligationPreds})
	}

	order := []lawstore.OrderBy{{Column: "l.effective_date"}}

	laws, err := e.store.ScanLaws(ctx, preds, order)
	if err != nil {
		return nil, err
	}
	e.log.Debug("search_laws executed", "criteria", params, "matches", len(laws))
	return laws, nil
}

// GetObligations returns obligations matching the equality criteria,
// decorated with the owning law, ordered by jurisdiction then category.
func (e *Engine) GetObligations(ctx context.Context, params GetObligationsParams) ([]lawstore.ObligationDetail, error) {
	var preds []lawstore.Predicate

	if params.LawID != "" {
		preds = append(preds, lawstore.Equals{Column: "o.law_id", Value: params.LawID})
	}
	if params.Jurisdiction != "" {
		preds = append(preds, lawstore.Equals{Column: "l.jurisdiction", Value: params.Jurisdiction})
	}
	if params.AppliesTo != "" {
		preds = append(preds, lawstore.Equals{Column: "o.applies_to", Value: params.AppliesTo})
	}
	if params.Category != "" {
		preds = append(preds, lawstore.Equals{Column: "o.category", Value: params.Category})
	}

	order := []lawstore.OrderBy{
		{Column: "l.jurisdiction"},
		{Column: "o.category"},
		{Column: "o.obligation_id"},
	}

	obligations, err := e.store.ScanObligations(ctx, preds, order)
	if err != nil {
		return nil, err
	}
	e.log.Debug("get_obligations executed", "criteria", params, "matches", len(obligations))
	return obligations, nil
}

// GetChanges returns change-log entries within the inclusive date range,
// most recent first; entries sharing a date keep insertion order.
func (e *Engine) GetChanges(ctx context.Context, params GetChangesParams) ([]lawstore.ChangeDetail, error) {
	var preds []lawstore.Predicate

	if params.Since != "" {
		preds = append(preds, lawstore.RangeAfter{Column: "c.date", Min: params.Since})
	}
	if params.Until != "" {
		preds = append(preds, lawstore.RangeBefore{Column: "c.date", Max: params.Until})
	}
	if params.LawID != "" {
		preds = append(preds, lawstore.Equals{Column: "c.law_id", Value: params.LawID})
	}
	if params.ChangeType != "" {
		preds = append(preds, lawstore.Equals{Column: "c.change_type", Value: params.ChangeType})
	}

	order := []lawstore.OrderBy{
		{Column: "c.date", Desc: true},
		{Column: "c.id"},
	}

	changes, err := e.store.ScanChanges(ctx, preds, order)
	if err != nil {
		return nil, err
	}
	e.log.Debug("get_changes executed", "criteria", params, "matches", len(changes))
	return changes, nil
}
