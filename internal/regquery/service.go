// Package regquery contains the query and comparison engines over the
// law store, and the Service interface that lets the tool layer run
// against either the embedded store or the remote API without caring
// which one is wired in.
package regquery

import (
	"context"

	"github.com/regwatch/regwatch-mcp/internal/lawstore"
)

// SearchLawsParams is the all-optional criteria bag for SearchLaws.
// Zero values mean unconstrained.
type SearchLawsParams struct {
	Jurisdiction        string `json:"jurisdiction,omitempty"`
	Status              string `json:"status,omitempty"`
	EffectiveDateAfter  string `json:"effective_date_after,omitempty"`
	EffectiveDateBefore string `json:"effective_date_before,omitempty"`
	AppliesTo           string `json:"applies_to,omitempty"`
	Category            string `json:"category,omitempty"`
	Query               string `json:"query,omitempty"`
}

type GetObligationsParams struct {
	LawID        string `json:"law_id,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	AppliesTo    string `json:"applies_to,omitempty"`
	Category     string `json:"category,omitempty"`
}

// CompareJurisdictionsParams carries at least two already-normalized
// jurisdiction codes. Normalization and the minimum-count check are the
// caller's responsibility (tool and HTTP boundaries enforce both).
type CompareJurisdictionsParams struct {
	Jurisdictions []string `json:"jurisdictions"`
	Category      string   `json:"category,omitempty"`
	AppliesTo     string   `json:"applies_to,omitempty"`
}

type GetChangesParams struct {
	Since      string `json:"since,omitempty"`
	Until      string `json:"until,omitempty"`
	LawID      string `json:"law_id,omitempty"`
	ChangeType string `json:"change_type,omitempty"`
}

// ObligationSummary is the per-obligation slice of a comparison cell.
type ObligationSummary struct {
	ObligationID    string  `json:"obligation_id"`
	AppliesTo       string  `json:"applies_to"`
	RequirementText string  `json:"requirement_text"`
	PlainLanguage   string  `json:"plain_language"`
	Deadline        *string `json:"deadline"`
	Citation        string  `json:"citation"`
}

// JurisdictionColumn is one jurisdiction's cell within a category group.
// When several laws in the same jurisdiction contribute obligations to
// the category, the first law in sort order names the cell; the
// obligation list still carries every matching obligation.
type JurisdictionColumn struct {
	Jurisdiction string              `json:"jurisdiction"`
	LawID        string              `json:"law_id"`
	CommonName   string              `json:"common_name"`
	Obligations  []ObligationSummary `json:"obligations"`
}

// CategoryComparison is the pivot output unit: one obligation category
// mapped to per-jurisdiction obligation lists.
type CategoryComparison struct {
	Category      string               `json:"category"`
	Jurisdictions []JurisdictionColumn `json:"jurisdictions"`
}

// Service is the capability set the tool and HTTP layers consume. Two
// implementations exist: Engine over the embedded store, and the REST
// client over the remote API. All four operations return empty slices,
// never errors, when nothing matches.
type Service interface {
	SearchLaws(ctx context.Context, params SearchLawsParams) ([]lawstore.Law, error)
	GetObligations(ctx context.Context, params GetObligationsParams) ([]lawstore.ObligationDetail, error)
	CompareJurisdictions(ctx context.Context, params CompareJurisdictionsParams) ([]CategoryComparison, error)
	GetChanges(ctx context.Context, params GetChangesParams) ([]lawstore.ChangeDetail, error)
}
