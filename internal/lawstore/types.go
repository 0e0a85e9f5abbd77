// Package lawstore holds the regulatory entity model and the embedded
// SQLite store that backs the local serving form.
package lawstore

// LawStatus values allowed on a tracked law.
type LawStatus string

const (
	StatusEnacted   LawStatus = "enacted"
	StatusEffective LawStatus = "effective"
	StatusProposed  LawStatus = "proposed"
	StatusAmended   LawStatus = "amended"
)

func (s LawStatus) Valid() bool {
	switch s {
	case StatusEnacted, StatusEffective, StatusProposed, StatusAmended:
		return true
	}
	return false
}

// Category classifies an obligation. Closed enum.
type Category string

const (
	CategoryRiskAssessment    Category = "risk_assessment"
	CategoryTransparency      Category = "transparency"
	CategoryDocumentation     Category = "documentation"
	CategoryConsumerRights    Category = "consumer_rights"
	CategoryBiasTesting       Category = "bias_testing"
	CategoryHumanOversight    Category = "human_oversight"
	CategoryIncidentReporting Category = "incident_reporting"
	CategoryDisclosure        Category = "disclosure"
	CategoryGovernance        Category = "governance"
	CategoryDataProtection    Category = "data_protection"
	CategoryOther             Category = "other"
)

// Categories lists every valid obligation category, in schema order.
var Categories = []Category{
	CategoryRiskAssessment,
	CategoryTransparency,
	CategoryDocumentation,
	CategoryConsumerRights,
	CategoryBiasTesting,
	CategoryHumanOversight,
	CategoryIncidentReporting,
	CategoryDisclosure,
	CategoryGovernance,
	CategoryDataProtection,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ChangeType classifies a change-log entry. Closed enum.
type ChangeType string

const (
	ChangeAmendment         ChangeType = "amendment"
	ChangeDelay             ChangeType = "delay"
	ChangeGuidance          ChangeType = "guidance"
	ChangeEnforcementAction ChangeType = "enforcement_action"
	ChangeNewLaw            ChangeType = "new_law"
)

func (c ChangeType) Valid() bool {
	switch c {
	case ChangeAmendment, ChangeDelay, ChangeGuidance, ChangeEnforcementAction, ChangeNewLaw:
		return true
	}
	return false
}

// Frequency values allowed on a recurring obligation.
var Frequencies = []string{"annual", "per-deployment", "ongoing"}

func ValidFrequency(f string) bool {
	for _, known := range Frequencies {
		if f == known {
			return true
		}
	}
	return false
}

type Applicability struct {
	WhoItAppliesTo     []string          `json:"who_it_applies_to"`
	Definitions        map[string]string `json:"definitions"`
	ScopeConditions    string            `json:"scope_conditions"`
	Exemptions         []string          `json:"exemptions"`
	GeographicTrigger  string            `json:"geographic_trigger"`
}

type Penalty struct {
	EnforcingBody        string `json:"enforcing_body"`
	PrivateRightOfAction bool   `json:"private_right_of_action"`
	PenaltyRange         string `json:"penalty_range"`
	CurePeriod           bool   `json:"cure_period"`
	CurePeriodDays       *int   `json:"cure_period_days"`
	Notes                string `json:"notes"`
}

type SafeHarbor struct {
	Description        string `json:"description"`
	FrameworkReference string `json:"framework_reference"`
	Citation           string `json:"citation"`
}

type CrossReference struct {
	RelatedLaw   string `json:"related_law"`
	Relationship string `json:"relationship"`
	Category     string `json:"category"`
	Notes        string `json:"notes"`
}

// Law is a tracked statute or regulation. The four structured sub-objects
// are stored as JSON columns and owned by the law (no independent
// lifecycle); the store decodes them before rows leave the package.
type Law struct {
	LawID            string           `json:"law_id"`
	Jurisdiction     string           `json:"jurisdiction"`
	CommonName       string           `json:"common_name"`
	OfficialCitation string           `json:"official_citation"`
	Status           LawStatus        `json:"status"`
	EffectiveDate    string           `json:"effective_date"`
	LastUpdated      string           `json:"last_updated"`
	SourceURL        string           `json:"source_url"`
	Summary          string           `json:"summary"`
	Applicability    Applicability    `json:"applicability"`
	Penalties        Penalty          `json:"penalties"`
	SafeHarbors      []SafeHarbor     `json:"safe_harbors"`
	CrossReferences  []CrossReference `json:"cross_references"`
}

// Obligation is a discrete compliance requirement belonging to one law.
type Obligation struct {
	ObligationID    string   `json:"obligation_id"`
	LawID           string   `json:"law_id"`
	AppliesTo       string   `json:"applies_to"`
	Category        Category `json:"category"`
	RequirementText string   `json:"requirement_text"`
	PlainLanguage   string   `json:"plain_language"`
	Deadline        *string  `json:"deadline"`
	Recurring       bool     `json:"recurring"`
	Frequency       *string  `json:"frequency"`
	Citation        string   `json:"citation"`
}

// ObligationDetail is an obligation decorated with its owning law's
// display name and jurisdiction.
type ObligationDetail struct {
	Obligation
	LawCommonName string `json:"law_common_name"`
	Jurisdiction  string `json:"jurisdiction"`
}

// ChangeLogEntry is a dated event affecting a law.
type ChangeLogEntry struct {
	ID          int64      `json:"id"`
	LawID       string     `json:"law_id"`
	Date        string     `json:"date"`
	ChangeType  ChangeType `json:"change_type"`
	Description string     `json:"description"`
}

// ChangeDetail is a change-log entry decorated with its owning law's
// display name and jurisdiction.
type ChangeDetail struct {
	ChangeLogEntry
	LawCommonName string `json:"law_common_name"`
	Jurisdiction  string `json:"jurisdiction"`
}
