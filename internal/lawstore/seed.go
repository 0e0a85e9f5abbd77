package lawstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// SeedLaw is the curated document shape for a single law: the law's own
// attributes plus its obligations and change history. Obligation and
// change-log rows omit law_id in the document; the loader fills it in.
type SeedLaw struct {
	Law
	Obligations []Obligation     `json:"obligations"`
	ChangeLog   []ChangeLogEntry `json:"change_log"`
}

// SeedDocument is one seed file: {"law": {...}}.
type SeedDocument struct {
	Law SeedLaw `json:"law"`
}

// SeedStats summarizes a seeding run.
type SeedStats struct {
	Files       int
	Laws        int64
	Obligations int64
	Changes     int64
}

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// LoadSeedDocument reads and parses one seed file. Parse failures are
// errors; structural problems are reported by Validate.
func LoadSeedDocument(path string) (*SeedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var doc SeedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", filepath.Base(path), err)
	}
	return &doc, nil
}

// Validate checks the document against the schema's structural rules and
// returns one issue string per violation, empty when the document is
// sound. It never writes anywhere.
func (doc *SeedDocument) Validate() []string {
	var issues []string
	law := &doc.Law

	requireNonEmpty := func(path, value string) {
		if strings.TrimSpace(value) == "" {
			issues = append(issues, path+": must not be empty")
		}
	}
	requireDate := func(path, value string) {
		if !isoDate.MatchString(value) {
			issues = append(issues, path+": must be an ISO date (YYYY-MM-DD)")
		}
	}

	requireNonEmpty("law.law_id", law.LawID)
	requireNonEmpty("law.jurisdiction", law.Jurisdiction)
	requireNonEmpty("law.common_name", law.CommonName)
	requireNonEmpty("law.official_citation", law.OfficialCitation)

	if !law.Status.Valid() {
		issues = append(issues, fmt.Sprintf("law.status: invalid status %q", law.Status))
	}
	requireDate("law.effective_date", law.EffectiveDate)
	requireDate("law.last_updated", law.LastUpdated)

	if _, err := url.ParseRequestURI(law.SourceURL); err != nil {
		issues = append(issues, "law.source_url: must be a valid URL")
	}
	if len(law.Summary) < 10 {
		issues = append(issues, "law.summary: must be at least 10 characters")
	}

	if len(law.Applicability.WhoItAppliesTo) == 0 {
		issues = append(issues, "law.applicability.who_it_applies_to: must list at least one role")
	}
	requireNonEmpty("law.applicability.scope_conditions", law.Applicability.ScopeConditions)
	requireNonEmpty("law.applicability.geographic_trigger", law.Applicability.GeographicTrigger)
	requireNonEmpty("law.penalties.enforcing_body", law.Penalties.EnforcingBody)
	requireNonEmpty("law.penalties.penalty_range", law.Penalties.PenaltyRange)

	if len(law.Obligations) == 0 {
		issues = append(issues, "law.obligations: must contain at least one obligation")
	}

	seenObligations := make(map[string]struct{})
	for i, obl := range law.Obligations {
		prefix := fmt.Sprintf("law.obligations[%d]", i)
		requireNonEmpty(prefix+".obligation_id", obl.ObligationID)
		requireNonEmpty(prefix+".applies_to", obl.AppliesTo)
		requireNonEmpty(prefix+".requirement_text", obl.RequirementText)
		requireNonEmpty(prefix+".plain_language", obl.PlainLanguage)
		requireNonEmpty(prefix+".citation", obl.Citation)

		if !obl.Category.Valid() {
			issues = append(issues, fmt.Sprintf("%s.category: invalid category %q", prefix, obl.Category))
		}
		if obl.Deadline != nil {
			requireDate(prefix+".deadline", *obl.Deadline)
		}
		if obl.Frequency != nil && !ValidFrequency(*obl.Frequency) {
			issues = append(issues, fmt.Sprintf("%s.frequency: invalid frequency %q", prefix, *obl.Frequency))
		}
		if obl.LawID != "" && obl.LawID != law.LawID {
			issues = append(issues, fmt.Sprintf("%s.law_id: references %q, expected %q", prefix, obl.LawID, law.LawID))
		}
		if _, dup := seenObligations[obl.ObligationID]; dup {
			issues = append(issues, fmt.Sprintf("%s.obligation_id: duplicate id %q", prefix, obl.ObligationID))
		}
		seenObligations[obl.ObligationID] = struct{}{}
	}

	for i, entry := range law.ChangeLog {
		prefix := fmt.Sprintf("law.change_log[%d]", i)
		requireDate(prefix+".date", entry.Date)
		requireNonEmpty(prefix+".description", entry.Description)
		if !entry.ChangeType.Valid() {
			issues = append(issues, fmt.Sprintf("%s.change_type: invalid change type %q", prefix, entry.ChangeType))
		}
	}

	return issues
}

// SeedDocuments lists the seed files in dir, sorted by name.
func SeedDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read seed dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Reset wipes all rows, child tables first so foreign keys hold.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"change_log", "obligations", "laws"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

// SeedDir loads every seed document in dir. With reset true the tables
// are wiped first. Each file is validated, then inserted in its own
// transaction; the first failing file aborts the run.
func (s *Store) SeedDir(ctx context.Context, dir string, reset bool) (SeedStats, error) {
	var stats SeedStats

	paths, err := SeedDocuments(dir)
	if err != nil {
		return stats, err
	}

	if reset {
		if err := s.Reset(ctx); err != nil {
			return stats, err
		}
	}

	for _, path := range paths {
		doc, err := LoadSeedDocument(path)
		if err != nil {
			return stats, err
		}
		if issues := doc.Validate(); len(issues) > 0 {
			return stats, fmt.Errorf("invalid seed file %s: %s", filepath.Base(path), strings.Join(issues, "; "))
		}
		if err := s.InsertSeedLaw(ctx, &doc.Law); err != nil {
			return stats, fmt.Errorf("seed %s: %w", filepath.Base(path), err)
		}
		stats.Files++
	}

	stats.Laws, stats.Obligations, stats.Changes, err = s.Counts(ctx)
	return stats, err
}

// InsertSeedLaw writes one law with its obligations and change log in a
// single transaction.
func (s *Store) InsertSeedLaw(ctx context.Context, law *SeedLaw) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	applicability, err := json.Marshal(law.Applicability)
	if err != nil {
		return err
	}
	penalties, err := json.Marshal(law.Penalties)
	if err != nil {
		return err
	}
	safeHarbors, err := json.Marshal(law.SafeHarbors)
	if err != nil {
		return err
	}
	crossRefs, err := json.Marshal(law.CrossReferences)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO laws (law_id, jurisdiction, common_name, official_citation,
			status, effective_date, last_updated, source_url, summary,
			applicability, penalties, safe_harbors, cross_references)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		law.LawID, law.Jurisdiction, law.CommonName, law.OfficialCitation,
		law.Status, law.EffectiveDate, law.LastUpdated, law.SourceURL,
		law.Summary, string(applicability), string(penalties),
		string(safeHarbors), string(crossRefs),
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert law %s: %w", law.LawID, err)
	}

	for _, obl := range law.Obligations {
		recurring := 0
		if obl.Recurring {
			recurring = 1
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO obligations (obligation_id, law_id, applies_to, category,
				requirement_text, plain_language, deadline, recurring, frequency, citation)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			obl.ObligationID, law.LawID, obl.AppliesTo, obl.Category,
			obl.RequirementText, obl.PlainLanguage, obl.Deadline, recurring,
			obl.Frequency, obl.Citation,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert obligation %s: %w", obl.ObligationID, err)
		}
	}

	for _, entry := range law.ChangeLog {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO change_log (law_id, date, change_type, description)
			VALUES (?, ?, ?, ?)`,
			law.LawID, entry.Date, entry.ChangeType, entry.Description,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert change entry for %s: %w", law.LawID, err)
		}
	}

	return tx.Commit()
}
