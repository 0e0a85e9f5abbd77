package lawstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Store owns the three entity tables and executes filtered scans against
// them. It performs no business logic: engines hand it predicate lists
// and ordering specs, it hands back decoded rows.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (creating if needed) the SQLite database at dbPath and
// ensures the schema exists. Pass ":memory:" for an ephemeral store.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if dbPath == ":memory:" {
		// Each pooled connection would otherwise get its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, err
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *Store) initSchema() error {
	if _, err := s.db.Exec(Schema()); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ScanLaws returns laws matching every predicate, with the JSON-encoded
// composite columns decoded to structured values. Decoding is part of
// the store's read contract; callers never see raw JSON text.
func (s *Store) ScanLaws(ctx context.Context, preds []Predicate, order []OrderBy) ([]Law, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	where, args, err := compilePredicates(preds)
	if err != nil {
		return nil, err
	}

	query := `SELECT l.law_id, l.jurisdiction, l.common_name, l.official_citation,
		l.status, l.effective_date, l.last_updated, l.source_url, l.summary,
		l.applicability, l.penalties, l.safe_harbors, l.cross_references
		FROM laws l`
	if where != "" {
		query += " WHERE " + where
	}
	query += compileOrder(order)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan laws: %w", err)
	}
	defer rows.Close()

	laws := make([]Law, 0)
	for rows.Next() {
		law, err := scanLawRow(rows)
		if err != nil {
			return nil, err
		}
		laws = append(laws, law)
	}
	return laws, rows.Err()
}

// ScanObligations returns obligations matching every predicate, each
// decorated with the owning law's common name and jurisdiction.
func (s *Store) ScanObligations(ctx context.Context, preds []Predicate, order []OrderBy) ([]ObligationDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	where, args, err := compilePredicates(preds)
	if err != nil {
		return nil, err
	}

	query := `SELECT o.obligation_id, o.law_id, o.applies_to, o.category,
		o.requirement_text, o.plain_language, o.deadline, o.recurring,
		o.frequency, o.citation, l.common_name, l.jurisdiction
		FROM obligations o
		JOIN laws l ON o.law_id = l.law_id`
	if where != "" {
		query += " WHERE " + where
	}
	query += compileOrder(order)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan obligations: %w", err)
	}
	defer rows.Close()

	obligations := make([]ObligationDetail, 0)
	for rows.Next() {
		var detail ObligationDetail
		var deadline, frequency sql.NullString
		var recurring int

		err := rows.Scan(
			&detail.ObligationID, &detail.LawID, &detail.AppliesTo, &detail.Category,
			&detail.RequirementText, &detail.PlainLanguage, &deadline, &recurring,
			&frequency, &detail.Citation, &detail.LawCommonName, &detail.Jurisdiction,
		)
		if err != nil {
			return nil, fmt.Errorf("scan obligation row: %w", err)
		}

		detail.Deadline = nullableString(deadline)
		detail.Frequency = nullableString(frequency)
		detail.Recurring = recurring != 0

		obligations = append(obligations, detail)
	}
	return obligations, rows.Err()
}

// ScanChanges returns change-log entries matching every predicate, each
// decorated with the owning law's common name and jurisdiction.
func (s *Store) ScanChanges(ctx context.Context, preds []Predicate, order []OrderBy) ([]ChangeDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	where, args, err := compilePredicates(preds)
	if err != nil {
		return nil, err
	}

	query := `SELECT c.id, c.law_id, c.date, c.change_type, c.description,
		l.common_name, l.jurisdiction
		FROM change_log c
		JOIN laws l ON c.law_id = l.law_id`
	if where != "" {
		query += " WHERE " + where
	}
	query += compileOrder(order)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan changes: %w", err)
	}
	defer rows.Close()

	changes := make([]ChangeDetail, 0)
	for rows.Next() {
		var detail ChangeDetail
		err := rows.Scan(
			&detail.ID, &detail.LawID, &detail.Date, &detail.ChangeType,
			&detail.Description, &detail.LawCommonName, &detail.Jurisdiction,
		)
		if err != nil {
			return nil, fmt.Errorf("scan change row: %w", err)
		}
		changes = append(changes, detail)
	}
	return changes, rows.Err()
}

// Counts reports row counts per table, used for seed summaries.
func (s *Store) Counts(ctx context.Context) (laws, obligations, changes int64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM laws").Scan(&laws); err != nil {
		return
	}
	if err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM obligations").Scan(&obligations); err != nil {
		return
	}
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM change_log").Scan(&changes)
	return
}

func scanLawRow(rows *sql.Rows) (Law, error) {
	var law Law
	var applicability, penalties, safeHarbors, crossRefs []byte

	err := rows.Scan(
		&law.LawID, &law.Jurisdiction, &law.CommonName, &law.OfficialCitation,
		&law.Status, &law.EffectiveDate, &law.LastUpdated, &law.SourceURL,
		&law.Summary, &applicability, &penalties, &safeHarbors, &crossRefs,
	)
	if err != nil {
		return Law{}, fmt.Errorf("scan law row: %w", err)
	}

	if err := json.Unmarshal(applicability, &law.Applicability); err != nil {
		return Law{}, fmt.Errorf("decode applicability for %s: %w", law.LawID, err)
	}
	if err := json.Unmarshal(penalties, &law.Penalties); err != nil {
		return Law{}, fmt.Errorf("decode penalties for %s: %w", law.LawID, err)
	}
	if err := json.Unmarshal(safeHarbors, &law.SafeHarbors); err != nil {
		return Law{}, fmt.Errorf("decode safe_harbors for %s: %w", law.LawID, err)
	}
	if err := json.Unmarshal(crossRefs, &law.CrossReferences); err != nil {
		return Law{}, fmt.Errorf("decode cross_references for %s: %w", law.LawID, err)
	}

	return law, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
