package lawstore

import (
	"fmt"
	"strings"
)

// Predicate is a typed filter constraint. Engines compose predicate
// lists; only the store compiles them to SQL, so callers stay
// store-agnostic and no query text is assembled outside this package.
//
// Column names are qualified the way the store's scans alias tables:
// "l." for laws, "o." for obligations, "c." for change_log.
type Predicate interface {
	isPredicate()
}

// Equals constrains a column to an exact value.
type Equals struct {
	Column string
	Value  any
}

// RangeAfter constrains a column to values >= Min (inclusive).
// Lexicographic comparison is valid for the fixed-width ISO dates
// these columns hold.
type RangeAfter struct {
	Column string
	Min    string
}

// RangeBefore constrains a column to values <= Max (inclusive).
type RangeBefore struct {
	Column string
	Max    string
}

// SubstringAnyOf matches rows where Needle appears as a case-sensitive
// substring in at least one of Columns.
type SubstringAnyOf struct {
	Columns []string
	Needle  string
}

// In constrains a column to a member of Values.
type In struct {
	Column string
	Values []string
}

// ExistsJoinWhere constrains a law row to those owning at least one
// obligation satisfying every inner predicate on the same obligation
// row. Inner columns use the "o." qualifier.
type ExistsJoinWhere struct {
	Preds []Predicate
}

func (Equals) isPredicate()          {}
func (RangeAfter) isPredicate()      {}
func (RangeBefore) isPredicate()     {}
func (SubstringAnyOf) isPredicate()  {}
func (In) isPredicate()              {}
func (ExistsJoinWhere) isPredicate() {}

// OrderBy is one column of an ordering spec.
type OrderBy struct {
	Column string
	Desc   bool
}

// compilePredicates renders a predicate list as an AND-joined WHERE
// fragment with positional parameters. An empty list yields an empty
// clause (unconstrained scan).
func compilePredicates(preds []Predicate) (string, []any, error) {
	var clauses []string
	var args []any

	for _, pred := range preds {
		clause, predArgs, err := compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, clause)
		args = append(args, predArgs...)
	}

	return strings.Join(clauses, " AND "), args, nil
}

func compilePredicate(pred Predicate) (string, []any, error) {
	switch p := pred.(type) {
	case Equals:
		return fmt.Sprintf("%s = ?", p.Column), []any{p.Value}, nil

	case RangeAfter:
		return fmt.Sprintf("%s >= ?", p.Column), []any{p.Min}, nil

	case RangeBefore:
		return fmt.Sprintf("%s <= ?", p.Column), []any{p.Max}, nil

	case SubstringAnyOf:
		// instr is case-sensitive, unlike LIKE. Free-text matching is
		// specified as exact-case substring search.
		parts := make([]string, len(p.Columns))
		args := make([]any, len(p.Columns))
		for i, col := range p.Columns {
			parts[i] = fmt.Sprintf("instr(%s, ?) > 0", col)
			args[i] = p.Needle
		}
		return "(" + strings.Join(parts, " OR ") + ")", args, nil

	case In:
		if len(p.Values) == 0 {
			return "0 = 1", nil, nil
		}
		placeholders := strings.Repeat("?,", len(p.Values))
		placeholders = placeholders[:len(placeholders)-1]
		args := make([]any, len(p.Values))
		for i, v := range p.Values {
			args[i] = v
		}
		return fmt.Sprintf("%s IN (%s)", p.Column, placeholders), args, nil

	case ExistsJoinWhere:
		inner, args, err := compilePredicates(p.Preds)
		if err != nil {
			return "", nil, err
		}
		clause := "EXISTS (SELECT 1 FROM obligations o WHERE o.law_id = l.law_id"
		if inner != "" {
			clause += " AND " + inner
		}
		clause += ")"
		return clause, args, nil

	default:
		return "", nil, fmt.Errorf("unsupported predicate type %T", pred)
	}
}

func compileOrder(order []OrderBy) string {
	if len(order) == 0 {
		return ""
	}
	parts := make([]string, len(order))
	for i, o := range order {
		direction := "ASC"
		if o.Desc {
			direction = "DESC"
		}
		parts[i] = o.Column + " " + direction
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
