package lawstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileEmptyPredicateList(t *testing.T) {
	where, args, err := compilePredicates(nil)
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestCompileConjoinsWithAnd(t *testing.T) {
	where, args, err := compilePredicates([]Predicate{
		Equals{Column: "l.jurisdiction", Value: "CO"},
		RangeAfter{Column: "l.effective_date", Min: "2026-01-01"},
		RangeBefore{Column: "l.effective_date", Max: "2026-12-31"},
	})
	require.NoError(t, err)
	assert.Equal(t, "l.jurisdiction = ? AND l.effective_date >= ? AND l.effective_date <= ?", where)
	assert.Equal(t, []any{"CO", "2026-01-01", "2026-12-31"}, args)
}

func TestCompileSubstringAnyOf(t *testing.T) {
	where, args, err := compilePredicates([]Predicate{
		SubstringAnyOf{Columns: []string{"l.common_name", "l.summary"}, Needle: "AI"},
	})
	require.NoError(t, err)
	assert.Equal(t, "(instr(l.common_name, ?) > 0 OR instr(l.summary, ?) > 0)", where)
	assert.Equal(t, []any{"AI", "AI"}, args)
}

func TestCompileIn(t *testing.T) {
	where, args, err := compilePredicates([]Predicate{
		In{Column: "l.jurisdiction", Values: []string{"CO", "CA"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "l.jurisdiction IN (?,?)", where)
	assert.Equal(t, []any{"CO", "CA"}, args)
}

func TestCompileInEmptyMatchesNothing(t *testing.T) {
	where, args, err := compilePredicates([]Predicate{
		In{Column: "l.jurisdiction", Values: nil},
	})
	require.NoError(t, err)
	assert.Equal(t, "0 = 1", where)
	assert.Empty(t, args)
}

func TestCompileExistsJoinWhere(t *testing.T) {
	where, args, err := compilePredicates([]Predicate{
		ExistsJoinWhere{Preds: []Predicate{
			Equals{Column: "o.applies_to", Value: "deployer"},
			Equals{Column: "o.category", Value: "transparency"},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"EXISTS (SELECT 1 FROM obligations o WHERE o.law_id = l.law_id AND o.applies_to = ? AND o.category = ?)",
		where)
	assert.Equal(t, []any{"deployer", "transparency"}, args)
}

func TestCompileOrder(t *testing.T) {
	assert.Empty(t, compileOrder(nil))
	assert.Equal(t, " ORDER BY l.effective_date ASC", compileOrder([]OrderBy{{Column: "l.effective_date"}}))
	assert.Equal(t, " ORDER BY c.date DESC, c.id ASC", compileOrder([]OrderBy{
		{Column: "c.date", Desc: true},
		{Column: "c.id"},
	}))
}
