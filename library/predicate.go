package library

import (
	"strings"
)

// SearchField is a column books may be filtered on. The set is closed: column
// text in a built predicate only ever comes from this enumeration.
type SearchField int

const (
	FieldTitle SearchField = iota + 1
	FieldAuthor
	FieldGenre
)

var searchColumns = map[SearchField]string{
	FieldTitle:  "title",
	FieldAuthor: "author",
	FieldGenre:  "genre",
}

func (f SearchField) column() (string, bool) {
	col, ok := searchColumns[f]
	return col, ok
}

func (f SearchField) String() string {
	if col, ok := f.column(); ok {
		return col
	}
	return "unknown"
}

// ParseSearchField maps a user-facing name to its field. Unknown names report
// false.
func ParseSearchField(name string) (SearchField, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for f, col := range searchColumns {
		if col == key {
			return f, true
		}
	}
	return 0, false
}

// SearchFilter asks for rows whose Field contains Value as a substring.
type SearchFilter struct {
	Field SearchField
	Value string
}

// Predicate is a WHERE clause with ? placeholders and its bound arguments, in
// matching order.
type Predicate struct {
	Clause string
	Args   []any
}

// BuildPredicate turns filters into a parameterized conjunction of LIKE
// clauses, in the order given. Filters on fields outside the allow-list and
// filters with blank values are skipped. If nothing is left it returns
// ErrNoCriteria.
func BuildPredicate(filters ...SearchFilter) (Predicate, error) {
	var (
		parts []string
		args  []any
	)
	for _, f := range filters {
		col, ok := f.Field.column()
		if !ok || strings.TrimSpace(f.Value) == "" {
			continue
		}
		parts = append(parts, col+" LIKE ?")
		args = append(args, "%"+f.Value+"%")
	}

	if len(parts) == 0 {
		return Predicate{}, ErrNoCriteria
	}
	return Predicate{Clause: strings.Join(parts, " AND "), Args: args}, nil
}
