// Package query turns user search and filter state into a normalized read
// request against the external store.
package query

import (
	"fmt"
	"strings"

	"github.com/faciam-dev/listdash/pkg/columns"
	"github.com/faciam-dev/listdash/pkg/store"
)

// Filter is one user-applied constraint. A filter with an empty value is
// inert and never reaches the store.
type Filter struct {
	FieldName string         `json:"fieldName"`
	Operator  store.Operator `json:"operator"`
	Value     any            `json:"value"`
}

// Builder assembles read queries. TopCount bounds the working set pulled
// from the store; filtering and pagination beyond that happen client-side.
type Builder struct {
	Collection string
	TopCount   int
}

// Build produces the request for the current search term, applied filters
// and active column set. Precedence is fixed: the search group (contains,
// or-combined over searchable columns) and the filter group (declared
// operators, and-combined) join with AND. Filters referencing unknown or
// non-filterable columns are dropped rather than failing the query.
func (b Builder) Build(searchTerm string, filters []Filter, cols []columns.Column) store.ReadQuery {
	q := store.ReadQuery{Collection: b.Collection, TopCount: b.TopCount}

	searchTerm = strings.TrimSpace(searchTerm)
	if searchTerm != "" {
		search := store.Group{Condition: store.Or}
		for _, col := range columns.Searchable(cols) {
			search.Clauses = append(search.Clauses, store.Clause{
				Key:      col.FieldName,
				Operator: store.OpContains,
				Value:    searchTerm,
			})
		}
		if len(search.Clauses) > 0 {
			q.Expression = append(q.Expression, search)
		}
	}

	group := store.Group{Condition: store.And}
	for _, f := range filters {
		if !active(f) {
			continue
		}
		col, ok := columns.Lookup(cols, f.FieldName)
		if !ok || !col.Filterable {
			continue
		}
		op := f.Operator
		if !op.Valid() {
			op = store.OpEq
		}
		group.Clauses = append(group.Clauses, store.Clause{Key: f.FieldName, Operator: op, Value: f.Value})
	}
	if len(group.Clauses) > 0 {
		q.Expression = append(q.Expression, group)
	}
	return q
}

// active reports whether a filter carries a usable value.
func active(f Filter) bool {
	if f.FieldName == "" || f.Value == nil {
		return false
	}
	return strings.TrimSpace(fmt.Sprint(f.Value)) != ""
}

// ParseFilter decodes the "field:op:value" form used by CLI flags and query
// parameters. The value may itself contain colons.
func ParseFilter(s string) (Filter, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return Filter{}, fmt.Errorf("invalid filter %q (want field:op:value)", s)
	}
	op := store.Operator(parts[1])
	if !op.Valid() {
		return Filter{}, fmt.Errorf("invalid filter operator %q", parts[1])
	}
	return Filter{FieldName: parts[0], Operator: op, Value: parts[2]}, nil
}
