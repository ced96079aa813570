package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/faciam-dev/listdash/pkg/columns"
	"github.com/faciam-dev/listdash/pkg/store"
)

func testColumns() []columns.Column {
	return []columns.Column{
		{FieldName: "ID", DisplayName: "ID", Type: columns.TypeNumber, Visible: true},
		{FieldName: "Title", DisplayName: "Title", Type: columns.TypeText, Visible: true, Searchable: true, Filterable: true},
		{FieldName: "Description", DisplayName: "Description", Type: columns.TypeText, Visible: true, Searchable: true},
		{FieldName: "Status", DisplayName: "Status", Type: columns.TypeChoice, Visible: true, Filterable: true},
	}
}

func TestBuildSearchOrGroup(t *testing.T) {
	b := Builder{Collection: "projects", TopCount: 5000}
	q := b.Build("alpha", nil, testColumns())
	want := store.ReadQuery{
		Collection: "projects",
		TopCount:   5000,
		Expression: store.Expression{{
			Condition: store.Or,
			Clauses: []store.Clause{
				{Key: "Title", Operator: store.OpContains, Value: "alpha"},
				{Key: "Description", Operator: store.OpContains, Value: "alpha"},
			},
		}},
	}
	if diff := cmp.Diff(want, q); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSearchAndFilterPrecedence(t *testing.T) {
	b := Builder{Collection: "projects", TopCount: 100}
	filters := []Filter{{FieldName: "Status", Operator: store.OpEq, Value: "Active"}}
	q := b.Build("alpha", filters, testColumns())
	if len(q.Expression) != 2 {
		t.Fatalf("expected search and filter groups, got %d", len(q.Expression))
	}
	if q.Expression[0].Condition != store.Or {
		t.Fatalf("first group condition = %s, want or", q.Expression[0].Condition)
	}
	if q.Expression[1].Condition != store.And {
		t.Fatalf("second group condition = %s, want and", q.Expression[1].Condition)
	}
	want := []store.Clause{{Key: "Status", Operator: store.OpEq, Value: "Active"}}
	if diff := cmp.Diff(want, q.Expression[1].Clauses); diff != "" {
		t.Fatalf("filter clauses mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSkipsInactiveAndUnknownFilters(t *testing.T) {
	b := Builder{Collection: "projects"}
	filters := []Filter{
		{FieldName: "Status", Operator: store.OpEq, Value: "  "},       // inactive
		{FieldName: "Nonexistent", Operator: store.OpEq, Value: "x"},   // unknown column
		{FieldName: "Description", Operator: store.OpEq, Value: "x"},   // not filterable
		{FieldName: "Title", Operator: store.Operator("??"), Value: "x"}, // invalid op -> eq
	}
	q := b.Build("", filters, testColumns())
	if len(q.Expression) != 1 {
		t.Fatalf("expected one filter group, got %d", len(q.Expression))
	}
	want := []store.Clause{{Key: "Title", Operator: store.OpEq, Value: "x"}}
	if diff := cmp.Diff(want, q.Expression[0].Clauses); diff != "" {
		t.Fatalf("clauses mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildBlankSearchProducesNoGroup(t *testing.T) {
	b := Builder{Collection: "projects"}
	q := b.Build("   ", nil, testColumns())
	if len(q.Expression) != 0 {
		t.Fatalf("expected empty expression, got %+v", q.Expression)
	}
}

func TestBuildZeroNumberFilterStaysActive(t *testing.T) {
	b := Builder{Collection: "projects"}
	q := b.Build("", []Filter{{FieldName: "Status", Operator: store.OpEq, Value: 0}}, testColumns())
	if len(q.Expression) != 1 || len(q.Expression[0].Clauses) != 1 {
		t.Fatalf("zero-valued filter should stay active, got %+v", q.Expression)
	}
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("Status:eq:Active")
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	want := Filter{FieldName: "Status", Operator: store.OpEq, Value: "Active"}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}

	f, err = ParseFilter("Due:ge:2024-01-02T15:04:05Z")
	if err != nil {
		t.Fatalf("ParseFilter with colons in value: %v", err)
	}
	if f.Value != "2024-01-02T15:04:05Z" {
		t.Fatalf("value = %v", f.Value)
	}

	if _, err := ParseFilter("no-colons"); err == nil {
		t.Fatal("expected error for malformed filter")
	}
	if _, err := ParseFilter("Status:bogus:x"); err == nil {
		t.Fatal("expected error for unknown operator")
	}
}
