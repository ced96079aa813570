package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/faciam-dev/listdash/pkg/store"
)

func seeded() *Store {
	s := New()
	s.Seed("tasks", []store.Record{
		{"ID": 1, "Title": "Write report", "Status": "Open", "Priority": 2},
		{"ID": 2, "Title": "Review budget", "Status": "Done", "Priority": 1},
		{"ID": 3, "Title": "Report findings", "Status": "Open", "Priority": 3},
	})
	return s
}

func TestFetchSearchOrFilterAnd(t *testing.T) {
	s := seeded()
	q := store.ReadQuery{
		Collection: "tasks",
		Expression: store.Expression{
			{Condition: store.Or, Clauses: []store.Clause{
				{Key: "Title", Operator: store.OpContains, Value: "report"},
			}},
			{Condition: store.And, Clauses: []store.Clause{
				{Key: "Status", Operator: store.OpEq, Value: "Open"},
			}},
		},
	}
	got, err := s.Fetch(context.Background(), q)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2 (search AND filter)", len(got))
	}
	for _, r := range got {
		if r["Status"] != "Open" {
			t.Fatalf("filter leaked record %+v", r)
		}
	}
}

func TestFetchNumericComparison(t *testing.T) {
	s := seeded()
	q := store.ReadQuery{
		Collection: "tasks",
		Expression: store.Expression{{Condition: store.And, Clauses: []store.Clause{
			{Key: "Priority", Operator: store.OpGe, Value: "2"},
		}}},
	}
	got, err := s.Fetch(context.Background(), q)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2 with Priority >= 2", len(got))
	}
}

func TestFetchTopCount(t *testing.T) {
	s := seeded()
	got, err := s.Fetch(context.Background(), store.ReadQuery{Collection: "tasks", TopCount: 2})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want TopCount cap of 2", len(got))
	}
}

func TestCreateAssignsIDAndAuditFields(t *testing.T) {
	s := New()
	rec, err := s.Create(context.Background(), "tasks", store.Record{"Title": "New"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec["ID"] == nil || rec["ID"] == "" {
		t.Fatal("Create must assign an ID")
	}
	if rec["Created"] == nil || rec["Modified"] == nil {
		t.Fatal("Create must stamp audit fields")
	}
}

func TestUpdateMergesAndProtectsID(t *testing.T) {
	s := seeded()
	rec, err := s.Update(context.Background(), "tasks", 1, store.Record{"ID": 99, "Status": "Done"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec["ID"] != 1 {
		t.Fatalf("ID changed to %v", rec["ID"])
	}
	if rec["Status"] != "Done" || rec["Title"] != "Write report" {
		t.Fatalf("merge wrong: %+v", rec)
	}

	if _, err := s.Update(context.Background(), "tasks", 42, store.Record{}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing record: err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := seeded()
	if err := s.Delete(context.Background(), "tasks", 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ := s.Fetch(context.Background(), store.ReadQuery{Collection: "tasks"})
	if len(got) != 2 {
		t.Fatalf("got %d records after delete", len(got))
	}
	if err := s.Delete(context.Background(), "tasks", 2); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestFetchReturnsCopies(t *testing.T) {
	s := seeded()
	got, _ := s.Fetch(context.Background(), store.ReadQuery{Collection: "tasks"})
	got[0]["Title"] = "mutated"
	again, _ := s.Fetch(context.Background(), store.ReadQuery{Collection: "tasks"})
	if again[0]["Title"] == "mutated" {
		t.Fatal("Fetch must return independent copies")
	}
}
