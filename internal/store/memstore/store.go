// Package memstore is an in-memory Store used by tests and the demo mode of
// the CLI. Clause evaluation mirrors what the SQL and Mongo stores do on
// the server side.
package memstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/faciam-dev/listdash/pkg/columns"
	"github.com/faciam-dev/listdash/pkg/store"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string][]store.Record
}

func New() *Store {
	return &Store{collections: make(map[string][]store.Record)}
}

// Seed replaces the contents of a collection.
func (s *Store) Seed(collection string, records []store.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Record, len(records))
	for i, r := range records {
		out[i] = clone(r)
	}
	s.collections[collection] = out
}

func (s *Store) Fetch(_ context.Context, q store.ReadQuery) ([]store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.Record
	for _, rec := range s.collections[q.Collection] {
		if matches(q.Expression, rec) {
			out = append(out, clone(rec))
		}
		if q.TopCount > 0 && len(out) >= q.TopCount {
			break
		}
	}
	return out, nil
}

func (s *Store) Create(_ context.Context, collection string, payload store.Record) (store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := clone(payload)
	if rec[columns.FieldID] == nil || fmt.Sprint(rec[columns.FieldID]) == "" {
		rec[columns.FieldID] = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	rec[columns.FieldCreated] = now
	rec[columns.FieldModified] = now
	s.collections[collection] = append(s.collections[collection], rec)
	return clone(rec), nil
}

func (s *Store) Update(_ context.Context, collection string, id any, payload store.Record) (store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.collections[collection]
	for i, rec := range recs {
		if fmt.Sprint(rec[columns.FieldID]) != fmt.Sprint(id) {
			continue
		}
		for k, v := range payload {
			if k == columns.FieldID {
				continue
			}
			rec[k] = v
		}
		rec[columns.FieldModified] = time.Now().UTC().Format(time.RFC3339)
		recs[i] = rec
		return clone(rec), nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) Delete(_ context.Context, collection string, id any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.collections[collection]
	for i, rec := range recs {
		if fmt.Sprint(rec[columns.FieldID]) == fmt.Sprint(id) {
			s.collections[collection] = append(recs[:i:i], recs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func matches(expr store.Expression, rec store.Record) bool {
	for _, g := range expr {
		if !groupMatches(g, rec) {
			return false
		}
	}
	return true
}

func groupMatches(g store.Group, rec store.Record) bool {
	if len(g.Clauses) == 0 {
		return true
	}
	for _, c := range g.Clauses {
		ok := clauseMatches(c, rec)
		if g.Condition == store.Or && ok {
			return true
		}
		if g.Condition != store.Or && !ok {
			return false
		}
	}
	return g.Condition != store.Or
}

func clauseMatches(c store.Clause, rec store.Record) bool {
	v, ok := rec[c.Key]
	if !ok {
		return false
	}
	switch c.Operator {
	case store.OpContains:
		return strings.Contains(strings.ToLower(fmt.Sprint(v)), strings.ToLower(fmt.Sprint(c.Value)))
	case store.OpEq:
		return compare(v, c.Value) == 0
	case store.OpNe:
		return compare(v, c.Value) != 0
	case store.OpGt:
		return compare(v, c.Value) > 0
	case store.OpLt:
		return compare(v, c.Value) < 0
	case store.OpGe:
		return compare(v, c.Value) >= 0
	case store.OpLe:
		return compare(v, c.Value) <= 0
	}
	return false
}

// compare orders two values numerically when both parse as numbers and
// lexically otherwise.
func compare(a, b any) int {
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	af, aerr := strconv.ParseFloat(as, 64)
	bf, berr := strconv.ParseFloat(bs, 64)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(as, bs)
}

func clone(r store.Record) store.Record {
	out := make(store.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
