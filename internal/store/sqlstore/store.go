// Package sqlstore backs a dashboard with a SQL collection. Queries are
// assembled with goquent; mysql, postgres and sqlite drivers are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	ormdriver "github.com/faciam-dev/goquent/orm/driver"
	"github.com/faciam-dev/goquent/orm/query"

	"github.com/faciam-dev/listdash/pkg/columns"
	"github.com/faciam-dev/listdash/pkg/store"
)

type Store struct {
	DB      *sql.DB
	Dialect ormdriver.Dialect
}

// New wires a store over db. The dialect follows the driver name; sqlite
// shares the postgres dialect for its double-quoted identifiers.
func New(db *sql.DB, driver string) *Store {
	return &Store{DB: db, Dialect: DialectFromDriver(driver)}
}

// DialectFromDriver maps a database/sql driver name to a goquent dialect.
func DialectFromDriver(driver string) ormdriver.Dialect {
	switch driver {
	case "postgres", "sqlite3", "sqlite":
		return ormdriver.PostgresDialect{}
	default:
		return ormdriver.MySQLDialect{}
	}
}

func (s *Store) Fetch(ctx context.Context, rq store.ReadQuery) ([]store.Record, error) {
	q := query.New(s.DB, rq.Collection, s.Dialect).WithContext(ctx)
	for _, g := range rq.Expression {
		group := g
		q.WhereGroup(func(w *query.Query) {
			applyGroup(w, group)
		})
	}
	if rq.TopCount > 0 {
		q.Limit(rq.TopCount)
	}
	sqlStr, args, err := q.Build()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := s.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *Store) Create(ctx context.Context, collection string, payload store.Record) (store.Record, error) {
	data := mutationData(payload)
	q := query.New(s.DB, collection, s.Dialect).WithContext(ctx)
	id, err := q.InsertGetId(data)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	out := make(store.Record, len(payload)+1)
	for k, v := range payload {
		out[k] = v
	}
	out[columns.FieldID] = id
	return out, nil
}

func (s *Store) Update(ctx context.Context, collection string, id any, payload store.Record) (store.Record, error) {
	data := mutationData(payload)
	q := query.New(s.DB, collection, s.Dialect).
		Where(columns.FieldID, id).
		WithContext(ctx)
	if _, err := q.Update(data); err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	out := make(store.Record, len(payload)+1)
	for k, v := range payload {
		out[k] = v
	}
	out[columns.FieldID] = id
	return out, nil
}

func (s *Store) Delete(ctx context.Context, collection string, id any) error {
	q := query.New(s.DB, collection, s.Dialect).
		Where(columns.FieldID, id).
		WithContext(ctx)
	if _, err := q.Delete(); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// applyGroup translates one clause group. Clauses of an or-combined group
// chain on the group receiver so the whole group stays parenthesized and
// keeps its precedence against the surrounding and.
func applyGroup(w *query.Query, g store.Group) {
	for i, c := range g.Clauses {
		op, val := clauseOp(c)
		if g.Condition == store.Or && i > 0 {
			w.OrWhere(c.Key, op, val)
			continue
		}
		w.Where(c.Key, op, val)
	}
}

func clauseOp(c store.Clause) (string, any) {
	switch c.Operator {
	case store.OpContains:
		return "like", "%" + escapeLike(fmt.Sprint(c.Value)) + "%"
	case store.OpNe:
		return "!=", c.Value
	case store.OpGt:
		return ">", c.Value
	case store.OpLt:
		return "<", c.Value
	case store.OpGe:
		return ">=", c.Value
	case store.OpLe:
		return "<=", c.Value
	default:
		return "=", c.Value
	}
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

// mutationData strips the identifier from a payload; it is carried
// separately by Update and generated by the database on Create.
func mutationData(payload store.Record) map[string]any {
	data := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == columns.FieldID {
			continue
		}
		data[k] = v
	}
	return data
}

// scanRecords reads rows into generic records without assuming a schema.
func scanRecords(rows *sql.Rows) ([]store.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	var out []store.Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec := make(store.Record, len(cols))
		for i, name := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec[name] = string(b)
				continue
			}
			rec[name] = vals[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
