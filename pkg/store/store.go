package store

import (
	"context"
	"errors"
)

// Record is one row of a backing collection, keyed by field name. The
// dashboard never assumes a schema beyond what its column configuration
// declares.
type Record map[string]any

// Operator is a comparison applied by a single filter clause.
type Operator string

const (
	OpEq       Operator = "eq"
	OpNe       Operator = "ne"
	OpGt       Operator = "gt"
	OpLt       Operator = "lt"
	OpGe       Operator = "ge"
	OpLe       Operator = "le"
	OpContains Operator = "contains"
)

// Valid reports whether op is one of the supported comparison operators.
func (op Operator) Valid() bool {
	switch op {
	case OpEq, OpNe, OpGt, OpLt, OpGe, OpLe, OpContains:
		return true
	}
	return false
}

// Condition combines the clauses of one group.
type Condition string

const (
	And Condition = "and"
	Or  Condition = "or"
)

// Clause is one {field, operator, value} predicate.
type Clause struct {
	Key      string   `json:"key"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// Group is an ordered clause sequence combined with a single condition.
type Group struct {
	Condition Condition `json:"condition"`
	Clauses   []Clause  `json:"clauses"`
}

// Expression is an ordered set of groups. Groups always combine with AND;
// a query builder emits at most one search group and one filter group.
type Expression []Group

// ReadQuery asks a store for a bounded working set of records.
type ReadQuery struct {
	Collection string     `json:"collection"`
	Expression Expression `json:"expression,omitempty"`
	TopCount   int        `json:"topCount,omitempty"`
}

var (
	// ErrNotFound is returned when a targeted record does not exist.
	ErrNotFound = errors.New("record not found")
)

// Store is the boundary to the external data source. Implementations
// translate the expression shape into their own query dialect.
type Store interface {
	Fetch(ctx context.Context, q ReadQuery) ([]Record, error)
	Create(ctx context.Context, collection string, payload Record) (Record, error)
	Update(ctx context.Context, collection string, id any, payload Record) (Record, error)
	Delete(ctx context.Context, collection string, id any) error
}
