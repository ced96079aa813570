// Package schema holds the request and response bodies of the HTTP API.
package schema

import (
	"github.com/faciam-dev/listdash/pkg/columns"
	"github.com/faciam-dev/listdash/pkg/store"
)

// RecordsPage is one client-side page of the loaded working set.
type RecordsPage struct {
	Items     []store.Record `json:"items"`
	Total     int            `json:"total"`
	Page      int            `json:"page"`
	PageCount int            `json:"pageCount"`
	State     string         `json:"state"`
}

// ColumnSets exposes the active and working column sets of the selector.
type ColumnSets struct {
	Active  []columns.Column `json:"active"`
	Working []columns.Column `json:"working"`
}

// ColumnVisibility is one requested visibility change.
type ColumnVisibility struct {
	FieldName string `json:"fieldName"`
	Visible   bool   `json:"visible"`
}

// MutationResult reports the outcome of a dispatched mutation.
type MutationResult struct {
	Status string `json:"status"`
}

// StoreQuery is the passthrough read request body.
type StoreQuery struct {
	Expression store.Expression `json:"expression,omitempty"`
	TopCount   int              `json:"topCount,omitempty"`
}
