package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/faciam-dev/listdash/internal/api/schema"
	"github.com/faciam-dev/listdash/internal/events"
	"github.com/faciam-dev/listdash/pkg/columns"
	"github.com/faciam-dev/listdash/pkg/config"
	"github.com/faciam-dev/listdash/pkg/store"
)

// StoreHandler is the raw record surface under /v1/store. It bypasses the
// dashboard working set but keeps the same backend and event stream.
type StoreHandler struct {
	Store  store.Store
	Events *events.Dispatcher
}

type storeQueryInput struct {
	Collection string `path:"collection"`
	Body       schema.StoreQuery
}

type storeQueryOutput struct {
	Body struct {
		Items []store.Record `json:"items"`
		Total int            `json:"total"`
	}
}

type storeCreateInput struct {
	Collection string `path:"collection"`
	Body       store.Record
}

type storeUpdateInput struct {
	Collection string `path:"collection"`
	ID         string `path:"id"`
	Body       store.Record
}

type storeDeleteInput struct {
	Collection string `path:"collection"`
	ID         string `path:"id"`
}

type storeRecordOutput struct {
	Body store.Record
}

// RegisterStore mounts the passthrough record operations on api.
func RegisterStore(api huma.API, h *StoreHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "queryRecords",
		Method:      http.MethodPost,
		Path:        "/v1/store/{collection}/query",
		Summary:     "Query records of a collection",
		Tags:        []string{"Store"},
	}, h.query)
	huma.Register(api, huma.Operation{
		OperationID:   "createStoreRecord",
		Method:        http.MethodPost,
		Path:          "/v1/store/{collection}/records",
		Summary:       "Create a record",
		Tags:          []string{"Store"},
		DefaultStatus: http.StatusCreated,
	}, h.create)
	huma.Register(api, huma.Operation{
		OperationID: "updateStoreRecord",
		Method:      http.MethodPut,
		Path:        "/v1/store/{collection}/records/{id}",
		Summary:     "Update a record",
		Tags:        []string{"Store"},
		Errors:      []int{http.StatusNotFound},
	}, h.update)
	huma.Register(api, huma.Operation{
		OperationID: "deleteStoreRecord",
		Method:      http.MethodDelete,
		Path:        "/v1/store/{collection}/records/{id}",
		Summary:     "Delete a record",
		Tags:        []string{"Store"},
		Errors:      []int{http.StatusNotFound},
	}, h.delete)
}

func (h *StoreHandler) query(ctx context.Context, in *storeQueryInput) (*storeQueryOutput, error) {
	q := store.ReadQuery{
		Collection: in.Collection,
		Expression: in.Body.Expression,
		TopCount:   in.Body.TopCount,
	}
	if q.TopCount <= 0 {
		q.TopCount = config.DefaultTopCount
	}
	recs, err := h.Store.Fetch(ctx, q)
	if err != nil {
		return nil, huma.Error502BadGateway("query failed", err)
	}
	out := &storeQueryOutput{}
	out.Body.Items = recs
	out.Body.Total = len(recs)
	return out, nil
}

func (h *StoreHandler) create(ctx context.Context, in *storeCreateInput) (*storeRecordOutput, error) {
	rec, err := h.Store.Create(ctx, in.Collection, in.Body)
	if err != nil {
		return nil, huma.Error502BadGateway("create failed", err)
	}
	h.Events.Dispatch(ctx, events.NewRecordEvent(events.ActionCreated, in.Collection, rec[columns.FieldID], rec))
	return &storeRecordOutput{Body: rec}, nil
}

func (h *StoreHandler) update(ctx context.Context, in *storeUpdateInput) (*storeRecordOutput, error) {
	rec, err := h.Store.Update(ctx, in.Collection, in.ID, in.Body)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("record not found")
		}
		return nil, huma.Error502BadGateway("update failed", err)
	}
	h.Events.Dispatch(ctx, events.NewRecordEvent(events.ActionUpdated, in.Collection, in.ID, rec))
	return &storeRecordOutput{Body: rec}, nil
}

func (h *StoreHandler) delete(ctx context.Context, in *storeDeleteInput) (*mutationOutput, error) {
	if err := h.Store.Delete(ctx, in.Collection, in.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("record not found")
		}
		return nil, huma.Error502BadGateway("delete failed", err)
	}
	h.Events.Dispatch(ctx, events.NewRecordEvent(events.ActionDeleted, in.Collection, in.ID, nil))
	return &mutationOutput{Body: schema.MutationResult{Status: "ok"}}, nil
}
