package handler

import (
	"bytes"
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/faciam-dev/listdash/internal/api/schema"
	"github.com/faciam-dev/listdash/internal/dashboard"
	"github.com/faciam-dev/listdash/internal/events"
	"github.com/faciam-dev/listdash/pkg/columns"
	"github.com/faciam-dev/listdash/pkg/config"
	"github.com/faciam-dev/listdash/pkg/export"
	"github.com/faciam-dev/listdash/pkg/form"
	"github.com/faciam-dev/listdash/pkg/query"
	"github.com/faciam-dev/listdash/pkg/store"
)

// DashboardHandler serves the dashboard surface: records, generated-form
// mutations, column visibility and export.
type DashboardHandler struct {
	Orc    *dashboard.Orchestrator
	Events *events.Dispatcher
}

type listRecordsInput struct {
	Search string   `query:"search"`
	Filter []string `query:"filter" doc:"Applied filter in field:op:value form"`
	Page   int      `query:"page"`
}

type recordsOutput struct {
	Body schema.RecordsPage
}

type configOutput struct {
	Body config.Config
}

type createRecordInput struct {
	Body store.Record
}

type updateRecordInput struct {
	ID   string `path:"id"`
	Body store.Record
}

type deleteRecordInput struct {
	ID      string `path:"id"`
	Confirm bool   `query:"confirm" doc:"Affirmative confirmation for the delete"`
}

type mutationOutput struct {
	Body schema.MutationResult
}

type columnSetsOutput struct {
	Body schema.ColumnSets
}

type applyColumnsInput struct {
	Body struct {
		Columns []schema.ColumnVisibility `json:"columns"`
	}
}

type exportOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// Register mounts the dashboard operations on api.
func Register(api huma.API, h *DashboardHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "getDashboardConfig",
		Method:      http.MethodGet,
		Path:        "/v1/dashboard",
		Summary:     "Get dashboard configuration",
		Tags:        []string{"Dashboard"},
	}, h.getConfig)
	huma.Register(api, huma.Operation{
		OperationID: "listRecords",
		Method:      http.MethodGet,
		Path:        "/v1/dashboard/records",
		Summary:     "List records with search and filters",
		Tags:        []string{"Dashboard"},
	}, h.list)
	huma.Register(api, huma.Operation{
		OperationID:   "createRecord",
		Method:        http.MethodPost,
		Path:          "/v1/dashboard/records",
		Summary:       "Create a record through the generated form",
		Tags:          []string{"Dashboard"},
		Errors:        []int{http.StatusForbidden, http.StatusUnprocessableEntity},
		DefaultStatus: http.StatusCreated,
	}, h.create)
	huma.Register(api, huma.Operation{
		OperationID: "updateRecord",
		Method:      http.MethodPut,
		Path:        "/v1/dashboard/records/{id}",
		Summary:     "Update a record through the generated form",
		Tags:        []string{"Dashboard"},
		Errors:      []int{http.StatusForbidden, http.StatusUnprocessableEntity},
	}, h.update)
	huma.Register(api, huma.Operation{
		OperationID: "deleteRecord",
		Method:      http.MethodDelete,
		Path:        "/v1/dashboard/records/{id}",
		Summary:     "Delete a record after confirmation",
		Tags:        []string{"Dashboard"},
		Errors:      []int{http.StatusForbidden, http.StatusConflict},
	}, h.delete)
	huma.Register(api, huma.Operation{
		OperationID: "getColumns",
		Method:      http.MethodGet,
		Path:        "/v1/dashboard/columns",
		Summary:     "Get active and working column sets",
		Tags:        []string{"Columns"},
	}, h.getColumns)
	huma.Register(api, huma.Operation{
		OperationID: "applyColumns",
		Method:      http.MethodPut,
		Path:        "/v1/dashboard/columns",
		Summary:     "Apply column visibility changes",
		Tags:        []string{"Columns"},
		Errors:      []int{http.StatusForbidden},
	}, h.applyColumns)
	huma.Register(api, huma.Operation{
		OperationID: "resetColumns",
		Method:      http.MethodPost,
		Path:        "/v1/dashboard/columns/reset",
		Summary:     "Discard unapplied column visibility edits",
		Tags:        []string{"Columns"},
		Errors:      []int{http.StatusForbidden},
	}, h.resetColumns)
	huma.Register(api, huma.Operation{
		OperationID: "exportRecords",
		Method:      http.MethodGet,
		Path:        "/v1/dashboard/export",
		Summary:     "Export visible columns of the loaded set as CSV",
		Tags:        []string{"Dashboard"},
		Errors:      []int{http.StatusForbidden},
	}, h.export)
}

func (h *DashboardHandler) getConfig(_ context.Context, _ *struct{}) (*configOutput, error) {
	return &configOutput{Body: *h.Orc.Config()}, nil
}

func (h *DashboardHandler) list(ctx context.Context, in *listRecordsInput) (*recordsOutput, error) {
	filters := make([]query.Filter, 0, len(in.Filter))
	for _, raw := range in.Filter {
		f, err := query.ParseFilter(raw)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		filters = append(filters, f)
	}
	h.Orc.Apply(ctx, in.Search, filters, in.Page)
	return h.page(), nil
}

func (h *DashboardHandler) page() *recordsOutput {
	return &recordsOutput{Body: schema.RecordsPage{
		Items:     h.Orc.PageRecords(),
		Total:     h.Orc.Total(),
		Page:      h.Orc.Page(),
		PageCount: h.Orc.PageCount(),
		State:     h.Orc.State().String(),
	}}
}

func (h *DashboardHandler) create(ctx context.Context, in *createRecordInput) (*mutationOutput, error) {
	cfg := h.Orc.Config()
	if !cfg.EnableAddForm {
		return nil, huma.Error403Forbidden("add form is disabled")
	}
	sess := form.Open(cfg.Columns, nil)
	for k, v := range in.Body {
		sess.SetField(k, v)
	}
	return h.submit(ctx, sess, events.ActionCreated, nil)
}

func (h *DashboardHandler) update(ctx context.Context, in *updateRecordInput) (*mutationOutput, error) {
	cfg := h.Orc.Config()
	if !cfg.EnableEditForm {
		return nil, huma.Error403Forbidden("edit form is disabled")
	}
	seed := store.Record{columns.FieldID: in.ID}
	for k, v := range in.Body {
		seed[k] = v
	}
	sess := form.Open(cfg.Columns, seed)
	return h.submit(ctx, sess, events.ActionUpdated, in.ID)
}

// submit runs the validation gate and dispatches the mutation. Validation
// failures map to 422 with one error detail per failing field.
func (h *DashboardHandler) submit(ctx context.Context, sess *form.Session, action string, recordID any) (*mutationOutput, error) {
	payload := sess.Payload()
	if !h.Orc.Submit(ctx, sess) {
		if errs := sess.Errors(); len(errs) > 0 {
			details := make([]error, 0, len(errs))
			for field, msg := range errs {
				details = append(details, &huma.ErrorDetail{Location: "body." + field, Message: msg})
			}
			return nil, huma.Error422UnprocessableEntity("validation failed", details...)
		}
		return nil, huma.Error500InternalServerError("operation failed")
	}
	h.Events.Dispatch(ctx, events.NewRecordEvent(action, h.Orc.Config().Collection, recordID, payload))
	return &mutationOutput{Body: schema.MutationResult{Status: "ok"}}, nil
}

func (h *DashboardHandler) delete(ctx context.Context, in *deleteRecordInput) (*mutationOutput, error) {
	cfg := h.Orc.Config()
	if !cfg.EnableDeleteForm {
		return nil, huma.Error403Forbidden("delete is disabled")
	}
	ctx = dashboard.WithConfirmation(ctx, in.Confirm)
	if !in.Confirm {
		return nil, huma.Error409Conflict("delete requires confirmation")
	}
	if !h.Orc.Delete(ctx, in.ID) {
		return nil, huma.Error500InternalServerError("operation failed")
	}
	h.Events.Dispatch(ctx, events.NewRecordEvent(events.ActionDeleted, cfg.Collection, in.ID, nil))
	return &mutationOutput{Body: schema.MutationResult{Status: "ok"}}, nil
}

func (h *DashboardHandler) getColumns(_ context.Context, _ *struct{}) (*columnSetsOutput, error) {
	sel := h.Orc.Selector()
	return &columnSetsOutput{Body: schema.ColumnSets{Active: sel.Active(), Working: sel.Working()}}, nil
}

func (h *DashboardHandler) applyColumns(ctx context.Context, in *applyColumnsInput) (*columnSetsOutput, error) {
	if !h.Orc.Config().EnableColumnSelector {
		return nil, huma.Error403Forbidden("column selector is disabled")
	}
	sel := h.Orc.Selector()
	working := sel.Working()
	for _, change := range in.Body.Columns {
		col, ok := columns.Lookup(working, change.FieldName)
		if ok && col.Visible != change.Visible {
			sel.Toggle(change.FieldName)
		}
	}
	h.Orc.ApplyColumns(ctx)
	return h.getColumns(ctx, nil)
}

func (h *DashboardHandler) resetColumns(ctx context.Context, _ *struct{}) (*columnSetsOutput, error) {
	if !h.Orc.Config().EnableColumnSelector {
		return nil, huma.Error403Forbidden("column selector is disabled")
	}
	h.Orc.Selector().Reset()
	return h.getColumns(ctx, nil)
}

func (h *DashboardHandler) export(_ context.Context, _ *struct{}) (*exportOutput, error) {
	if !h.Orc.Config().EnableExport {
		return nil, huma.Error403Forbidden("export is disabled")
	}
	var buf bytes.Buffer
	if err := export.CSV(&buf, h.Orc.VisibleColumns(), h.Orc.Records()); err != nil {
		return nil, huma.Error500InternalServerError("export failed")
	}
	return &exportOutput{ContentType: "text/csv", Body: buf.Bytes()}, nil
}
