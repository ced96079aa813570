package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/faciam-dev/listdash/internal/api/handler"
	"github.com/faciam-dev/listdash/internal/dashboard"
	"github.com/faciam-dev/listdash/internal/store/memstore"
	"github.com/faciam-dev/listdash/pkg/columns"
	"github.com/faciam-dev/listdash/pkg/config"
	"github.com/faciam-dev/listdash/pkg/store"
)

func newAPI(t *testing.T, cfg *config.Config) (huma.API, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	st.Seed(cfg.Collection, []store.Record{
		{"ID": 1, "Title": "Write report", "Status": "Open"},
		{"ID": 2, "Title": "Review budget", "Status": "Done"},
	})
	orc := dashboard.New(cfg, st, nil, dashboard.ContextConfirmer{})
	orc.Load(context.Background())

	r := chi.NewRouter()
	api := humachi.New(r, huma.DefaultConfig("test", "1.0"))
	handler.Register(api, &handler.DashboardHandler{Orc: orc})
	handler.RegisterStore(api, &handler.StoreHandler{Store: st})
	return api, st
}

func testConfig() *config.Config {
	cfg := &config.Config{
		ListName: "Task",
		Columns: []columns.Column{
			{FieldName: "ID", Type: columns.TypeNumber, Visible: true},
			{FieldName: "Title", Type: columns.TypeText, Visible: true, Searchable: true, Required: true},
			{FieldName: "Status", Type: columns.TypeChoice, Visible: true, Filterable: true, Choices: []string{"Open", "Done"}},
		},
		EnableAddForm:        true,
		EnableEditForm:       true,
		EnableDeleteForm:     true,
		EnableColumnSelector: true,
		EnableExport:         true,
	}
	cfg.ApplyDefaults()
	return cfg
}

func do(t *testing.T, api huma.API, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	api.Adapter().ServeHTTP(w, req)
	return w
}

func TestListRecordsWithSearchAndFilter(t *testing.T) {
	api, _ := newAPI(t, testConfig())
	w := do(t, api, http.MethodGet, "/v1/dashboard/records?search=report&filter=Status:eq:Open", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
		Page  int              `json:"page"`
		State string           `json:"state"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Items[0]["Title"] != "Write report" {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.State != "loaded" {
		t.Fatalf("state = %q", resp.State)
	}
}

func TestCreateRecordValidationError(t *testing.T) {
	api, _ := newAPI(t, testConfig())
	w := do(t, api, http.MethodPost, "/v1/dashboard/records", `{"Title": ""}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Title is required") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestCreateRecordSuccess(t *testing.T) {
	api, st := newAPI(t, testConfig())
	w := do(t, api, http.MethodPost, "/v1/dashboard/records", `{"Title": "New task", "Status": "Open"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}
	recs, _ := st.Fetch(context.Background(), store.ReadQuery{Collection: "tasks"})
	if len(recs) != 3 {
		t.Fatalf("store has %d records, want 3", len(recs))
	}
}

func TestCreateDisabledByToggle(t *testing.T) {
	cfg := testConfig()
	cfg.EnableAddForm = false
	api, _ := newAPI(t, cfg)
	w := do(t, api, http.MethodPost, "/v1/dashboard/records", `{"Title": "x"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	api, st := newAPI(t, testConfig())
	w := do(t, api, http.MethodDelete, "/v1/dashboard/records/1", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}
	recs, _ := st.Fetch(context.Background(), store.ReadQuery{Collection: "tasks"})
	if len(recs) != 2 {
		t.Fatal("unconfirmed delete must not remove records")
	}

	w = do(t, api, http.MethodDelete, "/v1/dashboard/records/1?confirm=true", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}
	recs, _ = st.Fetch(context.Background(), store.ReadQuery{Collection: "tasks"})
	if len(recs) != 1 {
		t.Fatal("confirmed delete must remove the record")
	}
}

func TestApplyColumnsPinsReserved(t *testing.T) {
	api, _ := newAPI(t, testConfig())
	body := `{"columns": [{"fieldName": "ID", "visible": false}, {"fieldName": "Status", "visible": false}]}`
	w := do(t, api, http.MethodPut, "/v1/dashboard/columns", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Active []struct {
			FieldName string `json:"fieldName"`
			Visible   bool   `json:"visible"`
		} `json:"active"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, c := range resp.Active {
		switch c.FieldName {
		case "ID":
			if !c.Visible {
				t.Fatal("ID must stay pinned visible")
			}
		case "Status":
			if c.Visible {
				t.Fatal("Status should be hidden after apply")
			}
		}
	}
}

func TestExportCSV(t *testing.T) {
	api, _ := newAPI(t, testConfig())
	w := do(t, api, http.MethodGet, "/v1/dashboard/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Write report") {
		t.Fatalf("csv body = %s", w.Body.String())
	}
}

func TestExportDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.EnableExport = false
	api, _ := newAPI(t, cfg)
	w := do(t, api, http.MethodGet, "/v1/dashboard/export", "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}
}

func TestStorePassthroughQuery(t *testing.T) {
	api, _ := newAPI(t, testConfig())
	body := `{"expression": [{"condition": "and", "clauses": [{"key": "Status", "operator": "eq", "value": "Done"}]}]}`
	w := do(t, api, http.MethodPost, "/v1/store/tasks/query", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Items[0]["Title"] != "Review budget" {
		t.Fatalf("resp = %+v", resp)
	}
}
