// Package dashboard coordinates loading, mutation, filtering and display
// state for one configuration-driven dashboard.
package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/faciam-dev/listdash/internal/logger"
	"github.com/faciam-dev/listdash/internal/metrics"
	"github.com/faciam-dev/listdash/pkg/columns"
	"github.com/faciam-dev/listdash/pkg/config"
	"github.com/faciam-dev/listdash/pkg/form"
	"github.com/faciam-dev/listdash/pkg/query"
	"github.com/faciam-dev/listdash/pkg/store"
)

// State is the orchestrator's lifecycle state.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Error
	Submitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Error:
		return "error"
	case Submitting:
		return "submitting"
	}
	return "unknown"
}

// Outcome is a one-shot user notification.
type Outcome struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
	Detail  string `json:"detail"`
}

// Notifier surfaces operation outcomes to the user.
type Notifier interface {
	Notify(ctx context.Context, o Outcome)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, o Outcome)

func (f NotifierFunc) Notify(ctx context.Context, o Outcome) { f(ctx, o) }

// Confirmer gates destructive operations. The mutating call is only issued
// after Confirm returns true.
type Confirmer interface {
	Confirm(ctx context.Context, action string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, action string) bool

func (f ConfirmerFunc) Confirm(ctx context.Context, action string) bool { return f(ctx, action) }

// Orchestrator ties the query builder, form engine, visibility selector and
// external store together. All fetch-triggering operations recompute the
// read query from the latest state; only the most recently dispatched
// fetch's result is applied (last write wins).
type Orchestrator struct {
	mu       sync.Mutex
	cfg      *config.Config
	store    store.Store
	notifier Notifier
	confirm  Confirmer
	selector *columns.Selector

	searchTerm string
	filters    []query.Filter
	records    []store.Record
	total      int
	page       int
	state      State
	lastErr    error
	seq        uint64
	loadedOnce bool
}

// New builds an orchestrator in the Idle state. The first Load performs the
// mount fetch.
func New(cfg *config.Config, st store.Store, n Notifier, c Confirmer) *Orchestrator {
	if n == nil {
		n = NotifierFunc(func(context.Context, Outcome) {})
	}
	if c == nil {
		c = ConfirmerFunc(func(context.Context, string) bool { return false })
	}
	return &Orchestrator{
		cfg:      cfg,
		store:    st,
		notifier: n,
		confirm:  c,
		selector: columns.NewSelector(cfg.Columns),
		page:     1,
		state:    Idle,
	}
}

// Config returns the dashboard configuration.
func (o *Orchestrator) Config() *config.Config {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cfg
}

// Selector returns the column visibility controller. ApplyColumns publishes
// its working copy and reloads.
func (o *Orchestrator) Selector() *columns.Selector {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.selector
}

// buildQuery recomputes the read request from the latest search, filter and
// column state. Caller holds the lock.
func (o *Orchestrator) buildQuery() store.ReadQuery {
	b := query.Builder{Collection: o.cfg.Collection, TopCount: o.cfg.TopCount}
	active := o.selector.Active()
	// The searchable set derives from the active column set, honoring any
	// explicit override in the configuration.
	searchCols := o.cfg.SearchColumns(active)
	cols := columns.Clone(active)
	if len(o.cfg.SearchableFields) > 0 {
		for i := range cols {
			cols[i].Searchable = false
			for _, sc := range searchCols {
				if cols[i].FieldName == sc.FieldName {
					cols[i].Searchable = true
				}
			}
		}
	}
	return b.Build(o.searchTerm, o.filters, cols)
}

// Load fetches the working set for the current state. While the fetch is
// outstanding the previously loaded records stay displayed; a failed fetch
// keeps them too and surfaces exactly one failure notification. A result
// that arrives after a newer fetch was dispatched is discarded.
func (o *Orchestrator) Load(ctx context.Context) {
	o.mu.Lock()
	o.state = Loading
	o.lastErr = nil
	o.seq++
	seq := o.seq
	q := o.buildQuery()
	o.mu.Unlock()

	recs, err := o.store.Fetch(ctx, q)

	o.mu.Lock()
	defer o.mu.Unlock()
	if seq != o.seq {
		metrics.StaleFetchDrops.Inc()
		return
	}
	if err != nil {
		metrics.Fetches.WithLabelValues("failure").Inc()
		logger.L.Error("load records", "collection", q.Collection, "err", err)
		o.state = Error
		o.lastErr = err
		o.notifier.Notify(ctx, Outcome{Summary: "Error", Detail: "Failed to load dashboard items"})
		return
	}
	metrics.Fetches.WithLabelValues("success").Inc()
	o.records = recs
	o.total = len(recs)
	o.loadedOnce = true
	o.state = Loaded
	if o.page > o.pageCount() {
		o.page = 1
	}
}

// Search updates the free-text term, resets to the first page and reloads.
func (o *Orchestrator) Search(ctx context.Context, term string) {
	o.mu.Lock()
	o.searchTerm = term
	o.page = 1
	o.mu.Unlock()
	o.Load(ctx)
}

// ApplyFilters replaces the applied filter set, resets to the first page and
// reloads.
func (o *Orchestrator) ApplyFilters(ctx context.Context, filters []query.Filter) {
	o.mu.Lock()
	o.filters = filters
	o.page = 1
	o.mu.Unlock()
	o.Load(ctx)
}

// Apply sets search, filter and page state in one step and reloads once.
// The page cursor resets to 1 whenever the search term or filters changed.
func (o *Orchestrator) Apply(ctx context.Context, term string, filters []query.Filter, page int) {
	o.mu.Lock()
	changed := term != o.searchTerm || !equalFilters(filters, o.filters)
	o.searchTerm = term
	o.filters = filters
	if changed || page < 1 {
		o.page = 1
	} else {
		o.page = page
	}
	o.mu.Unlock()
	o.Load(ctx)
}

func equalFilters(a, b []query.Filter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].FieldName != b[i].FieldName || a[i].Operator != b[i].Operator ||
			fmt.Sprint(a[i].Value) != fmt.Sprint(b[i].Value) {
			return false
		}
	}
	return true
}

// Refresh reloads with unchanged search and filter state.
func (o *Orchestrator) Refresh(ctx context.Context) {
	o.Load(ctx)
}

// Reconfigure swaps in a new dashboard configuration, rebuilds the column
// selector and reloads. Search and filter state reset since the old terms may
// reference columns the new configuration no longer has.
func (o *Orchestrator) Reconfigure(ctx context.Context, cfg *config.Config) {
	o.mu.Lock()
	o.cfg = cfg
	o.selector = columns.NewSelector(cfg.Columns)
	o.searchTerm = ""
	o.filters = nil
	o.page = 1
	o.mu.Unlock()
	o.Load(ctx)
}

// ApplyColumns publishes the selector's working copy as the active column
// set and reloads, since the searchable set may have changed.
func (o *Orchestrator) ApplyColumns(ctx context.Context) {
	o.mu.Lock()
	o.selector.Apply()
	o.mu.Unlock()
	o.Load(ctx)
}

// Submit validates a form session and dispatches the create or update. It
// returns false without touching the store when validation fails or the
// matching feature toggle is off; validation errors stay on the session.
// The session closes on success and stays open for correction on failure.
func (o *Orchestrator) Submit(ctx context.Context, sess *form.Session) bool {
	if sess == nil {
		return false
	}
	if !sess.Validate() {
		metrics.ValidationFailures.Inc()
		return false
	}
	sess.BeginSubmit()
	var ok bool
	if sess.IsEdit() {
		ok = o.update(ctx, sess.ID(), sess.Payload())
	} else {
		ok = o.create(ctx, sess.Payload())
	}
	if ok {
		sess.Close()
	}
	return ok
}

// Create dispatches a create for an already validated payload.
func (o *Orchestrator) Create(ctx context.Context, payload store.Record) bool {
	return o.create(ctx, payload)
}

// Update dispatches an update for an already validated payload.
func (o *Orchestrator) Update(ctx context.Context, id any, payload store.Record) bool {
	return o.update(ctx, id, payload)
}

func (o *Orchestrator) create(ctx context.Context, payload store.Record) bool {
	if !o.cfg.EnableAddForm {
		return false
	}
	o.beginSubmitting()
	_, err := o.store.Create(ctx, o.cfg.Collection, payload)
	return o.finishMutation(ctx, "create", "Item created successfully", "Failed to save item", err)
}

func (o *Orchestrator) update(ctx context.Context, id any, payload store.Record) bool {
	if !o.cfg.EnableEditForm {
		return false
	}
	o.beginSubmitting()
	_, err := o.store.Update(ctx, o.cfg.Collection, id, payload)
	return o.finishMutation(ctx, "update", "Item updated successfully", "Failed to save item", err)
}

// Delete removes a record after explicit confirmation. A rejected
// confirmation causes zero store calls and zero state change.
func (o *Orchestrator) Delete(ctx context.Context, id any) bool {
	if !o.cfg.EnableDeleteForm {
		return false
	}
	if !o.confirm.Confirm(ctx, "delete") {
		return false
	}
	o.beginSubmitting()
	err := o.store.Delete(ctx, o.cfg.Collection, id)
	return o.finishMutation(ctx, "delete", "Item deleted successfully", "Failed to delete item", err)
}

func (o *Orchestrator) beginSubmitting() {
	o.mu.Lock()
	o.state = Submitting
	o.mu.Unlock()
}

// finishMutation applies the mutation outcome: on success notify and force a
// refresh so the displayed set reflects the mutation; on failure notify and
// return to Loaded without refreshing.
func (o *Orchestrator) finishMutation(ctx context.Context, action, okMsg, failMsg string, err error) bool {
	if err != nil {
		metrics.Mutations.WithLabelValues(action, "failure").Inc()
		logger.L.Error("mutation failed", "action", action, "err", err)
		o.mu.Lock()
		o.state = Loaded
		o.mu.Unlock()
		o.notifier.Notify(ctx, Outcome{Summary: "Error", Detail: failMsg})
		return false
	}
	metrics.Mutations.WithLabelValues(action, "success").Inc()
	o.notifier.Notify(ctx, Outcome{Success: true, Summary: "Success", Detail: okMsg})
	o.Load(ctx)
	return true
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Err returns the error of the most recent failed fetch, if the
// orchestrator is in the Error state.
func (o *Orchestrator) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// FirstLoad reports whether a load is in flight with nothing displayed yet,
// the case where an empty-state affordance is shown instead of stale rows.
func (o *Orchestrator) FirstLoad() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state == Loading && !o.loadedOnce
}

// Records returns the loaded working set.
func (o *Orchestrator) Records() []store.Record {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]store.Record, len(o.records))
	copy(out, o.records)
	return out
}

// Total returns the loaded record count.
func (o *Orchestrator) Total() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.total
}

// SearchTerm returns the current free-text search term.
func (o *Orchestrator) SearchTerm() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.searchTerm
}

// Filters returns the applied filter set.
func (o *Orchestrator) Filters() []query.Filter {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]query.Filter, len(o.filters))
	copy(out, o.filters)
	return out
}

// VisibleColumns returns the active visible column set used for rendering.
func (o *Orchestrator) VisibleColumns() []columns.Column {
	o.mu.Lock()
	defer o.mu.Unlock()
	return columns.Visible(o.selector.Active())
}

// Page returns the current page number, 1-based.
func (o *Orchestrator) Page() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.page
}

// SetPage moves the client-side page cursor, clamped to the valid range.
func (o *Orchestrator) SetPage(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if n < 1 {
		n = 1
	}
	if pc := o.pageCount(); n > pc {
		n = pc
	}
	o.page = n
}

// PageCount returns the number of pages in the loaded working set.
func (o *Orchestrator) PageCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pageCount()
}

func (o *Orchestrator) pageCount() int {
	if o.total == 0 {
		return 1
	}
	per := o.perPage()
	return (o.total + per - 1) / per
}

func (o *Orchestrator) perPage() int {
	if o.cfg.ItemsPerPage <= 0 {
		return config.DefaultItemsPerPage
	}
	return o.cfg.ItemsPerPage
}

// PageRecords returns the slice of the working set for the current page.
func (o *Orchestrator) PageRecords() []store.Record {
	o.mu.Lock()
	defer o.mu.Unlock()
	per := o.perPage()
	start := (o.page - 1) * per
	if start >= len(o.records) {
		return nil
	}
	end := start + per
	if end > len(o.records) {
		end = len(o.records)
	}
	out := make([]store.Record, end-start)
	copy(out, o.records[start:end])
	return out
}
