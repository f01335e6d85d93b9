package tabular

import "time"

// Actions are the caller's handlers for row intents. Each one is optional
// and fire-and-forget: the view never waits on them or learns whether the
// underlying operation worked.
type Actions struct {
	OnRow     func(r Record)
	OnAdd     func()
	OnEdit    func(r Record)
	OnDelete  func(r Record)
	OnRefresh func()
}

// Options configures a View. Zero values pick the defaults.
type Options struct {
	Columns     []Column
	SearchKeys  []string // empty searches every column key
	PageSize    int
	WindowSize  int
	SearchDelay time.Duration // zero picks DefaultSearchDelay, negative disables it
	Scheduler   Scheduler
	Actions     Actions
}

// View owns the search, sort and page state of one table and derives the
// visible projection of the caller's records. It is not safe for concurrent
// use; callbacks scheduled through the Scheduler must run on the same loop
// that drives the view.
type View struct {
	columns    []Column
	searchKeys []string
	pageSize   int
	windowSize int
	delay      time.Duration
	sched      Scheduler
	actions    Actions

	records []Record
	rows    []Record // filtered, then sorted

	typed   string
	applied string
	sort    *SortState
	page    int

	pending    Token
	hasPending bool

	deleteTarget Record
	deleting     bool
}

// New creates a view over records.
func New(records []Record, opts Options) *View {
	v := &View{
		columns:    opts.Columns,
		searchKeys: opts.SearchKeys,
		pageSize:   opts.PageSize,
		windowSize: opts.WindowSize,
		delay:      opts.SearchDelay,
		sched:      opts.Scheduler,
		actions:    opts.Actions,
		page:       1,
	}
	if v.pageSize <= 0 {
		v.pageSize = DefaultPageSize
	}
	if v.windowSize <= 0 {
		v.windowSize = DefaultWindowSize
	}
	switch {
	case v.delay == 0:
		v.delay = DefaultSearchDelay
	case v.delay < 0:
		v.delay = 0
	}
	if v.sched == nil {
		v.sched = Immediate{}
	}
	if len(v.searchKeys) == 0 {
		for _, c := range v.columns {
			v.searchKeys = append(v.searchKeys, c.Key)
		}
	}

	v.records = records
	v.refresh()
	return v
}

// Columns returns the column descriptors.
func (v *View) Columns() []Column { return v.columns }

// PageSize returns the fixed page size.
func (v *View) PageSize() int { return v.pageSize }

// ═══════════════════════════════════════════════════════════════════════════
// Pipeline
// ═══════════════════════════════════════════════════════════════════════════

// SetRecords replaces the record set and re-runs filter, sort and paging.
// Query and sort survive; the page is clamped if the set shrank.
func (v *View) SetRecords(records []Record) {
	v.records = records
	v.refresh()
}

// Records returns the caller's full record set.
func (v *View) Records() []Record { return v.records }

func (v *View) refresh() {
	rows := Filter(v.records, v.applied, v.searchKeys)
	if v.sort != nil {
		rows = Sort(rows, v.sort.Key, v.sort.Direction)
	}
	v.rows = rows
	v.clamp()
}

func (v *View) clamp() {
	if total := v.TotalPages(); v.page > total {
		v.page = total
	}
	if v.page < 1 {
		v.page = 1
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Search
// ═══════════════════════════════════════════════════════════════════════════

// Type records a keystroke-level query change. The filter applies once the
// search delay elapses without another call; earlier pending applies are
// dropped.
func (v *View) Type(query string) {
	v.typed = query
	v.cancelPending()

	v.hasPending = true
	v.pending = v.sched.Schedule(v.delay, func() {
		v.hasPending = false
		v.apply(query)
	})
}

// SetQuery applies query at once, dropping any pending apply. Used for a
// search given up front, such as --search on the command line.
func (v *View) SetQuery(query string) {
	v.typed = query
	v.cancelPending()
	v.apply(query)
}

// Query returns the text as typed.
func (v *View) Query() string { return v.typed }

// AppliedQuery returns the query the current rows were filtered with.
func (v *View) AppliedQuery() string { return v.applied }

// SearchPending reports whether a debounced apply is still scheduled.
func (v *View) SearchPending() bool { return v.hasPending }

func (v *View) apply(query string) {
	v.applied = query
	v.refresh()
}

func (v *View) cancelPending() {
	if v.hasPending {
		v.sched.Cancel(v.pending)
		v.hasPending = false
	}
}

// Close cancels any pending search. The view must not be used afterwards.
func (v *View) Close() {
	v.cancelPending()
}

// ═══════════════════════════════════════════════════════════════════════════
// Sort
// ═══════════════════════════════════════════════════════════════════════════

// ToggleSort triggers a sort on the column with key. Columns that are not
// sortable, or unknown keys, are ignored.
func (v *View) ToggleSort(key string) bool {
	col, ok := v.column(key)
	if !ok || !col.Sortable {
		return false
	}
	next := v.sort.Next(key)
	v.sort = &next
	v.refresh()
	return true
}

// SortState returns the active sort, if any.
func (v *View) SortState() (SortState, bool) {
	if v.sort == nil {
		return SortState{}, false
	}
	return *v.sort, true
}

func (v *View) column(key string) (Column, bool) {
	for _, c := range v.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination
// ═══════════════════════════════════════════════════════════════════════════

// Len returns the number of records after filtering.
func (v *View) Len() int { return len(v.rows) }

// Rows returns every filtered and sorted record across all pages.
func (v *View) Rows() []Record { return v.rows }

// Page returns the current 1-based page.
func (v *View) Page() int { return v.page }

// TotalPages returns the page count, at least 1.
func (v *View) TotalPages() int { return TotalPages(len(v.rows), v.pageSize) }

// PageRows returns the records on the current page.
func (v *View) PageRows() []Record { return PageSlice(v.rows, v.page, v.pageSize) }

// Window returns the pager buttons around the current page.
func (v *View) Window() Window { return PageWindow(v.page, v.TotalPages(), v.windowSize) }

// GoTo moves to page. Pages outside [1, TotalPages] are rejected.
func (v *View) GoTo(page int) bool {
	if page < 1 || page > v.TotalPages() {
		return false
	}
	v.page = page
	return true
}

func (v *View) First() bool { return v.GoTo(1) }
func (v *View) Last() bool  { return v.GoTo(v.TotalPages()) }
func (v *View) Next() bool  { return v.GoTo(v.page + 1) }
func (v *View) Prev() bool  { return v.GoTo(v.page - 1) }

// ═══════════════════════════════════════════════════════════════════════════
// Actions
// ═══════════════════════════════════════════════════════════════════════════

// row returns the record at index i of the current page.
func (v *View) row(i int) (Record, bool) {
	rows := v.PageRows()
	if i < 0 || i >= len(rows) {
		return nil, false
	}
	return rows[i], true
}

// Activate forwards a press on row i of the current page.
func (v *View) Activate(i int) bool {
	r, ok := v.row(i)
	if !ok || v.actions.OnRow == nil {
		return false
	}
	v.actions.OnRow(r)
	return true
}

// Actions returns the handlers the view was built with.
func (v *View) Actions() Actions { return v.actions }

// Add forwards the add intent.
func (v *View) Add() bool {
	if v.actions.OnAdd == nil {
		return false
	}
	v.actions.OnAdd()
	return true
}

// Refresh forwards the reload intent.
func (v *View) Refresh() bool {
	if v.actions.OnRefresh == nil {
		return false
	}
	v.actions.OnRefresh()
	return true
}

// Edit forwards an edit of row i of the current page.
func (v *View) Edit(i int) bool {
	r, ok := v.row(i)
	if !ok || v.actions.OnEdit == nil {
		return false
	}
	v.actions.OnEdit(r)
	return true
}

// RequestDelete opens the confirmation step for row i of the current page.
// Nothing is deleted until ConfirmDelete.
func (v *View) RequestDelete(i int) bool {
	r, ok := v.row(i)
	if !ok {
		return false
	}
	v.deleteTarget = r
	v.deleting = true
	return true
}

// PendingDelete returns the record awaiting confirmation and its label.
func (v *View) PendingDelete() (Record, string, bool) {
	if !v.deleting {
		return nil, "", false
	}
	return v.deleteTarget, v.deleteTarget.Label(), true
}

// ConfirmDelete fires the delete handler for the pending record.
func (v *View) ConfirmDelete() bool {
	if !v.deleting {
		return false
	}
	r := v.deleteTarget
	v.deleteTarget = nil
	v.deleting = false
	if v.actions.OnDelete == nil {
		return false
	}
	v.actions.OnDelete(r)
	return true
}

// CancelDelete drops the pending record without calling the handler.
func (v *View) CancelDelete() {
	v.deleteTarget = nil
	v.deleting = false
}
