package tabular

import (
	"testing"
	"time"
)

// manualScheduler fires callbacks only when the test advances its clock.
type manualScheduler struct {
	now   time.Duration
	next  Token
	tasks map[Token]task
}

type task struct {
	at time.Duration
	fn func()
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{tasks: make(map[Token]task)}
}

func (s *manualScheduler) Schedule(delay time.Duration, fn func()) Token {
	s.next++
	s.tasks[s.next] = task{at: s.now + delay, fn: fn}
	return s.next
}

func (s *manualScheduler) Cancel(tok Token) { delete(s.tasks, tok) }

func (s *manualScheduler) Advance(d time.Duration) {
	s.now += d
	for tok, tk := range s.tasks {
		if tk.at <= s.now {
			delete(s.tasks, tok)
			tk.fn()
		}
	}
}

func usernameColumns() []Column {
	return []Column{
		{Key: "username", Title: "Username", Width: 2, Sortable: true},
		{Key: "email", Title: "Email", Width: 3},
	}
}

func newTestView(records []Record, size int) *View {
	return New(records, Options{
		Columns:    usernameColumns(),
		SearchKeys: []string{"username"},
		PageSize:   size,
	})
}

func TestView_ScenarioPagesWithoutQuery(t *testing.T) {
	v := newTestView(users("amy", "bob", "cat"), 2)

	if v.TotalPages() != 2 {
		t.Fatalf("TotalPages = %d, want 2", v.TotalPages())
	}
	if got := names(v.PageRows()); !equal(got, []string{"amy", "bob"}) {
		t.Fatalf("page 1 = %v", got)
	}
	if !v.Next() {
		t.Fatal("Next should succeed")
	}
	if got := names(v.PageRows()); !equal(got, []string{"cat"}) {
		t.Fatalf("page 2 = %v", got)
	}
}

func TestView_ScenarioNoMatchesClampsToFirstPage(t *testing.T) {
	v := newTestView(users("amy", "bob", "cat"), 2)
	v.GoTo(2)

	v.Type("z")

	if v.Len() != 0 {
		t.Fatalf("Len = %d, want 0", v.Len())
	}
	if v.TotalPages() != 1 || v.Page() != 1 {
		t.Fatalf("page %d/%d, want 1/1", v.Page(), v.TotalPages())
	}
	if rows := v.PageRows(); len(rows) != 0 {
		t.Fatalf("rows = %v", rows)
	}
}

func TestView_ScenarioSortToggle(t *testing.T) {
	v := newTestView(users("bob", "cat", "amy"), 5)

	if got := names(v.PageRows()); !equal(got, []string{"bob", "cat", "amy"}) {
		t.Fatalf("natural order lost: %v", got)
	}

	v.ToggleSort("username")
	if got := names(v.PageRows()); !equal(got, []string{"amy", "bob", "cat"}) {
		t.Fatalf("first click = %v", got)
	}

	v.ToggleSort("username")
	if got := names(v.PageRows()); !equal(got, []string{"cat", "bob", "amy"}) {
		t.Fatalf("second click = %v", got)
	}
	s, ok := v.SortState()
	if !ok || s.Direction != Descending {
		t.Fatalf("sort state = %+v %v", s, ok)
	}
}

func TestView_ToggleSortIgnoresUnsortableColumns(t *testing.T) {
	v := newTestView(users("bob", "amy"), 5)
	if v.ToggleSort("email") {
		t.Fatal("email is not sortable")
	}
	if v.ToggleSort("missing") {
		t.Fatal("unknown column should be ignored")
	}
	if _, ok := v.SortState(); ok {
		t.Fatal("no sort should be active")
	}
}

func TestView_SortAppliesToFilteredSetBeforePaging(t *testing.T) {
	v := newTestView(users("dan", "bob", "ann", "abe", "cal"), 2)
	v.ToggleSort("username")
	v.Type("a")

	// "a" keeps dan, ann, abe, cal; sorted: abe, ann, cal, dan
	if got := names(v.PageRows()); !equal(got, []string{"abe", "ann"}) {
		t.Fatalf("page 1 = %v", got)
	}
	v.Last()
	if got := names(v.PageRows()); !equal(got, []string{"cal", "dan"}) {
		t.Fatalf("page 2 = %v", got)
	}
}

func TestView_GoToRejectsOutOfRange(t *testing.T) {
	v := newTestView(users("amy", "bob", "cat"), 2)

	for _, p := range []int{0, -1, 3} {
		if v.GoTo(p) {
			t.Fatalf("GoTo(%d) accepted", p)
		}
		if v.Page() != 1 {
			t.Fatalf("page changed to %d", v.Page())
		}
	}
	if v.Prev() {
		t.Fatal("Prev on first page accepted")
	}
	v.Last()
	if v.Next() {
		t.Fatal("Next on last page accepted")
	}
}

func TestView_SetRecordsClampsPage(t *testing.T) {
	v := newTestView(users("a", "b", "c", "d", "e", "f"), 2)
	v.Last()
	if v.Page() != 3 {
		t.Fatalf("page = %d", v.Page())
	}

	v.SetRecords(users("a", "b", "c"))
	if v.Page() != 2 {
		t.Fatalf("page after shrink = %d, want 2", v.Page())
	}

	v.SetRecords(nil)
	if v.Page() != 1 || v.TotalPages() != 1 {
		t.Fatalf("page after empty = %d/%d", v.Page(), v.TotalPages())
	}
}

func TestView_SetRecordsKeepsQueryAndSort(t *testing.T) {
	v := newTestView(users("bob", "amy"), 5)
	v.ToggleSort("username")
	v.Type("b")

	v.SetRecords(users("zed", "bea", "bob", "amy"))

	if got := names(v.PageRows()); !equal(got, []string{"bea", "bob"}) {
		t.Fatalf("rows = %v", got)
	}
}

func TestView_SearchIsDebounced(t *testing.T) {
	sched := newManualScheduler()
	v := New(users("amy", "bob", "cat"), Options{
		Columns:     usernameColumns(),
		PageSize:    5,
		SearchDelay: 300 * time.Millisecond,
		Scheduler:   sched,
	})

	v.Type("b")
	if v.Len() != 3 || !v.SearchPending() {
		t.Fatal("query applied before the delay")
	}

	sched.Advance(200 * time.Millisecond)
	v.Type("bo")
	sched.Advance(200 * time.Millisecond)
	if v.AppliedQuery() != "" {
		t.Fatalf("superseded query applied: %q", v.AppliedQuery())
	}

	sched.Advance(100 * time.Millisecond)
	if v.AppliedQuery() != "bo" || v.Len() != 1 {
		t.Fatalf("applied = %q, len = %d", v.AppliedQuery(), v.Len())
	}
	if v.SearchPending() {
		t.Fatal("nothing should be pending")
	}
	if len(sched.tasks) != 0 {
		t.Fatalf("%d tasks left", len(sched.tasks))
	}
}

func TestView_SetQueryAppliesAtOnce(t *testing.T) {
	sched := newManualScheduler()
	v := New(users("amy", "bob", "cat"), Options{Columns: usernameColumns(), Scheduler: sched})

	v.Type("a")
	v.SetQuery("cat")
	if v.AppliedQuery() != "cat" || v.Len() != 1 || v.Query() != "cat" {
		t.Fatalf("applied = %q, len = %d", v.AppliedQuery(), v.Len())
	}

	sched.Advance(time.Second)
	if v.AppliedQuery() != "cat" {
		t.Fatalf("stale apply ran: %q", v.AppliedQuery())
	}
}

func TestView_CloseCancelsPendingSearch(t *testing.T) {
	sched := newManualScheduler()
	v := New(users("amy", "bob"), Options{Columns: usernameColumns(), Scheduler: sched})

	v.Type("amy")
	v.Close()
	sched.Advance(time.Second)

	if v.AppliedQuery() != "" || v.Len() != 2 {
		t.Fatal("closed view applied a search")
	}
}

func TestView_DefaultSearchKeysAreColumns(t *testing.T) {
	v := New([]Record{{"username": "amy", "email": "x@y.cd"}}, Options{Columns: usernameColumns()})
	v.Type("y.cd")
	if v.Len() != 1 {
		t.Fatal("email column should be searched")
	}
}

func TestView_Actions(t *testing.T) {
	var rowHit, editHit Record
	added, refreshed := 0, 0
	v := New(users("amy", "bob", "cat"), Options{
		Columns:  usernameColumns(),
		PageSize: 2,
		Actions: Actions{
			OnRow:     func(r Record) { rowHit = r },
			OnAdd:     func() { added++ },
			OnEdit:    func(r Record) { editHit = r },
			OnRefresh: func() { refreshed++ },
		},
	})

	v.Next()
	if !v.Activate(0) || rowHit.Text("username") != "cat" {
		t.Fatalf("row = %v", rowHit)
	}
	if v.Activate(1) {
		t.Fatal("row 1 does not exist on page 2")
	}
	if !v.Add() || added != 1 {
		t.Fatal("add not forwarded")
	}
	if !v.Edit(0) || editHit.Text("username") != "cat" {
		t.Fatalf("edit = %v", editHit)
	}
	if !v.Refresh() || refreshed != 1 {
		t.Fatal("refresh not forwarded")
	}
}

func TestView_RefreshWithoutHandler(t *testing.T) {
	v := New(users("amy"), Options{Columns: usernameColumns()})
	if v.Refresh() {
		t.Fatal("refresh reported handled with no handler")
	}
}

func TestView_DeleteGate(t *testing.T) {
	var deleted []Record
	v := New(users("amy", "bob"), Options{
		Columns: usernameColumns(),
		Actions: Actions{OnDelete: func(r Record) { deleted = append(deleted, r) }},
	})

	if v.ConfirmDelete() {
		t.Fatal("confirm without a request fired")
	}

	v.RequestDelete(1)
	if len(deleted) != 0 {
		t.Fatal("delete fired before confirmation")
	}
	_, label, ok := v.PendingDelete()
	if !ok || label != "bob" {
		t.Fatalf("pending = %q %v", label, ok)
	}

	v.CancelDelete()
	if _, _, ok := v.PendingDelete(); ok {
		t.Fatal("cancel should clear the pending record")
	}
	if v.ConfirmDelete() || len(deleted) != 0 {
		t.Fatal("cancelled delete fired")
	}

	v.RequestDelete(0)
	if !v.ConfirmDelete() {
		t.Fatal("confirm did not fire")
	}
	if len(deleted) != 1 || deleted[0].Text("username") != "amy" {
		t.Fatalf("deleted = %v", deleted)
	}
	if _, _, ok := v.PendingDelete(); ok {
		t.Fatal("confirm should clear the pending record")
	}
}
