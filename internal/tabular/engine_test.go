package tabular

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"
)

// helper to build records with just a username
func users(names ...string) []Record {
	out := make([]Record, len(names))
	for i, n := range names {
		out[i] = Record{"username": n}
	}
	return out
}

func names(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Text("username")
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter_EmptyQueryIsIdentity(t *testing.T) {
	in := users("amy", "bob", "cat")
	for _, q := range []string{"", "   ", "\t"} {
		got := Filter(in, q, []string{"username"})
		if !equal(names(got), names(in)) {
			t.Fatalf("Filter(%q) = %v, want %v", q, names(got), names(in))
		}
	}
}

func TestFilter_IsSubsetAndCaseInsensitive(t *testing.T) {
	in := []Record{
		{"username": "Amy", "email": "amy@school.cd"},
		{"username": "bob", "email": "BOB@school.cd"},
		{"username": "cat"},
	}

	got := Filter(in, "SCHOOL", []string{"username", "email"})
	if !equal(names(got), []string{"Amy", "bob"}) {
		t.Fatalf("got %v", names(got))
	}
	for _, r := range got {
		found := false
		for _, orig := range in {
			if fmt.Sprintf("%p", r) == fmt.Sprintf("%p", orig) {
				found = true
			}
		}
		if !found {
			t.Fatalf("filtered record %v not in input", r)
		}
	}
}

func TestFilter_MissingFieldsDoNotMatchButOthersMay(t *testing.T) {
	in := []Record{
		{"username": "amy"},
		{"email": "zed@x.cd"},
		{"username": nil, "email": "zoe@x.cd"},
	}
	got := Filter(in, "z", []string{"username", "email"})
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
}

func TestFilter_CoercesValues(t *testing.T) {
	in := []Record{
		{"id": 42, "active": true},
		{"id": float64(7), "active": false},
	}
	if got := Filter(in, "42", []string{"id"}); len(got) != 1 {
		t.Fatalf("numeric match: got %d", len(got))
	}
	if got := Filter(in, "fal", []string{"active"}); len(got) != 1 {
		t.Fatalf("bool match: got %d", len(got))
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	in := users("amy", "bob", "cat")
	Filter(in, "b", []string{"username"})
	Sort(in, "username", Descending)
	if !equal(names(in), []string{"amy", "bob", "cat"}) {
		t.Fatalf("input mutated: %v", names(in))
	}
}

func TestSort_AscendingDescending(t *testing.T) {
	in := users("bob", "cat", "amy")

	asc := Sort(in, "username", Ascending)
	if !equal(names(asc), []string{"amy", "bob", "cat"}) {
		t.Fatalf("asc: %v", names(asc))
	}
	desc := Sort(in, "username", Descending)
	if !equal(names(desc), []string{"cat", "bob", "amy"}) {
		t.Fatalf("desc: %v", names(desc))
	}
}

func TestSort_NativeOrdering(t *testing.T) {
	in := []Record{{"n": 10}, {"n": 9}, {"n": json.Number("100")}, {"n": 2.5}}
	got := Sort(in, "n", Ascending)
	want := []string{"2.5", "9", "10", "100"}
	for i, r := range got {
		if r.Text("n") != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, r.Text("n"), want[i])
		}
	}

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := []Record{{"t": t0.Add(time.Hour)}, {"t": t0}}
	if got := Sort(times, "t", Ascending); got[0]["t"] != t0 {
		t.Fatal("times not ordered chronologically")
	}
}

func TestSort_LargeIntegers(t *testing.T) {
	in := []Record{
		{"username": "amy", "id": int64(9007199254740993)},
		{"username": "bob", "id": int64(9007199254740992)},
	}
	if got := Sort(in, "id", Ascending); !equal(names(got), []string{"bob", "amy"}) {
		t.Fatalf("int64: %v", names(got))
	}

	in = []Record{
		{"username": "amy", "id": uint64(18446744073709551615)},
		{"username": "bob", "id": uint64(18446744073709551614)},
		{"username": "cat", "id": json.Number("9007199254740993")},
		{"username": "dan", "id": -1},
	}
	if got := Sort(in, "id", Ascending); !equal(names(got), []string{"dan", "cat", "bob", "amy"}) {
		t.Fatalf("mixed: %v", names(got))
	}
}

func TestCompare_IntegersAgainstFloats(t *testing.T) {
	if Compare(2, 2.5) >= 0 || Compare(json.Number("3.5"), 3) <= 0 {
		t.Fatal("integers and floats must still compare numerically")
	}
	if Compare(int8(-3), uint8(1)) >= 0 || Compare(uint(1), -3) <= 0 {
		t.Fatal("negative signed values sort before unsigned ones")
	}
}

func TestSort_EqualKeysKeepOrder(t *testing.T) {
	in := []Record{
		{"role": "student", "username": "a"},
		{"role": "admin", "username": "b"},
		{"role": "student", "username": "c"},
		{"role": "admin", "username": "d"},
	}
	got := Sort(in, "role", Ascending)
	if !equal(names(got), []string{"b", "d", "a", "c"}) {
		t.Fatalf("got %v", names(got))
	}
}

func TestSort_UnknownKeyIsNoVisibleEffect(t *testing.T) {
	in := users("bob", "amy")
	got := Sort(in, "nope", Ascending)
	if !equal(names(got), names(in)) {
		t.Fatalf("got %v", names(got))
	}
}

func TestCompare_MissingFirst(t *testing.T) {
	if Compare(nil, "a") >= 0 || Compare("a", nil) <= 0 || Compare(nil, nil) != 0 {
		t.Fatal("missing values must sort first")
	}
	if Compare(false, true) >= 0 {
		t.Fatal("false must sort before true")
	}
}

func TestSortState_Next(t *testing.T) {
	var s *SortState
	first := s.Next("username")
	if first != (SortState{Key: "username", Direction: Ascending}) {
		t.Fatalf("first = %+v", first)
	}
	second := first.Next("username")
	if second.Direction != Descending {
		t.Fatalf("second = %+v", second)
	}
	third := second.Next("username")
	if third.Direction != Ascending {
		t.Fatalf("descending should reset to ascending, got %+v", third)
	}
	other := first.Next("email")
	if other != (SortState{Key: "email", Direction: Ascending}) {
		t.Fatalf("other key = %+v", other)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		n, size, want int
	}{
		{0, 7, 1},
		{1, 7, 1},
		{7, 7, 1},
		{8, 7, 2},
		{3, 2, 2},
		{100, 10, 10},
		{101, 10, 11},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.n, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.n, tt.size, got, tt.want)
		}
	}
}

func TestPageSlice_SumsToCount(t *testing.T) {
	for n := 0; n < 30; n++ {
		records := make([]Record, n)
		for i := range records {
			records[i] = Record{"i": i}
		}
		for size := 1; size <= 8; size++ {
			total := TotalPages(n, size)
			sum := 0
			for p := 1; p <= total; p++ {
				sum += len(PageSlice(records, p, size))
			}
			if sum != n {
				t.Fatalf("n=%d size=%d: pages hold %d records", n, size, sum)
			}
		}
	}
}

func TestPageSlice_OutOfRange(t *testing.T) {
	records := users("amy", "bob")
	if got := PageSlice(records, 0, 2); got != nil {
		t.Fatalf("page 0 = %v", got)
	}
	if got := PageSlice(records, 3, 2); got != nil {
		t.Fatalf("page 3 = %v", got)
	}
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name                string
		page, total         int
		wantFirst, wantLast int
		lead, trail         bool
	}{
		{"single page", 1, 1, 1, 1, false, false},
		{"fewer than window", 2, 4, 1, 4, false, false},
		{"start", 1, 20, 1, 7, false, true},
		{"centered", 10, 20, 7, 13, true, true},
		{"near end", 19, 20, 14, 20, true, false},
		{"last", 20, 20, 14, 20, true, false},
		{"clamps page", 50, 20, 14, 20, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := PageWindow(tt.page, tt.total, 7)
			if w.Pages[0] != tt.wantFirst || w.Pages[len(w.Pages)-1] != tt.wantLast {
				t.Fatalf("window = %v, want %d..%d", w.Pages, tt.wantFirst, tt.wantLast)
			}
			if len(w.Pages) > 7 {
				t.Fatalf("window too wide: %v", w.Pages)
			}
			if w.LeadingEllipsis != tt.lead || w.TrailingEllipsis != tt.trail {
				t.Fatalf("ellipsis = %v/%v, want %v/%v", w.LeadingEllipsis, w.TrailingEllipsis, tt.lead, tt.trail)
			}
		})
	}
}

func TestDistribute(t *testing.T) {
	cols := []Column{{Key: "a", Width: 2}, {Key: "b", Width: 3}}
	got := Distribute(cols, 50, 3)
	if got[0] != 20 || got[1] != 30 {
		t.Fatalf("Distribute = %v", got)
	}

	got = Distribute([]Column{{Key: "a"}, {Key: "b"}, {Key: "c"}}, 10, 3)
	if got[0]+got[1]+got[2] != 10 {
		t.Fatalf("Distribute should fill total: %v", got)
	}
}

func TestRecord_Label(t *testing.T) {
	if got := (Record{"username": "amy", "name": "Amy"}).Label(); got != "amy" {
		t.Fatalf("got %q", got)
	}
	if got := (Record{"name": "Amy"}).Label(); got != "Amy" {
		t.Fatalf("got %q", got)
	}
	if got := (Record{"id": 1}).Label(); got != "this item" {
		t.Fatalf("got %q", got)
	}
}
