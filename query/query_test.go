package query

import (
	"testing"
	"time"

	sheetorm "github.com/fumigoro/gas-spreadsheet-orm"
)

func people() []sheetorm.Record {
	return []sheetorm.Record{
		{"id": 1, "name": "alice", "age": 30, "active": true},
		{"id": 2, "name": "bob", "age": 17, "active": false},
		{"id": 3, "name": "chelsie", "age": 44, "active": true},
		{"id": 4, "name": "dan", "age": nil, "active": false},
	}
}

func ids(records []sheetorm.Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r["id"].(int)
	}
	return out
}

func sameIds(a []int, b ...int) bool {
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

func TestFilterEmptyWhere(t *testing.T) {
	in := people()
	if out := Filter(in, nil); len(out) != len(in) {
		t.Errorf("nil where must match everything, got %d", len(out))
	}
	if out := Filter(in, sheetorm.Where{}); len(out) != len(in) {
		t.Errorf("empty where must match everything, got %d", len(out))
	}
}

func TestFilterLiteral(t *testing.T) {
	out := Filter(people(), sheetorm.Where{"name": "bob"})
	if !sameIds(ids(out), 2) {
		t.Errorf("literal equality failed: %v", ids(out))
	}

	// numerics match across widths
	out = Filter(people(), sheetorm.Where{"age": float64(30)})
	if !sameIds(ids(out), 1) {
		t.Errorf("cross-width numeric equality failed: %v", ids(out))
	}
}

func TestFilterNullCondition(t *testing.T) {
	out := Filter(people(), sheetorm.Where{"age": nil})
	if !sameIds(ids(out), 4) {
		t.Errorf("nil condition must match only nil values: %v", ids(out))
	}

	// strict null-equality: false is not nil
	out = Filter(people(), sheetorm.Where{"active": nil})
	if len(out) != 0 {
		t.Errorf("false must not match a nil condition")
	}
}

func TestFilterOperators(t *testing.T) {
	cases := []struct {
		name  string
		where sheetorm.Where
		want  []int
	}{
		{"equals", sheetorm.Where{"age": &sheetorm.Cond{Equals: 17}}, []int{2}},
		{"not", sheetorm.Where{"name": &sheetorm.Cond{Not: "alice"}}, []int{2, 3, 4}},
		{"in", sheetorm.Where{"id": &sheetorm.Cond{In: []any{1, 3}}}, []int{1, 3}},
		{"notIn", sheetorm.Where{"id": &sheetorm.Cond{NotIn: []any{1, 3}}}, []int{2, 4}},
		{"lt", sheetorm.Where{"age": &sheetorm.Cond{Lt: 30}}, []int{2}},
		{"lte", sheetorm.Where{"age": &sheetorm.Cond{Lte: 30}}, []int{1, 2}},
		{"gt", sheetorm.Where{"age": &sheetorm.Cond{Gt: 30}}, []int{3}},
		{"gte", sheetorm.Where{"age": &sheetorm.Cond{Gte: 30}}, []int{1, 3}},
		{"contains", sheetorm.Where{"name": &sheetorm.Cond{Contains: sheetorm.Str("el")}}, []int{3}},
		{"startsWith", sheetorm.Where{"name": &sheetorm.Cond{StartsWith: sheetorm.Str("a")}}, []int{1}},
		{"endsWith", sheetorm.Where{"name": &sheetorm.Cond{EndsWith: sheetorm.Str("ob")}}, []int{2}},
		{"combined", sheetorm.Where{"age": &sheetorm.Cond{Gte: 18, Lt: 40}}, []int{1}},
		{"two fields", sheetorm.Where{"active": true, "age": &sheetorm.Cond{Gt: 40}}, []int{3}},
	}

	for _, c := range cases {
		out := Filter(people(), c.where)
		if !sameIds(ids(out), c.want...) {
			t.Errorf("%s: got %v want %v", c.name, ids(out), c.want)
		}
	}
}

func TestFilterFailsClosed(t *testing.T) {
	// ordering operator on a string value
	out := Filter(people(), sheetorm.Where{"name": &sheetorm.Cond{Gt: "a"}})
	if len(out) != 0 {
		t.Errorf("ordering on strings must be a non-match, got %v", ids(out))
	}

	// text operator on a numeric value
	out = Filter(people(), sheetorm.Where{"age": &sheetorm.Cond{Contains: sheetorm.Str("3")}})
	if len(out) != 0 {
		t.Errorf("text operator on numbers must be a non-match, got %v", ids(out))
	}

	// ordering against nil fails closed too
	out = Filter(people(), sheetorm.Where{"age": &sheetorm.Cond{Gte: 0}})
	for _, r := range out {
		if r["age"] == nil {
			t.Errorf("nil value matched an ordering operator")
		}
	}
}

func TestFilterTemporal(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []sheetorm.Record{
		{"id": 1, "at": t0},
		{"id": 2, "at": t0.Add(48 * time.Hour)},
	}
	out := Filter(records, sheetorm.Where{"at": &sheetorm.Cond{Gt: t0.Add(time.Hour)}})
	if !sameIds(ids(out), 2) {
		t.Errorf("temporal ordering failed: %v", ids(out))
	}

	out = Filter(records, sheetorm.Where{"at": &sheetorm.Cond{Lte: "2024-01-01T00:00:00Z"}})
	if !sameIds(ids(out), 1) {
		t.Errorf("temporal operand coercion failed: %v", ids(out))
	}
}

func TestFilterSubset(t *testing.T) {
	in := people()
	out := Filter(in, sheetorm.Where{"active": true})
	if len(out) > len(in) {
		t.Errorf("filter produced more records than it was given")
	}
	for _, r := range out {
		if r["active"] != true {
			t.Errorf("filter kept a non-matching record: %v", r)
		}
	}
}

func TestSortSingleKey(t *testing.T) {
	out := Sort(people(), []sheetorm.OrderBy{{Field: "age", Direction: sheetorm.Desc}})
	// nil sorts before any value, so it lands last under desc
	if !sameIds(ids(out), 3, 1, 2, 4) {
		t.Errorf("unexpected desc order: %v", ids(out))
	}

	out = Sort(people(), []sheetorm.OrderBy{{Field: "age", Direction: sheetorm.Asc}})
	if !sameIds(ids(out), 4, 2, 1, 3) {
		t.Errorf("unexpected asc order: %v", ids(out))
	}
}

func TestSortMultiKey(t *testing.T) {
	records := []sheetorm.Record{
		{"id": 1, "group": "b", "rank": 2},
		{"id": 2, "group": "a", "rank": 9},
		{"id": 3, "group": "b", "rank": 1},
		{"id": 4, "group": "a", "rank": 1},
	}
	out := Sort(records, []sheetorm.OrderBy{
		{Field: "group", Direction: sheetorm.Asc},
		{Field: "rank", Direction: sheetorm.Desc},
	})
	if !sameIds(ids(out), 2, 4, 1, 3) {
		t.Errorf("secondary key did not break ties correctly: %v", ids(out))
	}
}

func TestSortStability(t *testing.T) {
	records := []sheetorm.Record{
		{"id": 1, "group": "x"},
		{"id": 2, "group": "x"},
		{"id": 3, "group": "x"},
	}
	order := []sheetorm.OrderBy{{Field: "group", Direction: sheetorm.Asc}}

	out := Sort(records, order)
	if !sameIds(ids(out), 1, 2, 3) {
		t.Errorf("equal keys must keep input order: %v", ids(out))
	}

	// empty orderBy preserves order; sort is idempotent
	if out := Sort(records, nil); !sameIds(ids(out), 1, 2, 3) {
		t.Errorf("empty orderBy reordered records: %v", ids(out))
	}
	in := people()
	once := Sort(in, []sheetorm.OrderBy{{Field: "age", Direction: sheetorm.Asc}})
	twice := Sort(once, []sheetorm.OrderBy{{Field: "age", Direction: sheetorm.Asc}})
	if !sameIds(ids(once), ids(twice)...) {
		t.Errorf("sort is not idempotent: %v vs %v", ids(once), ids(twice))
	}
}

func TestSortMixedTypes(t *testing.T) {
	records := []sheetorm.Record{
		{"id": 1, "v": "10"},
		{"id": 2, "v": 2},
	}
	// mixed kinds fall back to textual comparison: "10" < "2"
	out := Sort(records, []sheetorm.OrderBy{{Field: "v", Direction: sheetorm.Asc}})
	if !sameIds(ids(out), 1, 2) {
		t.Errorf("mixed-kind fallback failed: %v", ids(out))
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	in := people()
	Sort(in, []sheetorm.OrderBy{{Field: "age", Direction: sheetorm.Desc}})
	if !sameIds(ids(in), 1, 2, 3, 4) {
		t.Errorf("sort mutated its input: %v", ids(in))
	}
}

func TestPaginate(t *testing.T) {
	in := people()

	if out := Paginate(in, nil, 0); len(out) != 4 {
		t.Errorf("no take, no skip must pass everything through")
	}
	if out := Paginate(in, sheetorm.Take(2), 0); !sameIds(ids(out), 1, 2) {
		t.Errorf("take failed: %v", ids(out))
	}
	if out := Paginate(in, nil, 2); !sameIds(ids(out), 3, 4) {
		t.Errorf("skip failed: %v", ids(out))
	}
	if out := Paginate(in, sheetorm.Take(2), 3); !sameIds(ids(out), 4) {
		t.Errorf("take past the end must be clipped: %v", ids(out))
	}
	if out := Paginate(in, nil, 10); len(out) != 0 {
		t.Errorf("skip past the end must be empty")
	}
	if out := Paginate(in, sheetorm.Take(0), 0); len(out) != 0 {
		t.Errorf("zero take must be empty")
	}
	if out := Paginate(in, sheetorm.Take(-1), 0); len(out) != 0 {
		t.Errorf("negative take must be empty")
	}
}

func TestPaginateBounds(t *testing.T) {
	in := people()
	for s := 0; s <= 5; s++ {
		for k := -1; k <= 5; k++ {
			out := Paginate(in, sheetorm.Take(k), s)
			want := len(in) - s
			if k < want {
				want = k
			}
			if want < 0 {
				want = 0
			}
			if len(out) != want {
				t.Errorf("take=%d skip=%d: got %d want %d", k, s, len(out), want)
			}
		}
	}
}
