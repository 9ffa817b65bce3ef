package sheetorm

// Record is one data row, keyed by schema field name.
type Record map[string]any

// Copy returns a shallow copy. Read paths hand out copies so callers can't
// reach into the table cache.
func (r Record) Copy() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Where maps field names to conditions. A value is either a literal
// (matched by equality), nil (matches only a nil field), or a Cond carrying
// structured operators. Fields are AND-ed; an empty Where matches everything.
type Where map[string]any

// Cond is a structured per-field predicate. Every populated operator must
// hold for the condition to match. Ordering operators apply to numeric and
// temporal values only, text operators to strings only; a kind mismatch is
// a non-match.
type Cond struct {
	Equals any
	Not    any
	In     []any
	NotIn  []any

	Lt  any
	Lte any
	Gt  any
	Gte any

	Contains   *string
	StartsWith *string
	EndsWith   *string
}

// Str is a convenience for populating the text operators.
func Str(s string) *string { return &s }

// Take is a convenience for FindManyArgs.Take.
func Take(n int) *int { return &n }

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// OrderBy is one sort key. Keys are applied left to right; each carries its
// own direction.
type OrderBy struct {
	Field     string
	Direction Direction
}

type FindManyArgs struct {
	Where   Where
	OrderBy []OrderBy
	// Take caps the result length. nil means unbounded; zero or negative
	// yields an empty result.
	Take *int
	// Skip drops the first N records before Take applies.
	Skip int
}

