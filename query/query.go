// Package query evaluates filter, sort and pagination over in-memory record
// collections. Every function is a pure function of its inputs and returns a
// fresh slice; caller composition order is filter, sort, paginate.
package query

import (
	"reflect"
	"sort"
	"strings"
	"time"

	sheetorm "github.com/fumigoro/gas-spreadsheet-orm"
	"github.com/spf13/cast"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var collator = collate.New(language.Und)

// Filter keeps the records matching every field condition in where. A nil
// or empty Where keeps everything.
func Filter(records []sheetorm.Record, where sheetorm.Where) []sheetorm.Record {
	out := make([]sheetorm.Record, 0, len(records))
	for _, rec := range records {
		if Matches(rec, where) {
			out = append(out, rec)
		}
	}
	return out
}

// Matches reports whether a single record satisfies every field condition.
func Matches(rec sheetorm.Record, where sheetorm.Where) bool {
	for field, cond := range where {
		if !matchesField(rec[field], cond) {
			return false
		}
	}
	return true
}

func matchesField(val any, cond any) bool {
	switch c := cond.(type) {
	case nil:
		// strict null-equality, not is-false
		return val == nil
	case sheetorm.Cond:
		return matchesCond(val, &c)
	case *sheetorm.Cond:
		return matchesCond(val, c)
	default:
		return equalValues(val, cond)
	}
}

func matchesCond(val any, c *sheetorm.Cond) bool {
	if c.Equals != nil && !equalValues(val, c.Equals) {
		return false
	}
	if c.Not != nil && equalValues(val, c.Not) {
		return false
	}
	if c.In != nil && !within(val, c.In) {
		return false
	}
	if c.NotIn != nil && within(val, c.NotIn) {
		return false
	}
	if c.Lt != nil && !orderedMatch(val, c.Lt, func(n int) bool { return n < 0 }) {
		return false
	}
	if c.Lte != nil && !orderedMatch(val, c.Lte, func(n int) bool { return n <= 0 }) {
		return false
	}
	if c.Gt != nil && !orderedMatch(val, c.Gt, func(n int) bool { return n > 0 }) {
		return false
	}
	if c.Gte != nil && !orderedMatch(val, c.Gte, func(n int) bool { return n >= 0 }) {
		return false
	}
	if c.Contains != nil && !stringMatch(val, *c.Contains, strings.Contains) {
		return false
	}
	if c.StartsWith != nil && !stringMatch(val, *c.StartsWith, strings.HasPrefix) {
		return false
	}
	if c.EndsWith != nil && !stringMatch(val, *c.EndsWith, strings.HasSuffix) {
		return false
	}
	return true
}

// equalValues compares numerics by value across widths, temporals by
// instant, everything else structurally.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func within(val any, set []any) bool {
	for _, v := range set {
		if equalValues(val, v) {
			return true
		}
	}
	return false
}

// orderedMatch compares a record value against a condition operand. Only
// numeric and temporal record values are ordered; anything else fails
// closed, as does an operand that can't be coerced.
func orderedMatch(val, operand any, accept func(int) bool) bool {
	if t, ok := val.(time.Time); ok {
		ot, err := cast.ToTimeE(operand)
		if err != nil {
			return false
		}
		return accept(compareTimes(t, ot))
	}
	vf, ok := toFloat(val)
	if !ok {
		return false
	}
	of, err := cast.ToFloat64E(operand)
	if err != nil {
		return false
	}
	return accept(compareFloats(vf, of))
}

func stringMatch(val any, operand string, test func(string, string) bool) bool {
	s, ok := val.(string)
	if !ok {
		return false
	}
	return test(s, operand)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// Sort returns a stably sorted copy. Keys apply left to right, the first
// non-zero comparison wins, and each key carries its own direction. Nil
// sorts before any concrete value.
func Sort(records []sheetorm.Record, orderBy []sheetorm.OrderBy) []sheetorm.Record {
	out := make([]sheetorm.Record, len(records))
	copy(out, records)
	if len(orderBy) == 0 {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		for _, key := range orderBy {
			c := compareValues(out[i][key.Field], out[j][key.Field])
			if key.Direction == sheetorm.Desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	return out
}

func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return collator.CompareString(as, bs)
		}
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return compareFloats(af, bf)
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return compareTimes(at, bt)
		}
	}
	// mixed or unknown kinds compare by their textual rendering
	return collator.CompareString(cast.ToString(a), cast.ToString(b))
}

// Paginate drops the first skip records and caps the remainder at take.
// A nil take is unbounded; zero or negative take yields an empty result, as
// does skipping past the end.
func Paginate(records []sheetorm.Record, take *int, skip int) []sheetorm.Record {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(records) {
		return []sheetorm.Record{}
	}
	rest := records[skip:]
	if take != nil {
		if *take <= 0 {
			return []sheetorm.Record{}
		}
		if *take < len(rest) {
			rest = rest[:*take]
		}
	}
	out := make([]sheetorm.Record, len(rest))
	copy(out, rest)
	return out
}
