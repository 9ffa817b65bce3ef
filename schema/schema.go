package schema

import (
	"fmt"
	"time"

	sheetorm "github.com/fumigoro/gas-spreadsheet-orm"
	"github.com/spf13/cast"
)

type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindDate    Kind = "date"
	KindCustom  Kind = "custom"
)

// ParseFunc converts a raw cell value into the field's in-memory form.
type ParseFunc func(raw any) (any, error)

// SerializeFunc converts an in-memory value back into a cell value.
type SerializeFunc func(v any) (any, error)

// Default is a tagged variant: a constant value or a zero-argument
// generator. Generators are invoked fresh at every resolution, never
// memoized.
type Default struct {
	value    any
	generate func() any
}

func Constant(v any) *Default {
	return &Default{value: v}
}

func Generator(fn func() any) *Default {
	return &Default{generate: fn}
}

func (d *Default) Resolve() any {
	if d.generate != nil {
		return d.generate()
	}
	return d.value
}

// ColumnDef binds one record field to one spreadsheet column.
type ColumnDef struct {
	// Column is the header label in the backing store.
	Column     string
	Kind       Kind
	PrimaryKey bool
	Nullable   bool
	Default    *Default
	Parser     ParseFunc
	Serializer SerializeFunc
}

// Options overrides builder attributes. Zero-valued attributes keep the
// builder's defaults.
type Options struct {
	PrimaryKey bool
	Nullable   bool
	Default    *Default
	Parser     ParseFunc
	Serializer SerializeFunc
}

func build(column string, kind Kind, opts []Options) ColumnDef {
	def := ColumnDef{Column: column, Kind: kind}
	if len(opts) == 0 {
		return def
	}
	o := opts[0]
	def.PrimaryKey = o.PrimaryKey
	def.Nullable = o.Nullable
	if o.Default != nil {
		def.Default = o.Default
	}
	if o.Parser != nil {
		def.Parser = o.Parser
	}
	if o.Serializer != nil {
		def.Serializer = o.Serializer
	}
	return def
}

func String(column string, opts ...Options) ColumnDef {
	return build(column, KindString, opts)
}

func Number(column string, opts ...Options) ColumnDef {
	return build(column, KindNumber, opts)
}

func Boolean(column string, opts ...Options) ColumnDef {
	return build(column, KindBoolean, opts)
}

// Date pre-populates a parser coercing stored values to time.Time and a
// serializer rendering RFC 3339 text, both replaceable through Options.
func Date(column string, opts ...Options) ColumnDef {
	def := ColumnDef{
		Column:     column,
		Kind:       KindDate,
		Parser:     parseDate,
		Serializer: serializeDate,
	}
	if len(opts) > 0 {
		o := opts[0]
		def.PrimaryKey = o.PrimaryKey
		def.Nullable = o.Nullable
		if o.Default != nil {
			def.Default = o.Default
		}
		if o.Parser != nil {
			def.Parser = o.Parser
		}
		if o.Serializer != nil {
			def.Serializer = o.Serializer
		}
	}
	return def
}

// Custom leaves the value kind unconstrained for application-level types.
func Custom(column string, opts ...Options) ColumnDef {
	return build(column, KindCustom, opts)
}

func parseDate(raw any) (any, error) {
	if t, ok := raw.(time.Time); ok {
		return t, nil
	}
	return cast.ToTimeE(raw)
}

func serializeDate(v any) (any, error) {
	t, err := cast.ToTimeE(v)
	if err != nil {
		return nil, err
	}
	return t.Format(time.RFC3339), nil
}

// TableSchema maps field names to column definitions. Field order carries no
// meaning; the header row of the backing store is authoritative for
// serialization order.
type TableSchema map[string]ColumnDef

// PrimaryKey returns the single primary-key field name. Zero or multiple
// primary-key columns are a SchemaError.
func (s TableSchema) PrimaryKey() (string, error) {
	found := ""
	count := 0
	for field, def := range s {
		if def.PrimaryKey {
			found = field
			count++
		}
	}
	if count != 1 {
		return "", &sheetorm.SchemaError{
			Msg: fmt.Sprintf("%d primary key columns declared, want exactly 1", count),
		}
	}
	return found, nil
}

// FieldForColumn resolves a header label back to the field name mapped to
// it.
func (s TableSchema) FieldForColumn(label string) (string, bool) {
	for field, def := range s {
		if def.Column == label {
			return field, true
		}
	}
	return "", false
}

// FromHeader derives a permissive schema from an existing header row: one
// custom-kind column per label, field names equal to labels, with pkField
// marked as the primary key. Used by the CLI to operate on sheets that have
// no declared schema.
func FromHeader(header []string, pkField string) TableSchema {
	s := make(TableSchema, len(header))
	for _, label := range header {
		s[label] = Custom(label, Options{PrimaryKey: label == pkField})
	}
	return s
}
