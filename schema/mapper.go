package schema

import (
	"fmt"

	sheetorm "github.com/fumigoro/gas-spreadsheet-orm"
)

// RowToRecord converts one raw data row into a typed record. Fields whose
// column label does not appear in the header are omitted from the record,
// not nulled: headers may be a superset of, or reordered against, the
// schema.
func RowToRecord(row []any, s TableSchema, header []string) (sheetorm.Record, error) {
	index := make(map[string]int, len(header))
	for i, label := range header {
		index[label] = i
	}

	rec := make(sheetorm.Record, len(s))
	for field, def := range s {
		pos, ok := index[def.Column]
		if !ok {
			continue
		}
		var raw any
		if pos < len(row) {
			raw = row[pos]
		}
		if raw != nil && def.Parser != nil {
			parsed, err := def.Parser(raw)
			if err != nil {
				return nil, fmt.Errorf("parse field %s from column %s: %w", field, def.Column, err)
			}
			raw = parsed
		}
		rec[field] = raw
	}
	return rec, nil
}

// RecordToRow converts a record into cell values positionally aligned with
// the header. Labels with no mapped field serialize to an empty placeholder.
func RecordToRow(rec sheetorm.Record, s TableSchema, header []string) ([]any, error) {
	row := make([]any, len(header))
	for i, label := range header {
		field, ok := s.FieldForColumn(label)
		if !ok {
			continue
		}
		v := rec[field]
		if v != nil {
			if ser := s[field].Serializer; ser != nil {
				out, err := ser(v)
				if err != nil {
					return nil, fmt.Errorf("serialize field %s for column %s: %w", field, label, err)
				}
				v = out
			}
		}
		row[i] = v
	}
	return row, nil
}

// ApplyDefaults fills nil or absent fields that declare a default. Generator
// defaults are invoked fresh per call; present non-nil values are never
// overwritten. The input record is not mutated.
func ApplyDefaults(rec sheetorm.Record, s TableSchema) sheetorm.Record {
	out := rec.Copy()
	if out == nil {
		out = sheetorm.Record{}
	}
	for field, def := range s {
		if def.Default == nil {
			continue
		}
		if v, ok := out[field]; ok && v != nil {
			continue
		}
		out[field] = def.Default.Resolve()
	}
	return out
}
