// Package table binds one schema to one backing sheet and exposes the CRUD
// surface over an in-memory record cache.
//
// Mutations are write-through: the cache is updated first and the affected
// row is persisted in the same call. A storage failure leaves the cache
// ahead of the store; Load resynchronizes from the store, Save rewrites the
// store from the cache.
package table

import (
	"fmt"

	"github.com/bmeg/grip/log"
	sheetorm "github.com/fumigoro/gas-spreadsheet-orm"
	"github.com/fumigoro/gas-spreadsheet-orm/query"
	"github.com/fumigoro/gas-spreadsheet-orm/schema"
	multierror "github.com/hashicorp/go-multierror"
)

type Table struct {
	name   string
	schema schema.TableSchema
	pk     string
	handle sheetorm.TableHandle
	header []string
	cache  []sheetorm.Record
}

// Open validates the schema, opens the named table under identifier and
// loads the header plus all data rows. Each step is fatal: no partial Table
// is produced.
func Open(store sheetorm.SheetStore, identifier, name string, s schema.TableSchema) (*Table, error) {
	pk, err := s.PrimaryKey()
	if err != nil {
		if se, ok := err.(*sheetorm.SchemaError); ok {
			se.Table = name
		}
		return nil, err
	}
	handle, err := store.OpenTable(identifier, name)
	if err != nil {
		return nil, err
	}
	t := &Table{
		name:   name,
		schema: s,
		pk:     pk,
		handle: handle,
	}
	if err := t.Load(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) Name() string { return t.name }

// PrimaryKey returns the primary-key field name.
func (t *Table) PrimaryKey() string { return t.pk }

// Header returns a copy of the header layout read at construction.
func (t *Table) Header() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// Load discards the cache and rebuilds it from the backing store. Any
// unflushed in-memory divergence is lost: last writer wins.
func (t *Table) Load() error {
	header, rows, err := t.handle.ReadHeaderAndRows()
	if err != nil {
		return &sheetorm.StorageError{Op: "read", Table: t.name, Err: err}
	}

	var errs *multierror.Error
	cache := make([]sheetorm.Record, 0, len(rows))
	for i, row := range rows {
		rec, err := schema.RowToRecord(row, t.schema, header)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		cache = append(cache, rec)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("load table %s: %w", t.name, err)
	}

	t.header = header
	t.cache = cache
	log.Debugf("loaded %d rows from table %s", len(cache), t.name)
	return nil
}

// List returns a copy of the full cache.
func (t *Table) List() []sheetorm.Record {
	return copyRecords(t.cache)
}

// Get returns the record whose primary-key field equals value. A miss is a
// normal outcome, not an error.
func (t *Table) Get(value any) (sheetorm.Record, bool) {
	return t.FindFirst(sheetorm.Where{t.pk: value})
}

// FindFirst returns the first record matching where.
func (t *Table) FindFirst(where sheetorm.Where) (sheetorm.Record, bool) {
	idx := t.findIndex(where)
	if idx < 0 {
		return nil, false
	}
	return t.cache[idx].Copy(), true
}

// FindUnique is FindFirst under its relational name.
func (t *Table) FindUnique(where sheetorm.Where) (sheetorm.Record, bool) {
	return t.FindFirst(where)
}

// FindMany filters, sorts and paginates the cache.
func (t *Table) FindMany(args sheetorm.FindManyArgs) []sheetorm.Record {
	out := query.Filter(t.cache, args.Where)
	out = query.Sort(out, args.OrderBy)
	out = query.Paginate(out, args.Take, args.Skip)
	return copyRecords(out)
}

// Count returns the number of records FindMany would return.
func (t *Table) Count(args sheetorm.FindManyArgs) int {
	return len(t.FindMany(args))
}

// Create fills defaults, enforces primary-key uniqueness, appends to the
// cache and persists the new row. Returns the stored record.
func (t *Table) Create(data sheetorm.Record) (sheetorm.Record, error) {
	rec := schema.ApplyDefaults(data, t.schema)

	if pkVal := rec[t.pk]; pkVal != nil {
		if _, exists := t.Get(pkVal); exists {
			return nil, &sheetorm.DuplicateKeyError{Table: t.name, Field: t.pk, Value: pkVal}
		}
	}

	row, err := schema.RecordToRow(rec, t.schema, t.header)
	if err != nil {
		return nil, fmt.Errorf("create in table %s: %w", t.name, err)
	}

	t.cache = append(t.cache, rec)
	if err := t.handle.AppendRow(row); err != nil {
		log.Errorf("append to table %s failed, cache is ahead of store: %s", t.name, err)
		return nil, &sheetorm.StorageError{Op: "append", Table: t.name, Err: err}
	}
	return rec.Copy(), nil
}

// Update locates the unique match for where, merges data over it and
// rewrites that row. No match is a contract violation and fails with
// NotFoundError. The primary key is not re-checked when data rewrites it.
func (t *Table) Update(where sheetorm.Where, data sheetorm.Record) (sheetorm.Record, error) {
	idx := t.findIndex(where)
	if idx < 0 {
		return nil, &sheetorm.NotFoundError{Table: t.name, What: fmt.Sprintf("record matching %v", where)}
	}

	merged := t.cache[idx].Copy()
	for k, v := range data {
		merged[k] = v
	}

	row, err := schema.RecordToRow(merged, t.schema, t.header)
	if err != nil {
		return nil, fmt.Errorf("update in table %s: %w", t.name, err)
	}

	t.cache[idx] = merged
	if err := t.handle.WriteRow(idx+1, row); err != nil {
		log.Errorf("write row %d of table %s failed, cache is ahead of store: %s", idx+1, t.name, err)
		return nil, &sheetorm.StorageError{Op: "write", Table: t.name, Err: err}
	}
	return merged.Copy(), nil
}

// Delete removes the unique match for where from cache and store. No match
// fails with NotFoundError.
func (t *Table) Delete(where sheetorm.Where) (sheetorm.Record, error) {
	idx := t.findIndex(where)
	if idx < 0 {
		return nil, &sheetorm.NotFoundError{Table: t.name, What: fmt.Sprintf("record matching %v", where)}
	}

	removed := t.cache[idx]
	t.cache = append(t.cache[:idx], t.cache[idx+1:]...)
	if err := t.handle.DeleteRow(idx + 1); err != nil {
		log.Errorf("delete row %d of table %s failed, cache is ahead of store: %s", idx+1, t.name, err)
		return nil, &sheetorm.StorageError{Op: "delete", Table: t.name, Err: err}
	}
	return removed, nil
}

// DeleteMany removes every match for where and returns the count removed.
// Physical deletes run in descending position order so earlier-computed
// positions stay valid. A storage failure stops the pass: rows already
// deleted stay deleted, there is no rollback.
func (t *Table) DeleteMany(where sheetorm.Where) (int, error) {
	positions := []int{}
	for i, rec := range t.cache {
		if query.Matches(rec, where) {
			positions = append(positions, i)
		}
	}

	count := 0
	for i := len(positions) - 1; i >= 0; i-- {
		idx := positions[i]
		t.cache = append(t.cache[:idx], t.cache[idx+1:]...)
		if err := t.handle.DeleteRow(idx + 1); err != nil {
			log.Errorf("bulk delete in table %s stopped at row %d: %s", t.name, idx+1, err)
			return count, &sheetorm.StorageError{Op: "delete", Table: t.name, Err: err}
		}
		count++
	}
	return count, nil
}

// Save clears the store's data rows and rewrites the whole cache as a
// block. Used to reconcile after a failed write-through.
func (t *Table) Save() error {
	var errs *multierror.Error
	rows := make([][]any, 0, len(t.cache))
	for i, rec := range t.cache {
		row, err := schema.RecordToRow(rec, t.schema, t.header)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		rows = append(rows, row)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("save table %s: %w", t.name, err)
	}

	if err := t.handle.ClearDataRows(); err != nil {
		return &sheetorm.StorageError{Op: "clear", Table: t.name, Err: err}
	}
	if err := t.handle.WriteBlock(rows); err != nil {
		return &sheetorm.StorageError{Op: "write block", Table: t.name, Err: err}
	}
	log.Debugf("saved %d rows to table %s", len(rows), t.name)
	return nil
}

func (t *Table) findIndex(where sheetorm.Where) int {
	for i, rec := range t.cache {
		if query.Matches(rec, where) {
			return i
		}
	}
	return -1
}

func copyRecords(in []sheetorm.Record) []sheetorm.Record {
	out := make([]sheetorm.Record, len(in))
	for i, rec := range in {
		out[i] = rec.Copy()
	}
	return out
}
