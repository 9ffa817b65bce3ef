package pebblestore

import (
	"bytes"
	"fmt"

	sheetorm "github.com/fumigoro/gas-spreadsheet-orm"
	"github.com/fumigoro/gas-spreadsheet-orm/pebblebulk"
	"go.mongodb.org/mongo-driver/bson"
)

type tableHandle struct {
	dr     *Driver
	name   string
	id     uint32
	header []string
}

// rowDoc wraps one data row for bson encoding; bson wants a document at the
// top level, not a bare array.
type rowDoc struct {
	V []any `bson:"v"`
}

func (h *tableHandle) ReadHeaderAndRows() ([]string, [][]any, error) {
	header := make([]string, len(h.header))
	copy(header, h.header)

	rows := [][]any{}
	prefix := sheetorm.NewRowKeyPrefix(h.id)
	err := h.dr.kv.View(func(it *pebblebulk.PebbleIterator) error {
		for it.Seek(prefix); it.Valid() && bytes.HasPrefix(it.Key(), prefix); it.Next() {
			doc := rowDoc{}
			if err := bson.Unmarshal(it.Value(), &doc); err != nil {
				_, pos := sheetorm.ParseRowKey(it.Key())
				return fmt.Errorf("bad row %d in table %s: %v", pos, h.name, err)
			}
			rows = append(rows, convertCellTypes(doc.V))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return header, rows, nil
}

func (h *tableHandle) AppendRow(values []any) error {
	n, err := h.rowCount()
	if err != nil {
		return err
	}
	data, err := bson.Marshal(rowDoc{V: values})
	if err != nil {
		return err
	}
	return h.dr.kv.Set(sheetorm.NewRowKey(h.id, n+1), data)
}

func (h *tableHandle) WriteRow(pos int, values []any) error {
	key := sheetorm.NewRowKey(h.id, uint64(pos))
	_, closer, err := h.dr.kv.Get(key)
	if err != nil {
		return fmt.Errorf("no row %d in table %s: %v", pos, h.name, err)
	}
	closer.Close()

	data, err := bson.Marshal(rowDoc{V: values})
	if err != nil {
		return err
	}
	return h.dr.kv.Set(key, data)
}

func (h *tableHandle) DeleteRow(pos int) error {
	n, err := h.rowCount()
	if err != nil {
		return err
	}
	if pos < 1 || uint64(pos) > n {
		return fmt.Errorf("row position %d out of range 1..%d in table %s", pos, n, h.name)
	}

	// shift every following row up one position, drop the last key
	return h.dr.kv.BulkWrite(func(tx *pebblebulk.PebbleBulk) error {
		for p := uint64(pos); p < n; p++ {
			val, closer, err := h.dr.kv.Get(sheetorm.NewRowKey(h.id, p+1))
			if err != nil {
				return err
			}
			row := make([]byte, len(val))
			copy(row, val)
			closer.Close()
			if err := tx.Set(sheetorm.NewRowKey(h.id, p), row); err != nil {
				return err
			}
		}
		return tx.Delete(sheetorm.NewRowKey(h.id, n))
	})
}

func (h *tableHandle) ClearDataRows() error {
	return h.dr.kv.BulkWrite(func(tx *pebblebulk.PebbleBulk) error {
		return tx.DeletePrefix(sheetorm.NewRowKeyPrefix(h.id))
	})
}

func (h *tableHandle) WriteBlock(rows [][]any) error {
	n, err := h.rowCount()
	if err != nil {
		return err
	}
	return h.dr.kv.BulkWrite(func(tx *pebblebulk.PebbleBulk) error {
		for i, row := range rows {
			data, err := bson.Marshal(rowDoc{V: row})
			if err != nil {
				return err
			}
			if err := tx.Set(sheetorm.NewRowKey(h.id, n+uint64(i)+1), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (h *tableHandle) rowCount() (uint64, error) {
	count := uint64(0)
	prefix := sheetorm.NewRowKeyPrefix(h.id)
	err := h.dr.kv.View(func(it *pebblebulk.PebbleIterator) error {
		for it.Seek(prefix); it.Valid() && bytes.HasPrefix(it.Key(), prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
