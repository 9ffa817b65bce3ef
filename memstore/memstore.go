// Package memstore is an in-memory SheetStore: a grid of cell values per
// table, no I/O. It backs tests and short-lived embedders; pebblestore is
// the durable counterpart.
package memstore

import (
	"fmt"
	"sync"

	sheetorm "github.com/fumigoro/gas-spreadsheet-orm"
)

type Store struct {
	lock   sync.RWMutex
	sheets map[string]map[string]*memTable
}

func New() *Store {
	return &Store{sheets: map[string]map[string]*memTable{}}
}

// CreateTable registers an empty table with the given header under the
// container identifier.
func (s *Store) CreateTable(identifier, name string, header []string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	tables, ok := s.sheets[identifier]
	if !ok {
		tables = map[string]*memTable{}
		s.sheets[identifier] = tables
	}
	if _, exists := tables[name]; exists {
		return fmt.Errorf("table %s already exists in %s", name, identifier)
	}
	h := make([]string, len(header))
	copy(h, header)
	tables[name] = &memTable{header: h}
	return nil
}

func (s *Store) OpenTable(identifier, name string) (sheetorm.TableHandle, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	tables, ok := s.sheets[identifier]
	if !ok {
		return nil, &sheetorm.NotFoundError{Table: identifier + "/" + name}
	}
	mt, ok := tables[name]
	if !ok {
		return nil, &sheetorm.NotFoundError{Table: identifier + "/" + name}
	}
	return mt, nil
}

type memTable struct {
	lock   sync.Mutex
	header []string
	rows   [][]any
}

func (mt *memTable) ReadHeaderAndRows() ([]string, [][]any, error) {
	mt.lock.Lock()
	defer mt.lock.Unlock()

	header := make([]string, len(mt.header))
	copy(header, mt.header)
	rows := make([][]any, len(mt.rows))
	for i, row := range mt.rows {
		rows[i] = copyRow(row)
	}
	return header, rows, nil
}

func (mt *memTable) AppendRow(values []any) error {
	mt.lock.Lock()
	defer mt.lock.Unlock()
	mt.rows = append(mt.rows, copyRow(values))
	return nil
}

func (mt *memTable) WriteRow(pos int, values []any) error {
	mt.lock.Lock()
	defer mt.lock.Unlock()
	if pos < 1 || pos > len(mt.rows) {
		return fmt.Errorf("row position %d out of range 1..%d", pos, len(mt.rows))
	}
	mt.rows[pos-1] = copyRow(values)
	return nil
}

func (mt *memTable) DeleteRow(pos int) error {
	mt.lock.Lock()
	defer mt.lock.Unlock()
	if pos < 1 || pos > len(mt.rows) {
		return fmt.Errorf("row position %d out of range 1..%d", pos, len(mt.rows))
	}
	mt.rows = append(mt.rows[:pos-1], mt.rows[pos:]...)
	return nil
}

func (mt *memTable) ClearDataRows() error {
	mt.lock.Lock()
	defer mt.lock.Unlock()
	mt.rows = nil
	return nil
}

func (mt *memTable) WriteBlock(rows [][]any) error {
	mt.lock.Lock()
	defer mt.lock.Unlock()
	for _, row := range rows {
		mt.rows = append(mt.rows, copyRow(row))
	}
	return nil
}

func copyRow(in []any) []any {
	out := make([]any, len(in))
	copy(out, in)
	return out
}
