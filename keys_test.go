package sheetorm_test

import (
	"bytes"
	"testing"

	sheetorm "github.com/fumigoro/gas-spreadsheet-orm"
)

func TestTableKeyParse(t *testing.T) {

	name := "sheet-0001/users"
	key := sheetorm.NewTableKey([]byte(name))
	pName := sheetorm.ParseTableKey(key)

	if name != string(pName) {
		t.Errorf("%s != %s", name, pName)
	}
}

func TestRowKeyParse(t *testing.T) {
	tableId := uint32(7)
	pos := uint64(12345)

	key := sheetorm.NewRowKey(tableId, pos)
	pId, pPos := sheetorm.ParseRowKey(key)
	if tableId != pId {
		t.Errorf("%d != %d", tableId, pId)
	}
	if pos != pPos {
		t.Errorf("%d != %d", pos, pPos)
	}
}

func TestRowKeyPrefix(t *testing.T) {
	tableId := uint32(42)
	prefix := sheetorm.NewRowKeyPrefix(tableId)

	for _, pos := range []uint64{1, 2, 100, 1 << 40} {
		key := sheetorm.NewRowKey(tableId, pos)
		if !bytes.HasPrefix(key, prefix) {
			t.Errorf("row key for pos %d misses table prefix", pos)
		}
	}

	other := sheetorm.NewRowKey(tableId+1, 1)
	if bytes.HasPrefix(other, prefix) {
		t.Errorf("row key of another table matched the prefix")
	}
}

func TestRowKeyOrder(t *testing.T) {
	// scan order over row keys must match sheet order
	prev := sheetorm.NewRowKey(3, 1)
	for pos := uint64(2); pos < 300; pos++ {
		cur := sheetorm.NewRowKey(3, pos)
		if bytes.Compare(prev, cur) >= 0 {
			t.Errorf("key for pos %d does not sort after pos %d", pos, pos-1)
		}
		prev = cur
	}
}
