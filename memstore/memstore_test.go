package memstore

import (
	"testing"

	sheetorm "github.com/fumigoro/gas-spreadsheet-orm"
)

func open(t *testing.T) sheetorm.TableHandle {
	t.Helper()
	s := New()
	if err := s.CreateTable("sheet", "t1", []string{"A", "B"}); err != nil {
		t.Fatal(err)
	}
	h, err := s.OpenTable("sheet", "t1")
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestOpenMissing(t *testing.T) {
	s := New()
	if _, err := s.OpenTable("sheet", "nope"); !sheetorm.IsNotFound(err) {
		t.Errorf("missing table must be NotFoundError, got %v", err)
	}

	s.CreateTable("sheet", "t1", []string{"A"})
	if _, err := s.OpenTable("other", "t1"); !sheetorm.IsNotFound(err) {
		t.Errorf("missing container must be NotFoundError, got %v", err)
	}
}

func TestCreateTwice(t *testing.T) {
	s := New()
	if err := s.CreateTable("sheet", "t1", []string{"A"}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateTable("sheet", "t1", []string{"A"}); err == nil {
		t.Errorf("duplicate create must fail")
	}
}

func TestHeaderOnly(t *testing.T) {
	h := open(t)
	header, rows, err := h.ReadHeaderAndRows()
	if err != nil {
		t.Fatal(err)
	}
	if len(header) != 2 || header[0] != "A" {
		t.Errorf("bad header %v", header)
	}
	if len(rows) != 0 {
		t.Errorf("header-only table must yield zero data rows")
	}
}

func TestRowOperations(t *testing.T) {
	h := open(t)

	for _, row := range [][]any{{1, "a"}, {2, "b"}, {3, "c"}} {
		if err := h.AppendRow(row); err != nil {
			t.Fatal(err)
		}
	}

	if err := h.WriteRow(2, []any{2, "B"}); err != nil {
		t.Fatal(err)
	}
	if err := h.WriteRow(9, []any{9, "x"}); err == nil {
		t.Errorf("write past the end must fail")
	}

	if err := h.DeleteRow(1); err != nil {
		t.Fatal(err)
	}

	_, rows, err := h.ReadHeaderAndRows()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	// delete shifted the remaining rows up
	if rows[0][1] != "B" || rows[1][1] != "c" {
		t.Errorf("unexpected rows after delete: %v", rows)
	}
}

func TestClearAndWriteBlock(t *testing.T) {
	h := open(t)
	h.AppendRow([]any{1, "a"})
	h.AppendRow([]any{2, "b"})

	if err := h.ClearDataRows(); err != nil {
		t.Fatal(err)
	}
	if err := h.WriteBlock([][]any{{3, "c"}, {4, "d"}}); err != nil {
		t.Fatal(err)
	}

	_, rows, _ := h.ReadHeaderAndRows()
	if len(rows) != 2 || rows[0][0] != 3 {
		t.Errorf("block rewrite failed: %v", rows)
	}
}

func TestReadReturnsCopies(t *testing.T) {
	h := open(t)
	h.AppendRow([]any{1, "a"})

	_, rows, _ := h.ReadHeaderAndRows()
	rows[0][1] = "mutated"

	_, fresh, _ := h.ReadHeaderAndRows()
	if fresh[0][1] != "a" {
		t.Errorf("read handed out a live reference")
	}
}
