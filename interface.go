package sheetorm

// SheetStore is the physical tabular backend: something that can open one
// named table inside a spreadsheet-like container. Implementations live in
// memstore (in-memory) and pebblestore (durable).
type SheetStore interface {
	// OpenTable returns a handle for the named table under the given
	// container identifier. Missing tables fail with a *NotFoundError.
	OpenTable(identifier string, name string) (TableHandle, error)
}

// TableHandle is one open table: a header row plus zero or more data rows.
// Data-row positions are 1-based; position p maps to physical row p plus the
// header offset inside the backing container.
type TableHandle interface {
	// ReadHeaderAndRows returns the header labels and all data rows. A
	// table holding only a header yields zero rows.
	ReadHeaderAndRows() (header []string, rows [][]any, err error)

	// AppendRow adds one data row after the current last row. Values must
	// be positionally aligned with the header.
	AppendRow(values []any) error

	// WriteRow overwrites the data row at pos.
	WriteRow(pos int, values []any) error

	// DeleteRow removes the data row at pos. Rows after pos shift up by
	// one, so bulk deletes must run in descending position order.
	DeleteRow(pos int) error

	// ClearDataRows removes every data row, leaving the header.
	ClearDataRows() error

	// WriteBlock appends all given rows in one operation. Used together
	// with ClearDataRows for full-cache rewrites.
	WriteBlock(rows [][]any) error
}
