// Package client composes one Table per declared schema and exposes access
// by table name.
package client

import (
	"fmt"
	"sort"

	sheetorm "github.com/fumigoro/gas-spreadsheet-orm"
	"github.com/fumigoro/gas-spreadsheet-orm/schema"
	"github.com/fumigoro/gas-spreadsheet-orm/table"
	"golang.org/x/exp/maps"
)

type Client struct {
	identifier string
	tables     map[string]*table.Table
}

// New opens one Table per entry in schemas against the given container.
// Any table failing to open aborts the whole client.
func New(store sheetorm.SheetStore, identifier string, schemas map[string]schema.TableSchema) (*Client, error) {
	tables := make(map[string]*table.Table, len(schemas))
	for name, s := range schemas {
		t, err := table.Open(store, identifier, name, s)
		if err != nil {
			return nil, fmt.Errorf("open table %s: %w", name, err)
		}
		tables[name] = t
	}
	return &Client{identifier: identifier, tables: tables}, nil
}

// Table returns the Table for a declared name. Undeclared names fail with
// NotFoundError; they are never treated as valid empty tables.
func (c *Client) Table(name string) (*table.Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, &sheetorm.NotFoundError{Table: name, What: "declared table"}
	}
	return t, nil
}

// Tables lists the declared table names.
func (c *Client) Tables() []string {
	names := maps.Keys(c.tables)
	sort.Strings(names)
	return names
}
