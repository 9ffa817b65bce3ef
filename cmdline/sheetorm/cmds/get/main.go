package get

import (
	"encoding/json"
	"fmt"

	sheetorm "github.com/fumigoro/gas-spreadsheet-orm"
	"github.com/fumigoro/gas-spreadsheet-orm/pebblestore"
	"github.com/fumigoro/gas-spreadsheet-orm/schema"
	"github.com/fumigoro/gas-spreadsheet-orm/table"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var keyField = "id"

var Cmd = &cobra.Command{
	Use:   "get <db> <spreadsheet> <table> <key>...",
	Short: "Get records by primary key",
	Long:  ``,
	Args:  cobra.MinimumNArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {

		dbPath := args[0]
		sheetId := args[1]
		tableName := args[2]
		keys := args[3:]

		driver, err := pebblestore.Open(dbPath)
		if err != nil {
			return err
		}
		defer driver.Close()

		handle, err := driver.OpenTable(sheetId, tableName)
		if err != nil {
			return err
		}
		header, _, err := handle.ReadHeaderAndRows()
		if err != nil {
			return err
		}

		tbl, err := table.Open(driver, sheetId, tableName, schema.FromHeader(header, keyField))
		if err != nil {
			return err
		}

		for _, key := range keys {
			rec, ok := tbl.Get(coerce(key))
			if !ok {
				return &sheetorm.NotFoundError{Table: tableName, What: "record with key " + key}
			}
			out, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", out)
		}
		return nil
	},
}

// coerce turns a command-line key into the kind stored cells carry.
func coerce(raw string) any {
	if f, err := cast.ToFloat64E(raw); err == nil {
		return f
	}
	return raw
}

func init() {
	flags := Cmd.Flags()
	flags.StringVarP(&keyField, "key", "k", keyField, "Primary key column")
}
