package query

import (
	"encoding/json"
	"fmt"
	"strings"

	sheetorm "github.com/fumigoro/gas-spreadsheet-orm"
	"github.com/fumigoro/gas-spreadsheet-orm/pebblestore"
	"github.com/fumigoro/gas-spreadsheet-orm/schema"
	"github.com/fumigoro/gas-spreadsheet-orm/table"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var (
	keyField   = "id"
	whereFlags []string
	orderFlags []string
	take       int
	skip       int
)

var Cmd = &cobra.Command{
	Use:   "query <db> <spreadsheet> <table>",
	Short: "Filter, sort and paginate records",
	Long:  ``,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {

		dbPath := args[0]
		sheetId := args[1]
		tableName := args[2]

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

		findArgs := sheetorm.FindManyArgs{Where: sheetorm.Where{}, Skip: skip}
		for _, w := range whereFlags {
			field, raw, ok := strings.Cut(w, "=")
			if !ok {
				return fmt.Errorf("bad --where %q, want field=value", w)
			}
			findArgs.Where[field] = coerce(raw)
		}
		for _, o := range orderFlags {
			field, dir, _ := strings.Cut(o, ":")
			key := sheetorm.OrderBy{Field: field, Direction: sheetorm.Asc}
			if dir == "desc" {
				key.Direction = sheetorm.Desc
			}
			findArgs.OrderBy = append(findArgs.OrderBy, key)
		}
		if cmd.Flags().Changed("take") {
			findArgs.Take = sheetorm.Take(take)
		}

		for _, rec := range tbl.FindMany(findArgs) {
			out, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", out)
		}
		return nil
	},
}

// coerce turns a flag value into the kind stored cells carry: number, bool
// or string.
func coerce(raw string) any {
	if f, err := cast.ToFloat64E(raw); err == nil {
		return f
	}
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	return raw
}

func init() {
	flags := Cmd.Flags()
	flags.StringVarP(&keyField, "key", "k", keyField, "Primary key column")
	flags.StringArrayVarP(&whereFlags, "where", "w", nil, "Filter as field=value, repeatable")
	flags.StringArrayVarP(&orderFlags, "order", "o", nil, "Sort key as field or field:desc, repeatable")
	flags.IntVar(&take, "take", 0, "Maximum records to return")
	flags.IntVar(&skip, "skip", 0, "Records to skip")
}
