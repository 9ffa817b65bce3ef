package load

import (
	"encoding/json"
	"sort"

	"github.com/bmeg/grip/log"
	sheetorm "github.com/fumigoro/gas-spreadsheet-orm"
	"github.com/fumigoro/gas-spreadsheet-orm/pebblestore"
	"github.com/fumigoro/gas-spreadsheet-orm/schema"
	"github.com/fumigoro/gas-spreadsheet-orm/table"
	"github.com/fumigoro/gas-spreadsheet-orm/util"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var keyField = "id"

var Cmd = &cobra.Command{
	Use:   "load <db> <spreadsheet> <table> <filepath>",
	Short: "Load records from a JSON lines file",
	Long:  ``,
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {

		dbPath := args[0]
		sheetId := args[1]
		tableName := args[2]
		filePath := args[3]

		driver, err := pebblestore.Open(dbPath)
		if err != nil {
			return err
		}
		defer driver.Close()

		lineCount, _ := util.LineCounter(filePath)

		lines, err := util.StreamLines(filePath, 10)
		if err != nil {
			return err
		}

		bar := progressbar.Default(int64(lineCount))

		var tbl *table.Table
		for l := range lines {
			data := map[string]any{}
			if err := json.Unmarshal([]byte(l), &data); err != nil {
				log.Errorf("skipping bad line: %s", err)
				bar.Add(1)
				continue
			}

			if tbl == nil {
				tbl, err = openTable(driver, sheetId, tableName, data)
				if err != nil {
					return err
				}
			}

			if _, err := tbl.Create(sheetorm.Record(data)); err != nil {
				log.Errorf("skipping record: %s", err)
			}
			bar.Add(1)
		}
		return nil
	},
}

// openTable opens the target table, creating it with a header derived from
// the first record when it does not exist yet.
func openTable(driver *pebblestore.Driver, sheetId, tableName string, first map[string]any) (*table.Table, error) {
	handle, err := driver.OpenTable(sheetId, tableName)
	if sheetorm.IsNotFound(err) {
		header := make([]string, 0, len(first))
		for k := range first {
			header = append(header, k)
		}
		sort.Strings(header)
		if err := driver.CreateTable(sheetId, tableName, header); err != nil {
			return nil, err
		}
		handle, err = driver.OpenTable(sheetId, tableName)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	header, _, err := handle.ReadHeaderAndRows()
	if err != nil {
		return nil, err
	}
	return table.Open(driver, sheetId, tableName, schema.FromHeader(header, keyField))
}

func init() {
	flags := Cmd.Flags()
	flags.StringVarP(&keyField, "key", "k", keyField, "Primary key column")
}
