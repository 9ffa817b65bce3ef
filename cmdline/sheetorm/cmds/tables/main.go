package tables

import (
	"fmt"

	"github.com/fumigoro/gas-spreadsheet-orm/pebblestore"
	"github.com/spf13/cobra"
)

var Cmd = &cobra.Command{
	Use:   "tables <db> <spreadsheet>",
	Short: "List tables",
	Long:  ``,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {

		dbPath := args[0]
		sheetId := args[1]

		driver, err := pebblestore.Open(dbPath)
		if err != nil {
			return err
		}
		defer driver.Close()

		for _, name := range driver.ListTables(sheetId) {
			fmt.Printf("%s\n", name)
		}
		return nil
	},
}
