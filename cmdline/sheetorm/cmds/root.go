package cmds

import (
	"os"

	del "github.com/fumigoro/gas-spreadsheet-orm/cmdline/sheetorm/cmds/delete"
	"github.com/fumigoro/gas-spreadsheet-orm/cmdline/sheetorm/cmds/get"
	"github.com/fumigoro/gas-spreadsheet-orm/cmdline/sheetorm/cmds/load"
	"github.com/fumigoro/gas-spreadsheet-orm/cmdline/sheetorm/cmds/query"
	"github.com/fumigoro/gas-spreadsheet-orm/cmdline/sheetorm/cmds/tables"

	"github.com/spf13/cobra"
)

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:           "sheetorm",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	RootCmd.AddCommand(tables.Cmd)
	RootCmd.AddCommand(get.Cmd)
	RootCmd.AddCommand(query.Cmd)
	RootCmd.AddCommand(load.Cmd)
	RootCmd.AddCommand(del.Cmd)

	RootCmd.AddCommand(genBashCompletionCmd)
}

var genBashCompletionCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate bash completions file",
	Run: func(cmd *cobra.Command, args []string) {
		RootCmd.GenBashCompletion(os.Stdout)
	},
}
