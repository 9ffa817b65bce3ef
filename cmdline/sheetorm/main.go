package main

import (
	"fmt"
	"os"

	"github.com/fumigoro/gas-spreadsheet-orm/cmdline/sheetorm/cmds"
)

func main() {
	if err := cmds.RootCmd.Execute(); err != nil {
		fmt.Println("Error:", err.Error())
		os.Exit(1)
	}
}
