package main

import (
	"fmt"
	"os"

	"eerr/eerr-dashboard/cmd/batch"
	"eerr/eerr-dashboard/cmd/classify"
	"eerr/eerr-dashboard/cmd/ledger"
	"eerr/eerr-dashboard/cmd/parse"
	"eerr/eerr-dashboard/cmd/root"
	"eerr/eerr-dashboard/cmd/serve"
	"eerr/eerr-dashboard/cmd/statement"
	"eerr/eerr-dashboard/cmd/sum"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(statement.Cmd)
	root.Cmd.AddCommand(ledger.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(sum.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
