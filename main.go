package main

import (
	"fmt"
	"os"

	"fjacquet/ledger-import/cmd/batch"
	"fjacquet/ledger-import/cmd/commit"
	"fjacquet/ledger-import/cmd/correct"
	"fjacquet/ledger-import/cmd/export"
	"fjacquet/ledger-import/cmd/learn"
	"fjacquet/ledger-import/cmd/preview"
	"fjacquet/ledger-import/cmd/profile"
	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/cmd/run"
	"fjacquet/ledger-import/cmd/suggest"
	"fjacquet/ledger-import/cmd/upload"
)

func init() {
	root.Cmd.AddCommand(
		upload.Cmd,
		preview.Cmd,
		commit.Cmd,
		run.Cmd,
		suggest.Cmd,
		learn.Cmd,
		correct.Cmd,
		profile.Cmd,
		export.Cmd,
		batch.Cmd,
	)
}

func main() {
	err := root.Cmd.Execute()
	if closeErr := root.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
