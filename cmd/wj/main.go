// Command wj is the Windjammer compiler CLI: build/run/test/explain over
// .wj source files, emitting Rust plus a Cargo.toml manifest.
//
// Grounded on the teacher's cmd/morfx/main.go (pflag-parsed flags feeding
// a cli.Runner, dual text/JSON output via handleOutputAndExit), rebuilt
// around a cobra.Command tree per the expanded CLI surface (the teacher's
// own declared-but-unused cobra dependency put to work here, since its
// actual CLI hand-rolls pflag.NewFlagSet directly).
package main

import (
	"fmt"
	"os"

	"github.com/oxhq/windjammer/cmd/wj/internal/app"
)

func main() {
	if err := app.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
