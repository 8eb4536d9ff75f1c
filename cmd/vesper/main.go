// Command vesper is the Vesper language's command-line entry point: a
// REPL with no arguments, or a one-shot file run given a source path.
package main

import (
	"os"

	"github.com/vesperlang/vesper/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
