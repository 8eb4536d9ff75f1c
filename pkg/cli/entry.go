// Package cli implements the Vesper command-line entry point: a REPL
// when no file argument is given (its prompt is printed only when
// stdout is a terminal), and a one-shot file-run mode otherwise (§6).
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/vesperlang/vesper/internal/config"
	"github.com/vesperlang/vesper/internal/evaluator"
	"github.com/vesperlang/vesper/internal/lexer"
	"github.com/vesperlang/vesper/internal/modules"
	"github.com/vesperlang/vesper/internal/parser"
)

const replPrompt = "> "

const usage = `usage: vesper [file]

With no file, starts a REPL (prompting only if stdout is a terminal).
With a file, runs it and exits.

  -h, --help     show this message
  -v, --version  show the version
`

// Run is the CLI's whole behavior, parameterized over its I/O so it
// can be driven from main() or from tests. It returns the process
// exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "-h", "--help":
			fmt.Fprint(stdout, usage)
			return config.ExitOK
		case "-v", "--version":
			fmt.Fprintln(stdout, "vesper "+config.Version)
			return config.ExitOK
		}
	}

	if len(args) == 0 {
		runREPL(stdin, stdout, stderr)
		return config.ExitOK
	}

	return runFile(args[0], stdout, stderr)
}

func runFile(path string, stdout, stderr io.Writer) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "vesper: %v\n", err)
		return config.ExitError
	}

	ev := evaluator.New(stdout, strings.NewReader(""))
	global := evaluator.NewEnvironment(nil)
	evaluator.RegisterBuiltins(global)
	evaluator.RegisterDomainBuiltins(global)

	ev.Loader = modules.NewLoader(".", ev, global)

	lx := lexer.New(string(src))
	p := parser.New(lx)
	prog := p.ParseProgram()
	if err := p.FirstError(); err != nil {
		fmt.Fprintf(stderr, "vesper: %s\n", err.Error())
		return config.ExitError
	}

	_, sig := ev.Eval(prog, global)
	if sig.Kind == evaluator.SigError {
		fmt.Fprintf(stderr, "vesper: %s\n", sig.Err.Error())
		return config.ExitError
	}
	return config.ExitOK
}

func runREPL(stdin io.Reader, stdout, stderr io.Writer) {
	ev := evaluator.New(stdout, stdin)
	global := evaluator.NewEnvironment(nil)
	evaluator.RegisterBuiltins(global)
	evaluator.RegisterDomainBuiltins(global)
	ev.Loader = modules.NewLoader(".", ev, global)

	interactive := false
	if f, ok := stdout.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd())
	}

	scanner := bufio.NewScanner(stdin)
	for {
		if interactive {
			fmt.Fprint(stdout, replPrompt)
		}
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "exit" {
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		lx := lexer.New(line)
		p := parser.New(lx)
		prog := p.ParseProgram()
		if err := p.FirstError(); err != nil {
			fmt.Fprintf(stderr, "%s\n", err.Error())
			continue
		}

		v, sig := ev.Eval(prog, global)
		if sig.Kind == evaluator.SigError {
			fmt.Fprintf(stderr, "%s\n", sig.Err.Error())
			continue
		}
		if v != nil && v.Kind() != evaluator.NullKind {
			fmt.Fprintln(stdout, v.Inspect())
		}
	}
}
