// Package modules implements the file-based module loader (§4.5): a
// dotted import path resolves to exactly one source file, loaded and
// evaluated once per process and cached by its resolved absolute path.
package modules

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/vesperlang/vesper/internal/config"
	"github.com/vesperlang/vesper/internal/diagnostics"
	"github.com/vesperlang/vesper/internal/evaluator"
	"github.com/vesperlang/vesper/internal/lexer"
	"github.com/vesperlang/vesper/internal/parser"
	"github.com/vesperlang/vesper/internal/utils"
)

// Loader resolves, parses and evaluates modules relative to a base
// directory (the working directory when started from the CLI). It satisfies
// evaluator.ModuleLoader.
type Loader struct {
	BaseDir string
	Eval    *evaluator.Evaluator
	Global  *evaluator.Environment

	cache      map[string]*evaluator.Module
	processing map[string]bool
}

func NewLoader(baseDir string, ev *evaluator.Evaluator, global *evaluator.Environment) *Loader {
	return &Loader{
		BaseDir:    baseDir,
		Eval:       ev,
		Global:     global,
		cache:      make(map[string]*evaluator.Module),
		processing: make(map[string]bool),
	}
}

// Load resolves a dotted path (e.g. "a.b.c" -> BaseDir/a/b/c.vsp),
// parses and evaluates it once, and caches the result keyed by its
// resolved absolute path. A load failure — file not found, parse
// error, runtime error, or a circular import — is returned as a
// diagnostic rather than a panic. The evaluator's import statement
// turns that diagnostic into a runtime error, so evaluation of the
// importing program stops at the import; no null module is bound.
func (l *Loader) Load(path string) (*evaluator.Module, *diagnostics.Diagnostic) {
	rel := filepath.Join(strings.Split(path, ".")...) + config.SourceFileExt
	abs := filepath.Join(l.BaseDir, rel)
	if a, err := filepath.Abs(abs); err == nil {
		abs = a
	}

	if mod, ok := l.cache[abs]; ok {
		return mod, nil
	}
	if l.processing[abs] {
		d := diagnostics.AtLineCol(0, 0, "circular import: '%s'", path)
		return nil, &d
	}

	src, err := os.ReadFile(abs)
	if err != nil {
		d := diagnostics.AtLineCol(0, 0, "cannot import '%s': %v", path, err)
		return nil, &d
	}

	l.processing[abs] = true
	defer delete(l.processing, abs)

	lx := lexer.New(string(src))
	p := parser.New(lx)
	prog := p.ParseProgram()
	if err := p.FirstError(); err != nil {
		return nil, err
	}

	modEnv := evaluator.NewEnvironment(l.Global)
	_, sig := l.Eval.Eval(prog, modEnv)
	if sig.Kind == evaluator.SigError {
		return nil, sig.Err
	}

	mod := &evaluator.Module{Name: utils.ExtractModuleName(abs), Env: modEnv}
	l.cache[abs] = mod
	return mod, nil
}
