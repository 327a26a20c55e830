package eval

import (
	"io"
	"os"

	"github.com/lattice-lang/lattice/module"
	"github.com/lattice-lang/lattice/value"
)

// Mode is the evaluator's binding-strictness mode (spec §4.5).
type Mode int

const (
	Casual Mode = iota
	Strict
)

// Config mirrors the teacher's executor.Config/executor.DebugLevel shape
// (SPEC_FULL.md §9): a small struct of scalar fields populated by the
// caller, no configuration-parsing library.
type Config struct {
	Mode           Mode
	Assertions     bool
	RegionsEnabled bool
	GCStress       bool
	ScriptDir      string
	Argv           []string
	Builtins       map[string]value.NativeFn
	Stdout         io.Writer
	GCThresholdBytes int64

	// ModuleLoader resolves and executes an import path, returning its
	// export Map (spec §6). evalImport falls back to a bare KindIO error
	// when this is nil: a headless evaluator with no filesystem wired in
	// simply cannot import.
	ModuleLoader func(path, scriptDir string) (module.Exports, error)
}

// DefaultConfig returns a Config with conservative defaults: casual mode,
// regions enabled, a 1MiB GC threshold, stdout for print.
func DefaultConfig() Config {
	return Config{
		Mode:             Casual,
		RegionsEnabled:   true,
		Stdout:           os.Stdout,
		GCThresholdBytes: 1 << 20,
	}
}
