// Package executor runs extracted code blocks through a shell.
package executor

import (
	"context"
	"fmt"

	"github.com/ezerfernandes/mdbabel/internal/mdbabel"
)

// Executor runs blocks one at a time with the streams it was built with.
type Executor struct {
	registry *Registry
	runner   Runner
	stdio    Stdio
}

// New returns an executor resolving languages in registry and running them
// with runner. A nil registry means NewRegistry, a nil runner ProcessRunner.
func New(registry *Registry, runner Runner, stdio Stdio) *Executor {
	if registry == nil {
		registry = NewRegistry()
	}

	if runner == nil {
		runner = ProcessRunner{}
	}

	return &Executor{registry: registry, runner: runner, stdio: stdio}
}

// Resolve returns the language for the block's tag, or an
// *UnsupportedLanguageError when the registry or the runner cannot handle it.
func (e *Executor) Resolve(block *mdbabel.Block) (Language, error) {
	lang, ok := e.registry.Resolve(block.Lang)
	if !ok || !e.runner.Supports(lang) {
		return Language{}, &UnsupportedLanguageError{Name: block.Name, Lang: block.Lang}
	}

	return lang, nil
}

// Run executes the block synchronously and returns its exit status. A
// non-zero status is also reported as a *CommandFailedError.
func (e *Executor) Run(ctx context.Context, block *mdbabel.Block) (int, error) {
	lang, err := e.Resolve(block)
	if err != nil {
		return -1, err
	}

	code, err := e.runner.Run(ctx, lang, scriptOf(block), e.stdio)
	if err != nil {
		return -1, fmt.Errorf("block %q: %w", block.Name, err)
	}

	if code != 0 {
		return code, &CommandFailedError{Name: block.Name, ExitCode: code}
	}

	return 0, nil
}

// Check parses a shell block without running it. Blocks of other supported
// languages pass unchecked.
func (e *Executor) Check(block *mdbabel.Block) error {
	lang, err := e.Resolve(block)
	if err != nil {
		return err
	}

	if !lang.Shell {
		return nil
	}

	if _, err := parse(lang, scriptOf(block)); err != nil {
		return fmt.Errorf("block %q: %w", block.Name, err)
	}

	return nil
}

func scriptOf(block *mdbabel.Block) Script {
	return Script{Name: block.Name, Code: block.Code, Dir: block.Meta.Get(mdbabel.MetaDir)}
}
