package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ezerfernandes/mdbabel/internal/executor"
	"github.com/ezerfernandes/mdbabel/internal/mdbabel"
)

// runDocument runs the selected blocks of filename in document order. A
// failing block, or one that could not be run at all, is reported and the run
// goes on, unless failFast is set.
// The returned error carries the exit code of the last failing block.
func runDocument(ctx context.Context, filename string, opts *options) error {
	blocks, exact, err := load(filename, opts)
	if err != nil {
		return err
	}

	exec := opts.executor()
	base := filepath.Base(filename)

	var (
		failures int
		lastCode int
	)

	for _, block := range blocks {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := exec.Resolve(block); err != nil {
			if exact {
				return err
			}

			opts.status("warning: skipping %v\n", err)

			continue
		}

		opts.status("--- block %s : %s ---\n", describe(block), base)

		code, err := exec.Run(ctx, block)
		if err == nil {
			continue
		}

		failures++

		var failed *executor.CommandFailedError
		if errors.As(err, &failed) {
			lastCode = code

			opts.status("warning: block %s exited with %d\n", block.Name, code)
		} else {
			lastCode = 1

			opts.status("warning: %v\n", err)
		}

		if opts.failFast {
			break
		}
	}

	if failures > 0 {
		return &exitError{code: lastCode, err: fmt.Errorf("%d block(s) failed", failures)}
	}

	return nil
}

func describe(block *mdbabel.Block) string {
	lang := block.Lang
	if len(lang) == 0 {
		lang = "-"
	}

	return fmt.Sprintf("%s (%s) : L%d-%d", block.Name, lang, block.StartLine, block.EndLine)
}
