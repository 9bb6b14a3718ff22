package cmd

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ezerfernandes/mdbabel/internal/executor"
	"github.com/spf13/cobra"
)

//go:embed help/check.md
var checkHelp string

func checkCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "check [flags] FILE",
		Aliases: []string{"c"},
		Short:   "Check the syntax of the marked shell blocks",
		Long:    checkHelp,
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return prepare(cmd, opts, args[0])
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkDocument(cmd, args[0], opts)
		},

		DisableAutoGenTag: true,
	}

	return cmd
}

func checkDocument(cmd *cobra.Command, filename string, opts *options) error {
	blocks, exact, err := load(filename, opts)
	if err != nil {
		return err
	}

	exec := opts.executor()
	base := filepath.Base(filename)

	var failures int

	for _, block := range blocks {
		err := exec.Check(block)
		if errors.Is(err, executor.ErrUnsupportedLanguage) {
			if exact {
				return err
			}

			opts.status("warning: skipping %v\n", err)

			continue
		}

		opts.status("--- check %s : %s ---\n", describe(block), base)

		if err != nil {
			failures++

			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", base, err)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d block(s) failed check", failures)
	}

	return nil
}
