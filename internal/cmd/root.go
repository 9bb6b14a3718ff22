// Package cmd implements the mdbabel command line.
package cmd

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/ezerfernandes/mdbabel/internal/config"
	"github.com/ezerfernandes/mdbabel/internal/executor"
	"github.com/spf13/cobra"
)

//go:embed help/mdbabel.md
var rootHelp string

var version = "0.1.0"

type statusFunc func(format string, args ...interface{})

type options struct {
	names    []string
	config   string
	quiet    bool
	interp   bool
	failFast bool

	status   statusFunc
	stdio    executor.Stdio
	registry *executor.Registry
}

func (opts *options) createStatus(out io.Writer) {
	if opts.quiet {
		opts.status = func(string, ...interface{}) {}

		return
	}

	opts.status = func(format string, args ...interface{}) {
		fmt.Fprintf(out, format, args...)
	}
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := &options{stdio: executor.Stdio{In: stdin, Out: stdout, Err: stderr}}

	root := rootCmd(opts)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exit *exitError
	if errors.As(err, &exit) {
		fmt.Fprintf(stderr, "mdbabel: %v\n", exit.err)

		return exit.code
	}

	fmt.Fprintf(stderr, "mdbabel: %v\n", err)

	return 1
}

func rootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "mdbabel [flags] FILE",
		Short:   "Execute marked code blocks of a markdown document",
		Long:    rootHelp,
		Version: version,
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return prepare(cmd, opts, args[0])
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocument(cmd.Context(), args[0], opts)
		},

		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	nameFlag(cmd, opts)
	configFlag(cmd, opts)
	quietFlag(cmd, opts)
	interpFlag(cmd, opts)

	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "stop at the first failing block")

	cmd.AddCommand(listCmd(opts), checkCmd(opts))

	return cmd
}

func nameFlag(cmd *cobra.Command, opts *options) {
	cmd.PersistentFlags().StringArrayVarP(&opts.names, "name", "n", nil, "select blocks by name (glob pattern, repeatable)")
}

func configFlag(cmd *cobra.Command, opts *options) {
	cmd.PersistentFlags().StringVar(&opts.config, "config", "", "config file (default: "+config.Filename+" next to the document)")
}

func quietFlag(cmd *cobra.Command, opts *options) {
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress status messages")
}

func interpFlag(cmd *cobra.Command, opts *options) {
	cmd.PersistentFlags().BoolVar(&opts.interp, "interp", false, "run shell blocks in the embedded interpreter")
}

// exitError carries the exit code of the last failing block.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}
