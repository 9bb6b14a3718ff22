package cmd

import (
	"github.com/ezerfernandes/mdbabel/internal/config"
	"github.com/ezerfernandes/mdbabel/internal/executor"
	"github.com/ezerfernandes/mdbabel/internal/mdbabel"
	"github.com/spf13/cobra"
)

// prepare loads the config for filename, lets it fill the flags left unset,
// and sets up the status writer.
func prepare(cmd *cobra.Command, opts *options, filename string) error {
	var (
		cfg *config.Config
		err error
	)

	if len(opts.config) != 0 {
		cfg, err = config.Load(opts.config)
	} else {
		cfg, err = config.Discover(filename)
	}

	if err != nil {
		return err
	}

	flags := cmd.Flags()

	if !flags.Changed("quiet") {
		opts.quiet = cfg.Quiet
	}

	if !flags.Changed("interp") {
		opts.interp = cfg.Interp
	}

	if flags.Lookup("fail-fast") != nil && !flags.Changed("fail-fast") {
		opts.failFast = cfg.FailFast
	}

	opts.createStatus(cmd.ErrOrStderr())

	if len(cfg.Path()) != 0 {
		opts.status("using config %s\n", cfg.Path())
	}

	if opts.registry, err = cfg.Registry(); err != nil {
		return err
	}

	return nil
}

func (opts *options) runner() executor.Runner {
	if opts.interp {
		return executor.InterpRunner{}
	}

	return executor.ProcessRunner{}
}

func (opts *options) executor() *executor.Executor {
	return executor.New(opts.registry, opts.runner(), opts.stdio)
}

// load extracts the blocks of filename and applies the --name selection.
func load(filename string, opts *options) (mdbabel.Blocks, bool, error) {
	blocks, err := mdbabel.Load(filename)
	if err != nil {
		return nil, false, err
	}

	blocks, exact, err := selectBlocks(blocks, opts.names)
	if err != nil {
		return nil, false, err
	}

	for _, block := range blocks {
		if block.InfoErr != nil {
			opts.status("warning: block %s: %v\n", block.Name, block.InfoErr)
		}
	}

	return blocks, exact, nil
}
