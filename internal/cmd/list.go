package cmd

import (
	_ "embed"
	"fmt"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

//go:embed help/list.md
var listHelp string

func listCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "list [flags] FILE",
		Aliases: []string{"ls"},
		Short:   "List the marked code blocks",
		Long:    listHelp,
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return prepare(cmd, opts, args[0])
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			blocks, _, err := load(args[0], opts)
			if err != nil {
				return err
			}

			exec := opts.executor()

			tbl := table.New("NAME", "LANG", "LINES", "STATUS").WithWriter(cmd.OutOrStdout())

			for _, block := range blocks {
				status := "runnable"
				if _, err := exec.Resolve(block); err != nil {
					status = "unsupported"
				}

				tbl.AddRow(block.Name, block.Lang, fmt.Sprintf("%d-%d", block.StartLine, block.EndLine), status)
			}

			tbl.Print()

			return nil
		},

		DisableAutoGenTag: true,
	}

	return cmd
}
