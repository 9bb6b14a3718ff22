package cmd

import (
	"errors"
	"fmt"

	"github.com/ezerfernandes/mdbabel/internal/mdbabel"
	"github.com/gobwas/glob"
)

// selectBlocks keeps the blocks whose name matches one of the patterns; no
// patterns keeps everything. The bool result is true when a single literal
// name addressed exactly one block.
func selectBlocks(blocks mdbabel.Blocks, patterns []string) (mdbabel.Blocks, bool, error) {
	if len(patterns) == 0 {
		return blocks, false, nil
	}

	globs := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, false, fmt.Errorf("invalid name pattern %q: %w", pattern, err)
		}

		if len(blocks.Select(func(b *mdbabel.Block) bool { return g.Match(b.Name) })) == 0 {
			return nil, false, fmt.Errorf("%w: %q", errNoMatch, pattern)
		}

		globs = append(globs, g)
	}

	selected := blocks.Select(func(b *mdbabel.Block) bool {
		for _, g := range globs {
			if g.Match(b.Name) {
				return true
			}
		}

		return false
	})

	exact := len(patterns) == 1 && len(selected) == 1 && glob.QuoteMeta(patterns[0]) == patterns[0]

	return selected, exact, nil
}

var errNoMatch = errors.New("no block matches")
