package mdbabel

// Block is a fenced code block opted into execution by a marker comment.
type Block struct {
	Name      string
	Lang      string
	Meta      Meta
	Code      []byte
	StartLine int
	EndLine   int

	// InfoErr is set when the attributes after the language tag could not be
	// parsed; Meta is then empty.
	InfoErr error
}

type Blocks []*Block

// Names returns the block names in document order.
func (b Blocks) Names() []string {
	names := make([]string, len(b))
	for i, block := range b {
		names[i] = block.Name
	}

	return names
}

// Select returns the blocks accepted by keep, preserving order.
func (b Blocks) Select(keep func(*Block) bool) Blocks {
	var res Blocks

	for _, block := range b {
		if keep(block) {
			res = append(res, block)
		}
	}

	return res
}
