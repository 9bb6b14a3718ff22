package mdbabel

import (
	"errors"
	"fmt"
)

var (
	// ErrIO is matched by errors reading a document from disk.
	ErrIO = errors.New("cannot read document")

	// ErrUnterminatedBlock is matched when a marked fence never closes.
	ErrUnterminatedBlock = errors.New("unterminated code block")
)

// IOError reports a document that could not be read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrIO, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// UnterminatedBlockError reports the marked block whose fence opened at Line
// and reached end of input.
type UnterminatedBlockError struct {
	Name string
	Line int
}

func (e *UnterminatedBlockError) Error() string {
	return fmt.Sprintf("%s %q opened at line %d", ErrUnterminatedBlock, e.Name, e.Line)
}

func (e *UnterminatedBlockError) Is(target error) bool {
	return target == ErrUnterminatedBlock
}
