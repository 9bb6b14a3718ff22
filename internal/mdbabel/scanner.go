package mdbabel

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	directivePrefix = "mdbabel"
	nameParameter   = ":name"
	fence           = "```"
)

// Scanner reads marked code blocks from a markdown document in a single
// forward pass. Successive calls to Scan step through the blocks in document
// order; a Scanner cannot be rewound.
type Scanner struct {
	reader *bufio.Reader
	line   int

	unread    string
	hasUnread bool

	block *Block
	err   error
	done  bool
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReader(r)}
}

// Scan advances to the next marked block. It returns false at the end of the
// document or on the first error; Err tells the two apart.
func (s *Scanner) Scan() bool {
	s.block = nil

	if s.done {
		return false
	}

	for {
		text, err := s.next()
		if err != nil {
			return s.stop(err)
		}

		if _, width, ok := parseFence(text); ok {
			if err := s.skipFence(width); err != nil {
				return s.stop(err)
			}

			continue
		}

		name, ok := parseMarker(text)
		if !ok {
			continue
		}

		start := s.line

		if text, err = s.nextNonBlank(); err != nil {
			return s.stop(err)
		}

		info, width, ok := parseFence(text)
		if !ok {
			s.pushBack(text)

			continue
		}

		block, err := s.body(name, info, width, start)
		if err != nil {
			return s.stop(err)
		}

		s.block = block

		return true
	}
}

// Block returns the block found by the last successful Scan.
func (s *Scanner) Block() *Block {
	return s.block
}

// Err returns the first error met by Scan, or nil at a clean end of input.
func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) stop(err error) bool {
	s.done = true

	if !errors.Is(err, io.EOF) {
		s.err = err
	}

	return false
}

func (s *Scanner) body(name, info string, width, start int) (*Block, error) {
	opened := s.line

	lang, meta, infoErr := parseInfo(info)
	if infoErr != nil {
		infoErr = fmt.Errorf("line %d: ignoring info string attributes: %w", opened, infoErr)
	}

	var code bytes.Buffer

	for {
		text, err := s.next()
		if errors.Is(err, io.EOF) {
			return nil, &UnterminatedBlockError{Name: name, Line: opened}
		}

		if err != nil {
			return nil, err
		}

		if isClosingFence(text, width) {
			break
		}

		code.WriteString(text)
	}

	return &Block{
		Name:      name,
		Lang:      lang,
		Meta:      meta,
		Code:      code.Bytes(),
		InfoErr:   infoErr,
		StartLine: start,
		EndLine:   s.line,
	}, nil
}

// skipFence consumes an unmarked fenced block so that its content is never
// taken for a marker.
func (s *Scanner) skipFence(width int) error {
	for {
		text, err := s.next()
		if err != nil {
			return err
		}

		if isClosingFence(text, width) {
			return nil
		}
	}
}

// next returns the next line including its line ending.
func (s *Scanner) next() (string, error) {
	if s.hasUnread {
		s.hasUnread = false
		s.line++

		return s.unread, nil
	}

	text, err := s.reader.ReadString('\n')
	if errors.Is(err, io.EOF) && len(text) > 0 {
		err = nil
	}

	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", err
		}

		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}

	s.line++

	return text, nil
}

func (s *Scanner) nextNonBlank() (string, error) {
	for {
		text, err := s.next()
		if err != nil {
			return "", err
		}

		if len(strings.TrimSpace(text)) != 0 {
			return text, nil
		}
	}
}

func (s *Scanner) pushBack(text string) {
	s.unread = text
	s.hasUnread = true
	s.line--
}

// parseMarker returns the block name from a `<!-- mdbabel :name NAME -->`
// comment line.
func parseMarker(line string) (string, bool) {
	begin := strings.Index(line, "<!--")
	if begin < 0 {
		return "", false
	}

	rest := line[begin+len("<!--"):]

	end := strings.Index(rest, "-->")
	if end < 0 {
		return "", false
	}

	words := strings.Fields(rest[:end])

	const minWords = 3

	if len(words) < minWords || words[0] != directivePrefix || words[1] != nameParameter {
		return "", false
	}

	return words[2], true
}

// parseFence recognizes an opening fence: three or more backticks followed
// by an info string free of backticks. It returns the info string and the
// width of the backtick run.
func parseFence(line string) (string, int, bool) {
	trimmed := strings.TrimSpace(line)

	width := backticks(trimmed)
	if width < len(fence) {
		return "", 0, false
	}

	info := trimmed[width:]
	if strings.ContainsRune(info, '`') {
		return "", 0, false
	}

	return info, width, true
}

// isClosingFence reports whether line closes a fence opened with width
// backticks: a run at least as long, with nothing after it.
func isClosingFence(line string, width int) bool {
	trimmed := strings.TrimSpace(line)

	run := backticks(trimmed)

	return run >= width && run == len(trimmed)
}

func backticks(s string) int {
	n := 0
	for n < len(s) && s[n] == '`' {
		n++
	}

	return n
}

// Walker is a callback invoked for each marked block of a document.
type Walker func(block *Block) error

// Walk calls walker for every marked block read from r, stopping at the
// first error returned by the scanner or the walker.
func Walk(r io.Reader, walker Walker) error {
	scanner := NewScanner(r)

	for scanner.Scan() {
		if err := walker(scanner.Block()); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// Extract returns all marked blocks read from r.
func Extract(r io.Reader) (Blocks, error) {
	var blocks Blocks

	err := Walk(r, func(block *Block) error {
		blocks = append(blocks, block)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return blocks, nil
}

// Load reads and extracts the document at path. Relative block directories
// are resolved against the directory of the document.
func Load(path string) (Blocks, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	defer file.Close()

	blocks, err := Extract(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	for _, block := range blocks {
		block.resolveDir(base)
	}

	return blocks, nil
}
