package executor

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedLanguage is matched when no runner handles a block's tag.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrCommandFailed is matched when a block exits with a non-zero status.
	ErrCommandFailed = errors.New("command failed")

	errEmptyCommand = errors.New("empty command")
)

// UnsupportedLanguageError reports a block skipped because of its language tag.
type UnsupportedLanguageError struct {
	Name string
	Lang string
}

func (e *UnsupportedLanguageError) Error() string {
	lang := e.Lang
	if len(lang) == 0 {
		lang = "<none>"
	}

	return fmt.Sprintf("block %q: %s %s", e.Name, ErrUnsupportedLanguage, lang)
}

func (e *UnsupportedLanguageError) Is(target error) bool {
	return target == ErrUnsupportedLanguage
}

// CommandFailedError reports a block whose command exited with ExitCode.
type CommandFailedError struct {
	Name     string
	ExitCode int
}

func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("block %q: %s with exit code %d", e.Name, ErrCommandFailed, e.ExitCode)
}

func (e *CommandFailedError) Is(target error) bool {
	return target == ErrCommandFailed
}
