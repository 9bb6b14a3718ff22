package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Stdio holds the streams handed to every block.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// OSStdio returns the streams of the current process.
func OSStdio() Stdio {
	return Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Runner runs a block body and reports its exit status. A non-nil error means
// the body could not be run at all.
type Runner interface {
	Supports(lang Language) bool
	Run(ctx context.Context, lang Language, script Script, stdio Stdio) (int, error)
}

// Script is a block body ready to run.
type Script struct {
	Name string
	Code []byte
	Dir  string
}

// ProcessRunner spawns the language program as a child process.
type ProcessRunner struct{}

func (ProcessRunner) Supports(Language) bool {
	return true
}

func (ProcessRunner) Run(ctx context.Context, lang Language, script Script, stdio Stdio) (int, error) {
	args := make([]string, 0, len(lang.Args)+1)
	args = append(args, lang.Args...)
	args = append(args, string(script.Code))

	cmd := exec.CommandContext(ctx, lang.Program, args...)
	cmd.Dir = script.Dir
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code, nil
		}

		// terminated by a signal
		return 1, nil
	}

	return -1, err
}

// InterpRunner runs shell blocks in-process with the mvdan.cc/sh interpreter.
type InterpRunner struct{}

func (InterpRunner) Supports(lang Language) bool {
	return lang.Shell
}

func (InterpRunner) Run(ctx context.Context, lang Language, script Script, stdio Stdio) (int, error) {
	file, err := parse(lang, script)
	if err != nil {
		return -1, err
	}

	opts := []interp.RunnerOption{interp.StdIO(stdio.In, stdio.Out, stdio.Err)}
	if len(script.Dir) != 0 {
		opts = append(opts, interp.Dir(script.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return -1, err
	}

	err = runner.Run(ctx, file)
	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return int(status), nil
		}

		return -1, err
	}

	return 0, nil
}

func parse(lang Language, script Script) (*syntax.File, error) {
	parser := syntax.NewParser(syntax.Variant(lang.Variant))

	return parser.Parse(bytes.NewReader(script.Code), script.Name)
}
