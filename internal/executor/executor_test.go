package executor_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ezerfernandes/mdbabel/internal/executor"
	"github.com/ezerfernandes/mdbabel/internal/mdbabel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/syntax"
)

func block(name, lang, code string) *mdbabel.Block {
	return &mdbabel.Block{Name: name, Lang: lang, Code: []byte(code), Meta: mdbabel.Meta{}}
}

func runners(t *testing.T) map[string]executor.Runner {
	t.Helper()

	res := map[string]executor.Runner{"interp": executor.InterpRunner{}}

	if runtime.GOOS != "windows" {
		res["process"] = executor.ProcessRunner{}
	}

	return res
}

func TestRun(t *testing.T) {
	t.Parallel()

	for name, runner := range runners(t) {
		runner := runner

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			for _, lang := range []string{"sh", "shell", "bash"} {
				var stdout bytes.Buffer

				exec := executor.New(nil, runner, executor.Stdio{Out: &stdout, Err: &stdout})

				code, err := exec.Run(context.Background(), block("greet", lang, "echo hello\n"))

				require.NoError(t, err, lang)
				assert.Equal(t, 0, code, lang)
				assert.Equal(t, "hello\n", stdout.String(), lang)
			}
		})
	}
}

func TestRunFailure(t *testing.T) {
	t.Parallel()

	for name, runner := range runners(t) {
		runner := runner

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			exec := executor.New(nil, runner, executor.Stdio{Out: &bytes.Buffer{}, Err: &bytes.Buffer{}})

			code, err := exec.Run(context.Background(), block("fail", "sh", "exit 3\n"))

			assert.Equal(t, 3, code)
			require.ErrorIs(t, err, executor.ErrCommandFailed)

			var failed *executor.CommandFailedError

			require.ErrorAs(t, err, &failed)
			assert.Equal(t, "fail", failed.Name)
			assert.Equal(t, 3, failed.ExitCode)
		})
	}
}

func TestRunUnsupported(t *testing.T) {
	t.Parallel()

	exec := executor.New(nil, nil, executor.Stdio{})

	for _, lang := range []string{"", "go", "python", "SH"} {
		code, err := exec.Run(context.Background(), block("x", lang, "print(1)\n"))

		assert.Equal(t, -1, code)
		require.ErrorIs(t, err, executor.ErrUnsupportedLanguage, lang)
		assert.NotErrorIs(t, err, executor.ErrCommandFailed)
	}
}

func TestRunInheritsEnvironment(t *testing.T) {
	t.Setenv("MDBABEL_TEST_VALUE", "inherited")

	for name, runner := range runners(t) {
		var stdout bytes.Buffer

		exec := executor.New(nil, runner, executor.Stdio{Out: &stdout})

		_, err := exec.Run(context.Background(), block("env", "sh", "echo \"$MDBABEL_TEST_VALUE\"\n"))

		require.NoError(t, err, name)
		assert.Equal(t, "inherited\n", stdout.String(), name)
	}
}

func TestRunStdin(t *testing.T) {
	t.Parallel()

	for name, runner := range runners(t) {
		var stdout bytes.Buffer

		exec := executor.New(nil, runner, executor.Stdio{In: strings.NewReader("piped\n"), Out: &stdout})

		_, err := exec.Run(context.Background(), block("cat", "sh", "read line; echo \"got $line\"\n"))

		require.NoError(t, err, name)
		assert.Equal(t, "got piped\n", stdout.String(), name)
	}
}

func TestRunDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("here\n"), 0o600))

	for name, runner := range runners(t) {
		var stdout bytes.Buffer

		exec := executor.New(nil, runner, executor.Stdio{Out: &stdout})

		b := block("dir", "sh", "cat marker.txt\n")
		b.Meta[mdbabel.MetaDir] = dir

		_, err := exec.Run(context.Background(), b)

		require.NoError(t, err, name)
		assert.Equal(t, "here\n", stdout.String(), name)
	}
}

func TestRunBashOnly(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	exec := executor.New(nil, executor.InterpRunner{}, executor.Stdio{Out: &stdout})

	_, err := exec.Run(context.Background(), block("arr", "bash", "a=(x y z)\necho ${a[1]}\n"))

	require.NoError(t, err)
	assert.Equal(t, "y\n", stdout.String())

	err = exec.Check(block("arr", "sh", "a=(x y z)\n"))
	require.Error(t, err)
}

func TestInterpRejectsNonShell(t *testing.T) {
	t.Parallel()

	reg := executor.NewRegistry()
	reg.Register(executor.Language{Name: "python", Program: "python3", Args: []string{"-c"}})

	_, err := executor.New(reg, executor.InterpRunner{}, executor.Stdio{}).Resolve(block("py", "python", ""))
	require.ErrorIs(t, err, executor.ErrUnsupportedLanguage)

	lang, err := executor.New(reg, executor.ProcessRunner{}, executor.Stdio{}).Resolve(block("py", "python", ""))
	require.NoError(t, err)
	assert.Equal(t, "python3", lang.Program)
}

func TestCheck(t *testing.T) {
	t.Parallel()

	exec := executor.New(nil, nil, executor.Stdio{})

	require.NoError(t, exec.Check(block("ok", "sh", "for i in 1 2; do echo $i; done\n")))

	err := exec.Check(block("broken", "bash", "if true; then\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `block "broken"`)

	err = exec.Check(block("other", "ruby", "puts 1\n"))
	require.ErrorIs(t, err, executor.ErrUnsupportedLanguage)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := executor.NewRegistry()
	assert.Equal(t, []string{"bash", "sh", "shell"}, reg.Names())

	sh, ok := reg.Resolve("shell")
	require.True(t, ok)
	assert.Equal(t, "sh", sh.Program)
	assert.Equal(t, []string{"-c"}, sh.Args)
	assert.True(t, sh.Shell)

	bash, ok := reg.Resolve("bash")
	require.True(t, ok)
	assert.Equal(t, "bash", bash.Program)
	assert.Equal(t, syntax.LangBash, bash.Variant)

	_, ok = reg.Resolve("zsh")
	assert.False(t, ok)
}

func TestParseLanguage(t *testing.T) {
	t.Parallel()

	lang, err := executor.ParseLanguage("python", "python3 -c")
	require.NoError(t, err)
	assert.Equal(t, executor.Language{Name: "python", Program: "python3", Args: []string{"-c"}}, lang)

	lang, err = executor.ParseLanguage("zsh-free", "/usr/bin/bash --norc -c")
	require.NoError(t, err)
	assert.True(t, lang.Shell)
	assert.Equal(t, syntax.LangBash, lang.Variant)
	assert.Equal(t, []string{"--norc", "-c"}, lang.Args)

	_, err = executor.ParseLanguage("nothing", "  ")
	require.Error(t, err)

	_, err = executor.ParseLanguage("quote", `sh -c "unterminated`)
	require.Error(t, err)
}

func TestRunStartFailure(t *testing.T) {
	t.Parallel()

	reg := executor.NewRegistry()
	reg.Register(executor.Language{Name: "missing", Program: "mdbabel-no-such-program", Args: []string{"-c"}})

	code, err := executor.New(reg, executor.ProcessRunner{}, executor.Stdio{}).Run(context.Background(), block("m", "missing", "x"))

	assert.Equal(t, -1, code)
	require.Error(t, err)
	assert.False(t, errors.Is(err, executor.ErrCommandFailed))
}
