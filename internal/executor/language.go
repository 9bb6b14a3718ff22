package executor

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/shlex"
	"mvdan.cc/sh/v3/syntax"
)

// Language describes how blocks with a given tag are run: the program is
// invoked with Args followed by the block body.
type Language struct {
	Name    string
	Program string
	Args    []string

	// Shell is set for the POSIX shell family, which can be syntax checked
	// and run by the embedded interpreter using Variant.
	Shell   bool
	Variant syntax.LangVariant
}

// Registry maps language tags to languages.
type Registry struct {
	langs map[string]Language
}

// NewRegistry returns a registry holding the default shells: sh and shell run
// through sh, bash through bash.
func NewRegistry() *Registry {
	reg := &Registry{langs: make(map[string]Language)}

	reg.Register(shellLanguage("sh", "sh"))
	reg.Register(shellLanguage("shell", "sh"))
	reg.Register(shellLanguage("bash", "bash"))

	return reg
}

// Register adds or replaces a language.
func (r *Registry) Register(lang Language) {
	r.langs[lang.Name] = lang
}

// Resolve returns the language registered for tag.
func (r *Registry) Resolve(tag string) (Language, bool) {
	lang, ok := r.langs[tag]

	return lang, ok
}

// Names returns the registered tags, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.langs))
	for name := range r.langs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ParseLanguage builds a language from a command line such as "python3 -c".
// Commands whose program is a known shell are flagged as shells.
func ParseLanguage(name, command string) (Language, error) {
	words, err := shlex.Split(command)
	if err != nil {
		return Language{}, fmt.Errorf("language %s: %w", name, err)
	}

	if len(words) == 0 {
		return Language{}, fmt.Errorf("language %s: %w", name, errEmptyCommand)
	}

	lang := Language{Name: name, Program: words[0], Args: words[1:]}

	if variant, ok := shellVariant(words[0]); ok {
		lang.Shell = true
		lang.Variant = variant
	}

	return lang, nil
}

func shellLanguage(name, program string) Language {
	variant, _ := shellVariant(program)

	return Language{Name: name, Program: program, Args: []string{"-c"}, Shell: true, Variant: variant}
}

func shellVariant(program string) (syntax.LangVariant, bool) {
	switch strings.TrimSuffix(filepath.Base(program), ".exe") {
	case "sh", "dash", "ash":
		return syntax.LangPOSIX, true
	case "bash":
		return syntax.LangBash, true
	case "mksh":
		return syntax.LangMirBSDKorn, true
	default:
		return syntax.LangPOSIX, false
	}
}
