package mdbabel

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// MetaDir is the info string key naming the block's working directory.
// Load resolves a relative value against the document's directory.
const MetaDir = "dir"

// Meta holds the key=value attributes following the language tag.
type Meta map[string]interface{}

// Get returns the attribute as a string, empty when missing.
func (m Meta) Get(name string) string {
	value, has := m[name]
	if !has {
		return ""
	}

	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprint(value)
}

// parseInfo splits a fence info string into the language tag and its
// attributes. Attributes are a JSON object, or shell words optionally wrapped
// in braces of which the key=value ones are kept. Unparsable attributes never
// cost the block: the tag is kept, the attributes are dropped and the cause is
// returned alongside.
func parseInfo(info string) (string, Meta, error) {
	info = strings.TrimSpace(info)

	lang, rest := info, ""
	if idx := strings.IndexAny(info, " \t{"); idx >= 0 {
		lang, rest = info[:idx], strings.TrimSpace(info[idx:])
	}

	meta := Meta{}

	if len(rest) == 0 {
		return lang, meta, nil
	}

	if strings.HasPrefix(rest, "{") && strings.HasSuffix(rest, "}") {
		inner := strings.TrimSpace(rest[1 : len(rest)-1])

		if len(inner) == 0 {
			return lang, meta, nil
		}

		if strings.HasPrefix(inner, `"`) {
			if err := json.Unmarshal([]byte(rest), &meta); err != nil {
				return lang, Meta{}, err
			}

			return lang, meta, nil
		}

		rest = inner
	}

	words, err := shlex.Split(rest)
	if err != nil {
		return lang, Meta{}, err
	}

	for _, word := range words {
		if key, value, ok := strings.Cut(word, "="); ok && len(key) != 0 {
			meta[key] = value
		}
	}

	return lang, meta, nil
}

// resolveDir makes a relative MetaDir absolute against base.
func (b *Block) resolveDir(base string) {
	dir := b.Meta.Get(MetaDir)
	if len(dir) == 0 || filepath.IsAbs(dir) {
		return
	}

	b.Meta[MetaDir] = filepath.Join(base, dir)
}
