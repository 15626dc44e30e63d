// Package language maps language names to their tree-sitter grammars and
// detects a document's language from its filename and content.
package language

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unsafe"

	golang "github.com/alexaandru/go-sitter-forest/go"
	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/alexaandru/go-sitter-forest/solidity"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/src-d/enry/v2"
)

// Sentinel errors for language resolution.
var (
	// ErrUnsupported reports a language without a bundled grammar.
	ErrUnsupported = errors.New("language: unsupported")

	// ErrBinary reports binary content, which is never parsed.
	ErrBinary = errors.New("language: binary content")
)

// grammarFuncs maps language names to their tree-sitter GetLanguage
// functions. Names match the embedded ruleset names.
//
//nolint:gochecknoglobals // static grammar registry.
var grammarFuncs = map[string]func() unsafe.Pointer{
	"go":         golang.GetLanguage,
	"javascript": javascript.GetLanguage,
	"solidity":   solidity.GetLanguage,
}

//nolint:gochecknoglobals // grammar construction is cached process-wide.
var grammarCache sync.Map

// Grammar returns the tree-sitter grammar for the given language name.
func Grammar(name string) (*sitter.Language, error) {
	if cached, ok := grammarCache.Load(name); ok {
		lang, castOK := cached.(*sitter.Language)
		if castOK {
			return lang, nil
		}
	}

	fn, ok := grammarFuncs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, name)
	}

	lang := sitter.NewLanguage(fn())
	grammarCache.Store(name, lang)

	return lang, nil
}

// Names returns the supported language names, sorted.
func Names() []string {
	names := make([]string, 0, len(grammarFuncs))
	for name := range grammarFuncs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Supported reports whether the language has a bundled grammar.
func Supported(name string) bool {
	_, ok := grammarFuncs[name]

	return ok
}

// Detect identifies the document's language from its filename and content.
func Detect(filename string, content []byte) (string, error) {
	if enry.IsBinary(content) {
		return "", fmt.Errorf("%w: %s", ErrBinary, filepath.Base(filename))
	}

	detected := enry.GetLanguage(filepath.Base(filename), content)
	name := strings.ToLower(detected)

	if !Supported(name) {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, detected)
	}

	return name, nil
}
