package ruleset

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed schema.json
var schemaJSON []byte

//go:embed rulesets
var builtinFS embed.FS

// Builtin loads the embedded ruleset for a language.
func Builtin(language string, opts Options) (*Ruleset, error) {
	data, err := builtinFS.ReadFile("rulesets/" + language + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}

	return Load(data, opts)
}

// Languages lists the languages with embedded rulesets, sorted.
func Languages() []string {
	entries, err := builtinFS.ReadDir("rulesets")
	if err != nil {
		return nil
	}

	languages := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") {
			languages = append(languages, strings.TrimSuffix(path.Base(name), ".yaml"))
		}
	}

	sort.Strings(languages)

	return languages
}
