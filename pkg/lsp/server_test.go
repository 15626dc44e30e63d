package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Sumatoshi-tech/treelens/pkg/highlight"
	"github.com/Sumatoshi-tech/treelens/pkg/outline"
	"github.com/Sumatoshi-tech/treelens/pkg/syntax"
)

const fixtureSource = "fn main() {\n  call(arg);\n}\n"

func fixtureLines() *syntax.LineIndex {
	return syntax.NewLineIndex([]byte(fixtureSource))
}

func TestEncodeSemanticTokens(t *testing.T) {
	t.Parallel()

	spans := []highlight.Span{
		{Start: 0, End: 2, Tag: "keyword", Feature: "keywords"},
		{Start: 14, End: 18, Tag: "function-call", Feature: "calls"},
	}

	data := encodeSemanticTokens(spans, fixtureLines())

	want := []protocol.UInteger{
		0, 0, 2, 0, 0, // line 0, char 0, "fn", keyword.
		1, 2, 4, 7, 0, // line 1, char 2, "call", function-call.
	}
	assert.Equal(t, want, data)
}

func TestEncodeSemanticTokensSplitsMultiLine(t *testing.T) {
	t.Parallel()

	spans := []highlight.Span{
		{Start: 4, End: 18, Tag: "comment", Feature: "comments"},
	}

	data := encodeSemanticTokens(spans, fixtureLines())

	want := []protocol.UInteger{
		0, 4, 7, 9, 0, // line 0: "ain() {".
		1, 0, 6, 9, 0, // line 1: "  call".
	}
	assert.Equal(t, want, data)
}

func TestEncodeSemanticTokensDropsUnknownTags(t *testing.T) {
	t.Parallel()

	spans := []highlight.Span{
		{Start: 0, End: 2, Tag: "no-such-tag", Feature: "custom"},
		{Start: 3, End: 7, Tag: "function", Feature: "functions"},
	}

	data := encodeSemanticTokens(spans, fixtureLines())

	want := []protocol.UInteger{
		0, 3, 4, 6, 0,
	}
	assert.Equal(t, want, data)
}

func TestEncodeSemanticTokensOrdersSegments(t *testing.T) {
	t.Parallel()

	// A span covering two lines followed by a span on the first of them;
	// encoding must re-sort the split segments before delta encoding.
	spans := []highlight.Span{
		{Start: 10, End: 18, Tag: "comment", Feature: "comments"},
		{Start: 12, End: 14, Tag: "keyword", Feature: "keywords"},
	}

	data := encodeSemanticTokens(spans, fixtureLines())

	want := []protocol.UInteger{
		0, 10, 1, 9, 0, // line 0, char 10, "{".
		1, 0, 6, 9, 0, //  line 1, char 0, "  call".
		0, 0, 2, 0, 0, //  line 1, char 0, leading blanks as keyword.
	}
	assert.Equal(t, want, data)
}

func TestDocumentSymbols(t *testing.T) {
	t.Parallel()

	items := []outline.Item{
		{Category: outline.CategoryDefinition, Name: "main", Start: 0, End: 26},
		{Category: outline.CategoryString, Name: "", Start: 19, End: 22},
		{Category: outline.CategoryDefinition, Name: "", Start: 14, End: 23},
	}

	symbols := documentSymbols(items, fixtureLines())

	require.Len(t, symbols, 2)

	assert.Equal(t, "main", symbols[0].Name)
	assert.Equal(t, protocol.SymbolKindFunction, symbols[0].Kind)
	assert.Equal(t, protocol.Position{Line: 0, Character: 0}, symbols[0].Range.Start)
	assert.Equal(t, protocol.Position{Line: 2, Character: 1}, symbols[0].Range.End)

	assert.Equal(t, "(anonymous)", symbols[1].Name)
}

func TestIndentEdit(t *testing.T) {
	t.Parallel()

	lines := fixtureLines()

	edit, changed := indentEdit(lines, 1, 4)
	require.True(t, changed)
	assert.Equal(t, protocol.Position{Line: 1, Character: 0}, edit.Range.Start)
	assert.Equal(t, protocol.Position{Line: 1, Character: 2}, edit.Range.End)
	assert.Equal(t, "    ", edit.NewText)

	_, changed = indentEdit(lines, 1, 2)
	assert.False(t, changed)
}

func TestIndentEditBlankLine(t *testing.T) {
	t.Parallel()

	lines := syntax.NewLineIndex([]byte("a\n\nb\n"))

	edit, changed := indentEdit(lines, 1, 2)
	require.True(t, changed)
	assert.Equal(t, protocol.Position{Line: 1, Character: 0}, edit.Range.Start)
	assert.Equal(t, protocol.Position{Line: 1, Character: 0}, edit.Range.End)
	assert.Equal(t, "  ", edit.NewText)
}

func TestWholeChangeText(t *testing.T) {
	t.Parallel()

	text, ok := wholeChangeText(protocol.TextDocumentContentChangeEventWhole{Text: "abc"})
	require.True(t, ok)
	assert.Equal(t, "abc", text)

	text, ok = wholeChangeText(map[string]any{"text": "def"})
	require.True(t, ok)
	assert.Equal(t, "def", text)

	_, ok = wholeChangeText(42)
	assert.False(t, ok)
}

func TestDocumentStore(t *testing.T) {
	t.Parallel()

	store := NewDocumentStore()

	_, ok := store.Get("file:///a.go")
	assert.False(t, ok)

	store.Set("file:///a.go", &document{language: "go"})

	doc, ok := store.Get("file:///a.go")
	require.True(t, ok)
	assert.Equal(t, "go", doc.language)

	store.Delete("file:///a.go")

	_, ok = store.Get("file:///a.go")
	assert.False(t, ok)
}
