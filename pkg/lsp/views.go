package lsp

import (
	"context"
	"errors"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Sumatoshi-tech/treelens/pkg/engine"
	"github.com/Sumatoshi-tech/treelens/pkg/highlight"
	"github.com/Sumatoshi-tech/treelens/pkg/outline"
	"github.com/Sumatoshi-tech/treelens/pkg/syntax"
)

func (srv *Server) documentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc, ok := srv.store.Get(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil // protocol expects null for unknown documents.
	}

	items, err := doc.session.Outline(context.Background(), syntax.ByteRange{})
	if err != nil {
		return nil, err
	}

	return documentSymbols(items, doc.lines), nil
}

// documentSymbols converts outline definitions into flat LSP symbols.
// Non-definition categories stay out of the symbol tree; editors surface
// those through highlighting instead.
func documentSymbols(items []outline.Item, lines *syntax.LineIndex) []protocol.DocumentSymbol {
	symbols := make([]protocol.DocumentSymbol, 0, len(items))

	for _, item := range items {
		if item.Category != outline.CategoryDefinition {
			continue
		}

		name := item.Name
		if name == "" {
			name = "(anonymous)"
		}

		rng := rangeFor(item.Start, item.End, lines)

		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           name,
			Kind:           protocol.SymbolKindFunction,
			Range:          rng,
			SelectionRange: rng,
		})
	}

	return symbols
}

func rangeFor(start, end uint, lines *syntax.LineIndex) protocol.Range {
	return protocol.Range{
		Start: positionFor(start, lines),
		End:   positionFor(end, lines),
	}
}

func positionFor(offset uint, lines *syntax.LineIndex) protocol.Position {
	row := lines.RowOf(offset)

	return protocol.Position{
		Line:      protocol.UInteger(row), //nolint:gosec // rows fit in uint32.
		Character: protocol.UInteger(offset - lines.LineStart(row)), //nolint:gosec // columns fit in uint32.
	}
}

func (srv *Server) semanticTokensFull(
	_ *glsp.Context, params *protocol.SemanticTokensParams,
) (*protocol.SemanticTokens, error) {
	doc, ok := srv.store.Get(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil // protocol expects null for unknown documents.
	}

	spans, err := doc.session.Highlight(context.Background(), highlight.Options{})
	if err != nil {
		return nil, err
	}

	return &protocol.SemanticTokens{
		Data: encodeSemanticTokens(spans, doc.lines),
	}, nil
}

func (srv *Server) onTypeFormatting(
	_ *glsp.Context, params *protocol.DocumentOnTypeFormattingParams,
) ([]protocol.TextEdit, error) {
	doc, ok := srv.store.Get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	row := uint(params.Position.Line)

	column, err := doc.session.Indent(context.Background(), row)
	if err != nil {
		if errors.Is(err, engine.ErrNoIndentRules) {
			return nil, nil
		}

		return nil, err
	}

	edit, changed := indentEdit(doc.lines, row, column)
	if !changed {
		return nil, nil
	}

	return []protocol.TextEdit{edit}, nil
}

// indentEdit replaces the row's leading whitespace with column spaces.
// Reports false when the line already sits at the requested column.
func indentEdit(lines *syntax.LineIndex, row uint, column int) (protocol.TextEdit, bool) {
	lineStart := lines.LineStart(row)

	// A fully blank line is all prefix; otherwise the prefix ends at the
	// first non-blank character.
	prefixLen := lines.LineEnd(row) - lineStart

	if offset, current, ok := lines.FirstNonBlank(row); ok {
		prefixLen = offset - lineStart

		if int(current) == column {
			return protocol.TextEdit{}, false
		}
	}

	line := protocol.UInteger(row) //nolint:gosec // rows fit in uint32.

	return protocol.TextEdit{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: 0},
			End:   protocol.Position{Line: line, Character: protocol.UInteger(prefixLen)}, //nolint:gosec // columns fit in uint32.
		},
		NewText: strings.Repeat(" ", column),
	}, true
}
