package lsp

import (
	"slices"
	"sort"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Sumatoshi-tech/treelens/pkg/highlight"
	"github.com/Sumatoshi-tech/treelens/pkg/syntax"
)

// tokenTypeNames lists every tag the built-in rulesets emit, in legend
// order. Spans with tags outside the legend are dropped.
//
//nolint:gochecknoglobals // static semantic-token legend.
var tokenTypeNames = []string{
	"keyword",
	"string",
	"number",
	"constant",
	"string-special",
	"type",
	"function",
	"function-call",
	"property",
	"comment",
	"doc-comment",
}

//nolint:gochecknoglobals // derived from the legend above.
var tokenTypeIndex = func() map[string]protocol.UInteger {
	index := make(map[string]protocol.UInteger, len(tokenTypeNames))
	for i, name := range tokenTypeNames {
		index[name] = protocol.UInteger(i) //nolint:gosec // legend is tiny.
	}

	return index
}()

func tokenTypes() []string { return slices.Clone(tokenTypeNames) }

// tokenSegment is one single-line token before delta encoding.
type tokenSegment struct {
	line    uint
	char    uint
	length  uint
	typeIdx protocol.UInteger
}

// encodeSemanticTokens converts highlight spans into the LSP semantic
// token quintuples: deltaLine, deltaStartChar, length, tokenType,
// tokenModifiers. Multi-line spans are split per line first, since
// clients reject tokens crossing line boundaries.
func encodeSemanticTokens(spans []highlight.Span, lines *syntax.LineIndex) []protocol.UInteger {
	var segments []tokenSegment

	for _, span := range spans {
		typeIdx, ok := tokenTypeIndex[string(span.Tag)]
		if !ok || span.End <= span.Start {
			continue
		}

		startRow := lines.RowOf(span.Start)
		endRow := lines.RowOf(span.End - 1)

		for row := startRow; row <= endRow; row++ {
			segStart := max(span.Start, lines.LineStart(row))
			segEnd := min(span.End, lines.LineEnd(row))

			if segEnd <= segStart {
				continue
			}

			segments = append(segments, tokenSegment{
				line:    row,
				char:    segStart - lines.LineStart(row),
				length:  segEnd - segStart,
				typeIdx: typeIdx,
			})
		}
	}

	sort.SliceStable(segments, func(i, j int) bool {
		if segments[i].line != segments[j].line {
			return segments[i].line < segments[j].line
		}

		return segments[i].char < segments[j].char
	})

	data := make([]protocol.UInteger, 0, len(segments)*5)

	var prevLine, prevChar uint

	for _, seg := range segments {
		deltaLine := seg.line - prevLine

		deltaChar := seg.char
		if deltaLine == 0 {
			deltaChar = seg.char - prevChar
		}

		data = append(data,
			protocol.UInteger(deltaLine), //nolint:gosec // rows fit in uint32.
			protocol.UInteger(deltaChar), //nolint:gosec // columns fit in uint32.
			protocol.UInteger(seg.length), //nolint:gosec // spans fit in uint32.
			seg.typeIdx,
			0,
		)

		prevLine, prevChar = seg.line, seg.char
	}

	return data
}
