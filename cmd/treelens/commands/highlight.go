package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treelens/pkg/highlight"
)

// tagColors maps highlight tags to terminal colors. Tags without an
// entry render unstyled.
//
//nolint:gochecknoglobals // static render palette.
var tagColors = map[string]*color.Color{
	"keyword":        color.New(color.FgMagenta),
	"string":         color.New(color.FgGreen),
	"number":         color.New(color.FgCyan),
	"constant":       color.New(color.FgCyan),
	"string-special": color.New(color.FgHiGreen),
	"type":           color.New(color.FgYellow),
	"function":       color.New(color.FgBlue),
	"function-call":  color.New(color.FgBlue),
	"property":       color.New(color.FgHiCyan),
	"comment":        color.New(color.FgHiBlack),
	"doc-comment":    color.New(color.FgHiBlack, color.Bold),
}

// NewHighlightCommand creates the highlight command.
func NewHighlightCommand() *cobra.Command {
	var (
		features []string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "highlight <file>",
		Short: "Print the file with highlighting applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer application.Close(cmd.Context()) //nolint:errcheck // exit path.

			langOverride, _ := cmd.Flags().GetString("language")

			session, src, err := application.openFile(cmd.Context(), args[0], langOverride)
			if err != nil {
				return err
			}

			var opts highlight.Options
			if len(features) > 0 {
				opts.Enabled = features
			}

			spans, err := session.Highlight(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), spans)
			}

			return renderHighlight(cmd.OutOrStdout(), src, spans)
		},
	}

	cmd.Flags().StringSliceVar(&features, "features", nil, "restrict to the named features")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit spans as JSON")

	return cmd
}

// renderHighlight writes src with the span tags applied as terminal
// colors. Spans overlapping an already-rendered region are skipped; the
// overlay resolves override layering before rendering.
func renderHighlight(w io.Writer, src []byte, spans []highlight.Span) error {
	var cursor uint

	for _, span := range spans {
		if span.Start < cursor || span.End > uint(len(src)) {
			continue
		}

		if span.Start > cursor {
			if _, err := w.Write(src[cursor:span.Start]); err != nil {
				return fmt.Errorf("render: %w", err)
			}
		}

		text := string(src[span.Start:span.End])

		if c, ok := tagColors[string(span.Tag)]; ok {
			if _, err := c.Fprint(w, text); err != nil {
				return fmt.Errorf("render: %w", err)
			}
		} else if _, err := io.WriteString(w, text); err != nil {
			return fmt.Errorf("render: %w", err)
		}

		cursor = span.End
	}

	if cursor < uint(len(src)) {
		if _, err := w.Write(src[cursor:]); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}

	return nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	return nil
}
