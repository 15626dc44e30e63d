package ruleset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/treelens/pkg/highlight"
	"github.com/Sumatoshi-tech/treelens/pkg/outline"
	"github.com/Sumatoshi-tech/treelens/pkg/rules"
	"github.com/Sumatoshi-tech/treelens/pkg/ruleset"
	"github.com/Sumatoshi-tech/treelens/pkg/syntax"
)

const testRuleset = `
language: test
indent:
  width: 2
  rules:
    - name: block-body
      match: { kind: block }
      anchor: parent-bol
      offset: 2
    - name: default
      match: { always: true }
      anchor: column-zero
      offset: 0
highlight:
  features:
    - name: keywords
      rules:
        - name: kw
          match: { kind: fn }
          tag: keyword
    - name: calls
      rules:
        - name: callee
          match:
            query:
              kind: call_expression
              children:
                - { kind: identifier, field: function, capture: callee }
          tag: function-call
          capture: callee
outline:
  - { match: function_definition, category: definition, name: { field: name } }
`

// fixture builds the tree for:
//
//	fn main() {
//	  call(arg);
//	}
func fixture() *syntax.MemTree {
	root := syntax.Mem("source_file", 0, 26,
		syntax.Mem("function_definition", 0, 26,
			syntax.Mem("fn", 0, 2).Anon(),
			syntax.Mem("identifier", 3, 7).WithField("name"),
			syntax.Mem("parameter_list", 7, 9).WithField("parameters"),
			syntax.Mem("block", 10, 26,
				syntax.Mem("{", 10, 11).Anon(),
				syntax.Mem("expression_statement", 14, 24,
					syntax.Mem("call_expression", 14, 23,
						syntax.Mem("identifier", 14, 18).WithField("function"),
						syntax.Mem("argument_list", 18, 23,
							syntax.Mem("identifier", 19, 22),
						).WithField("arguments"),
					),
				),
				syntax.Mem("}", 25, 26).Anon(),
			).WithField("body"),
		),
	)

	return syntax.NewMemTree("fn main() {\n  call(arg);\n}\n", root)
}

func TestLoadEndToEnd(t *testing.T) {
	t.Parallel()

	rs, err := ruleset.Load([]byte(testRuleset), ruleset.Options{})
	require.NoError(t, err)

	assert.Equal(t, "test", rs.Language)
	assert.Equal(t, 2, rs.IndentWidth)

	tree := fixture()

	// Indent: block rule is 2 levels of width 2.
	column, err := rs.Calculator.IndentFor(tree, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, column)

	// Highlight: literal kind rule plus a capture-targeted query rule.
	spans, err := highlight.Project(tree, rs.Features, highlight.Options{})
	require.NoError(t, err)

	want := []highlight.Span{
		{Start: 0, End: 2, Tag: "keyword", Feature: "keywords"},
		{Start: 14, End: 18, Tag: "function-call", Feature: "calls"},
	}
	assert.Equal(t, want, spans)

	// Outline: name extracted from the declared field.
	items, err := rs.Classifier.Outline(tree, syntax.ByteRange{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, outline.CategoryDefinition, items[0].Category)
	assert.Equal(t, "main", items[0].Name)
}

func TestLoadIndentWidthOverride(t *testing.T) {
	t.Parallel()

	rs, err := ruleset.Load([]byte(testRuleset), ruleset.Options{IndentWidth: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, rs.IndentWidth)

	column, err := rs.Calculator.IndentFor(fixture(), 1)
	require.NoError(t, err)
	assert.Equal(t, 6, column)
}

func TestLoadSchemaViolation(t *testing.T) {
	t.Parallel()

	bad := `
language: test
indent:
  rules:
    - match: { kind: block }
      anchor: sideways
`

	_, err := ruleset.Load([]byte(bad), ruleset.Options{})
	require.ErrorIs(t, err, ruleset.ErrSchema)

	violations, err := ruleset.Check([]byte(bad))
	require.NoError(t, err)
	assert.NotEmpty(t, violations)
}

func TestLoadInvalidPattern(t *testing.T) {
	t.Parallel()

	bad := `
language: test
highlight:
  features:
    - name: broken
      rules:
        - match: { kind: "/[unclosed/" }
          tag: keyword
`

	_, err := ruleset.Load([]byte(bad), ruleset.Options{})
	require.ErrorIs(t, err, rules.ErrInvalidPredicate)
}

func TestLoadMissingCatchAll(t *testing.T) {
	t.Parallel()

	partial := `
language: test
indent:
  rules:
    - match: { kind: block }
      anchor: parent-bol
      offset: 1
`

	_, err := ruleset.Load([]byte(partial), ruleset.Options{})
	require.ErrorIs(t, err, rules.ErrNoCatchAll)
}

func TestBuiltinLanguages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"go", "javascript", "solidity"}, ruleset.Languages())

	for _, language := range ruleset.Languages() {
		rs, err := ruleset.Builtin(language, ruleset.Options{})
		require.NoError(t, err, "builtin %s", language)

		assert.Equal(t, language, rs.Language)
		assert.NotNil(t, rs.Features, "builtin %s features", language)
		assert.NotNil(t, rs.Calculator, "builtin %s indent", language)
		assert.NotNil(t, rs.Classifier, "builtin %s outline", language)
	}

	_, err := ruleset.Builtin("fortran", ruleset.Options{})
	require.ErrorIs(t, err, ruleset.ErrUnknownLanguage)
}

func TestBuiltinJavaScriptChainKinds(t *testing.T) {
	t.Parallel()

	// The javascript ruleset flattens member chains; loading must succeed
	// and the calculator must be usable on an arbitrary tree.
	rs, err := ruleset.Builtin("javascript", ruleset.Options{})
	require.NoError(t, err)

	column, err := rs.Calculator.IndentFor(fixture(), 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, column, 0)
}
