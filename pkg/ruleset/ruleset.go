// Package ruleset loads grammar rule tables from YAML into the typed
// predicates and tables the engine consumes. Files are validated against a
// JSON schema at load time, so malformed tables surface to the integrator
// before any traversal. Built-in rulesets ship embedded.
package ruleset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/treelens/pkg/highlight"
	"github.com/Sumatoshi-tech/treelens/pkg/indent"
	"github.com/Sumatoshi-tech/treelens/pkg/outline"
	"github.com/Sumatoshi-tech/treelens/pkg/rules"
)

// Sentinel errors for ruleset loading.
var (
	// ErrSchema reports a file that does not conform to the ruleset schema.
	ErrSchema = errors.New("ruleset: schema violation")

	// ErrEmptyMatch reports a match block with no predicate keys.
	ErrEmptyMatch = errors.New("ruleset: empty match block")

	// ErrUnknownAnchor reports an unrecognized indentation anchor name.
	ErrUnknownAnchor = errors.New("ruleset: unknown anchor")

	// ErrUnknownCategory reports an unrecognized outline category name.
	ErrUnknownCategory = errors.New("ruleset: unknown category")

	// ErrUnknownLanguage reports a language without a built-in ruleset.
	ErrUnknownLanguage = errors.New("ruleset: no built-in ruleset")
)

// defaultIndentWidth applies when neither the file nor the caller sets one.
const defaultIndentWidth = 4

// wildcardKind marks an ancestor-chain element that matches any type.
const wildcardKind = "_"

// Ruleset is one language's loaded configuration: the three views' rule
// tables, compiled and validated. Immutable after load.
type Ruleset struct {
	Language    string
	IndentWidth int
	Features    *highlight.FeatureSet
	Calculator  *indent.Calculator
	Classifier  *outline.Classifier
}

// Options adjusts loading. A positive IndentWidth overrides the file's
// declared width.
type Options struct {
	IndentWidth int
}

// YAML document shapes. Field names mirror the schema.
type fileDoc struct {
	Language  string       `yaml:"language"`
	Indent    indentDoc    `yaml:"indent"`
	Highlight highlightDoc `yaml:"highlight"`
	Outline   []outlineDoc `yaml:"outline"`
}

type indentDoc struct {
	Width        int             `yaml:"width"`
	ChainKinds   []string        `yaml:"chain-kinds"`
	Rules        []indentRuleDoc `yaml:"rules"`
	Continuation []indentRuleDoc `yaml:"continuation"`
}

type indentRuleDoc struct {
	Name          string   `yaml:"name"`
	Match         matchDoc `yaml:"match"`
	Anchor        string   `yaml:"anchor"`
	Offset        int      `yaml:"offset"`
	OffsetColumns int      `yaml:"offset-columns"`
}

type highlightDoc struct {
	Features []featureDoc `yaml:"features"`
}

type featureDoc struct {
	Name     string       `yaml:"name"`
	Override bool         `yaml:"override"`
	Rules    []tagRuleDoc `yaml:"rules"`
}

type tagRuleDoc struct {
	Name    string   `yaml:"name"`
	Match   matchDoc `yaml:"match"`
	Tag     string   `yaml:"tag"`
	Capture string   `yaml:"capture"`
}

type outlineDoc struct {
	Match    string  `yaml:"match"`
	Category string  `yaml:"category"`
	Name     nameDoc `yaml:"name"`
}

type nameDoc struct {
	Field        string `yaml:"field"`
	Child        *int   `yaml:"child"`
	FirstLiteral bool   `yaml:"first-literal"`
}

// matchDoc is one predicate block. All present keys are conjoined.
type matchDoc struct {
	Kind      string    `yaml:"kind"`
	Parent    string    `yaml:"parent"`
	Field     string    `yaml:"field"`
	Ancestors []*string `yaml:"ancestors"`
	Text      string    `yaml:"text"`
	Capture   string    `yaml:"capture"`
	Query     *queryDoc `yaml:"query"`
	Not       *matchDoc `yaml:"not"`
	Always    bool      `yaml:"always"`
	NoNode    bool      `yaml:"no-node"`
}

type queryDoc struct {
	Kind     string      `yaml:"kind"`
	Field    string      `yaml:"field"`
	Capture  string      `yaml:"capture"`
	Anchored bool        `yaml:"anchored"`
	Children []*queryDoc `yaml:"children"`
}

// Check validates raw YAML against the ruleset schema and returns the
// violations, one human-readable line each. An empty slice means valid.
func Check(data []byte) ([]string, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("ruleset: parse: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("ruleset: schema: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		violations = append(violations, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}

	return violations, nil
}

// Load parses, schema-checks and compiles a YAML ruleset.
func Load(data []byte, opts Options) (*Ruleset, error) {
	violations, err := Check(data)
	if err != nil {
		return nil, err
	}

	if len(violations) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrSchema, strings.Join(violations, "; "))
	}

	var doc fileDoc

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("ruleset: parse: %w", err)
	}

	return build(doc, opts)
}

// LoadFile loads a ruleset from disk.
func LoadFile(path string, opts Options) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ruleset: %w", err)
	}

	return Load(data, opts)
}

func build(doc fileDoc, opts Options) (*Ruleset, error) {
	width := opts.IndentWidth
	if width <= 0 {
		width = doc.Indent.Width
	}

	if width <= 0 {
		width = defaultIndentWidth
	}

	features, err := buildFeatures(doc.Highlight.Features)
	if err != nil {
		return nil, err
	}

	calculator, err := buildCalculator(doc.Indent, width)
	if err != nil {
		return nil, err
	}

	classifier, err := buildClassifier(doc.Outline)
	if err != nil {
		return nil, err
	}

	return &Ruleset{
		Language:    doc.Language,
		IndentWidth: width,
		Features:    features,
		Calculator:  calculator,
		Classifier:  classifier,
	}, nil
}

func buildFeatures(docs []featureDoc) (*highlight.FeatureSet, error) {
	features := make([]highlight.Feature, 0, len(docs))

	for _, fd := range docs {
		tableRules := make([]rules.Rule[highlight.Action], 0, len(fd.Rules))

		for _, rd := range fd.Rules {
			pred, err := buildPredicate(rd.Match)
			if err != nil {
				return nil, fmt.Errorf("feature %q, rule %q: %w", fd.Name, rd.Name, err)
			}

			tableRules = append(tableRules, rules.Rule[highlight.Action]{
				Name: rd.Name,
				When: pred,
				Action: highlight.Action{
					Tag:     highlight.Tag(rd.Tag),
					Capture: rd.Capture,
				},
			})
		}

		features = append(features, highlight.Feature{
			Name:     fd.Name,
			Override: fd.Override,
			Table:    rules.NewTable(fd.Name, tableRules...),
		})
	}

	return highlight.NewFeatureSet(features...)
}

func buildCalculator(doc indentDoc, width int) (*indent.Calculator, error) {
	if len(doc.Rules) == 0 {
		return nil, nil //nolint:nilnil // a ruleset may omit indentation entirely
	}

	table, err := buildIndentTable("indent", doc.Rules, width)
	if err != nil {
		return nil, err
	}

	var continuation *rules.Table[indent.Action]

	if len(doc.Continuation) > 0 {
		continuation, err = buildIndentTable("continuation", doc.Continuation, width)
		if err != nil {
			return nil, err
		}
	}

	return indent.NewCalculator(table, indent.Options{
		ChainKinds:   doc.ChainKinds,
		Continuation: continuation,
	})
}

func buildIndentTable(name string, docs []indentRuleDoc, width int) (*rules.Table[indent.Action], error) {
	tableRules := make([]rules.Rule[indent.Action], 0, len(docs))

	for _, rd := range docs {
		pred, err := buildPredicate(rd.Match)
		if err != nil {
			return nil, fmt.Errorf("%s rule %q: %w", name, rd.Name, err)
		}

		anchor, err := parseAnchor(rd.Anchor)
		if err != nil {
			return nil, fmt.Errorf("%s rule %q: %w", name, rd.Name, err)
		}

		tableRules = append(tableRules, rules.Rule[indent.Action]{
			Name: rd.Name,
			When: pred,
			Action: indent.Action{
				Anchor: anchor,
				Offset: rd.Offset*width + rd.OffsetColumns,
			},
		})
	}

	return rules.NewTable(name, tableRules...), nil
}

func buildClassifier(docs []outlineDoc) (*outline.Classifier, error) {
	entries := make([]outline.Entry, 0, len(docs))

	for _, od := range docs {
		pattern, err := rules.Compile(od.Match)
		if err != nil {
			return nil, fmt.Errorf("outline entry %q: %w", od.Match, err)
		}

		category, err := parseCategory(od.Category)
		if err != nil {
			return nil, fmt.Errorf("outline entry %q: %w", od.Match, err)
		}

		entries = append(entries, outline.Entry{
			Pattern:  pattern,
			Category: category,
			Name: outline.NameSpec{
				Field:        od.Name.Field,
				ChildIndex:   od.Name.Child,
				FirstLiteral: od.Name.FirstLiteral,
			},
		})
	}

	return outline.NewClassifier(entries...), nil
}

func parseAnchor(name string) (indent.Anchor, error) {
	switch name {
	case "column-zero":
		return indent.AnchorColumnZero, nil
	case "parent-bol":
		return indent.AnchorParentBOL, nil
	case "standalone-parent":
		return indent.AnchorStandaloneParent, nil
	case "grandparent":
		return indent.AnchorGrandparent, nil
	case "prev-adaptive-prefix":
		return indent.AnchorPrevAdaptivePrefix, nil
	case "token":
		// Continuation tables anchor at the multi-line token itself;
		// any non-zero anchor resolves there, parent-bol by convention.
		return indent.AnchorParentBOL, nil
	default:
		return indent.AnchorColumnZero, fmt.Errorf("%w: %q", ErrUnknownAnchor, name)
	}
}

func parseCategory(name string) (outline.Category, error) {
	switch name {
	case "definition":
		return outline.CategoryDefinition, nil
	case "expression":
		return outline.CategoryExpression, nil
	case "statement":
		return outline.CategoryStatement, nil
	case "comment":
		return outline.CategoryComment, nil
	case "string":
		return outline.CategoryString, nil
	case "text":
		return outline.CategoryText, nil
	default:
		return outline.CategoryNone, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
}
