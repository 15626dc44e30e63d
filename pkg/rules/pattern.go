// Package rules implements the ordered-rule evaluator shared by the
// highlighting, indentation and navigation views: typed predicates matched
// against syntax nodes, and first-match-wins resolution over rule tables.
//
// Predicates are constructed once at configuration-load time and validated
// before first use; matching itself is a pure function of the tree.
package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
)

// Sentinel errors for rule tables and predicates.
var (
	// ErrInvalidPredicate reports a pattern that does not compile. Detected
	// at table-load time; runtime requests never hit this case.
	ErrInvalidPredicate = errors.New("rules: invalid predicate")

	// ErrNoCatchAll reports a table without a catch-all rule. Such tables
	// are partial: resolution may yield no action.
	ErrNoCatchAll = errors.New("rules: table lacks a catch-all rule")
)

// TypePattern matches a grammar type tag, either literally or by regular
// expression. Patterns wrapped in slashes compile as regexes ("/_body$/");
// anything else matches literally.
type TypePattern struct {
	raw string
	re  *regexp.Regexp
}

// Match reports whether kind satisfies the pattern.
func (p TypePattern) Match(kind string) bool {
	if p.re != nil {
		return p.re.MatchString(kind)
	}

	return p.raw == kind
}

// IsZero reports whether the pattern is unset (matches nothing).
func (p TypePattern) IsZero() bool { return p.raw == "" && p.re == nil }

// String returns the pattern source text.
func (p TypePattern) String() string { return p.raw }

// PatternCache compiles type patterns and memoizes the results. Rule
// tables share pattern strings heavily across entries, so compilation is
// deduplicated the same way compiled tree queries are.
type PatternCache struct {
	cache  map[string]TypePattern
	mu     sync.RWMutex
	hits   atomic.Int64
	misses atomic.Int64
}

// NewPatternCache creates an empty pattern cache.
func NewPatternCache() *PatternCache {
	return &PatternCache{cache: make(map[string]TypePattern)}
}

// Compile compiles a pattern, returning a cached result when available.
func (pc *PatternCache) Compile(pattern string) (TypePattern, error) {
	pc.mu.RLock()
	cached, ok := pc.cache[pattern]
	pc.mu.RUnlock()

	if ok {
		pc.hits.Add(1)

		return cached, nil
	}

	compiled, err := compilePattern(pattern)
	if err != nil {
		return TypePattern{}, err
	}

	pc.mu.Lock()
	pc.cache[pattern] = compiled
	pc.mu.Unlock()

	pc.misses.Add(1)

	return compiled, nil
}

// Stats returns the number of cache hits and misses.
func (pc *PatternCache) Stats() (hits, misses int64) {
	return pc.hits.Load(), pc.misses.Load()
}

func compilePattern(pattern string) (TypePattern, error) {
	const slash = "/"

	if len(pattern) > 1 && strings.HasPrefix(pattern, slash) && strings.HasSuffix(pattern, slash) {
		re, err := regexp.Compile(pattern[1 : len(pattern)-1])
		if err != nil {
			return TypePattern{}, fmt.Errorf("%w: %q: %w", ErrInvalidPredicate, pattern, err)
		}

		return TypePattern{raw: pattern, re: re}, nil
	}

	return TypePattern{raw: pattern}, nil
}

//nolint:gochecknoglobals // Shared compile cache; patterns repeat across tables.
var defaultPatterns = NewPatternCache()

// Compile compiles a type pattern through the shared cache.
func Compile(pattern string) (TypePattern, error) {
	return defaultPatterns.Compile(pattern)
}

// CacheStats returns the shared cache's hit and miss counters. Counters
// are cumulative for the process lifetime; callers track deltas.
func CacheStats() (hits, misses int64) {
	return defaultPatterns.Stats()
}

// MustCompile is Compile for statically known patterns; panics on error.
func MustCompile(pattern string) TypePattern {
	compiled, err := Compile(pattern)
	if err != nil {
		panic(err)
	}

	return compiled
}
