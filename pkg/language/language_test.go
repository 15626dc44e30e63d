package language_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/treelens/pkg/language"
)

func TestNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"go", "javascript", "solidity"}, language.Names())
}

func TestGrammar(t *testing.T) {
	t.Parallel()

	for _, name := range language.Names() {
		lang, err := language.Grammar(name)
		require.NoError(t, err, name)
		assert.NotNil(t, lang, name)
	}

	_, err := language.Grammar("fortran")
	require.ErrorIs(t, err, language.ErrUnsupported)
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		content  string
		want     string
	}{
		{"go file", "main.go", "package main\n\nfunc main() {}\n", "go"},
		{"javascript file", "index.js", "const x = 1;\n", "javascript"},
		{"solidity file", "token.sol", "pragma solidity ^0.8.0;\n", "solidity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := language.Detect(tt.filename, []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectUnsupported(t *testing.T) {
	t.Parallel()

	_, err := language.Detect("script.rb", []byte("puts 'hi'\n"))
	require.ErrorIs(t, err, language.ErrUnsupported)
}

func TestDetectBinary(t *testing.T) {
	t.Parallel()

	_, err := language.Detect("blob.bin", []byte{0x00, 0x01, 0x02, 0xff})
	require.ErrorIs(t, err, language.ErrBinary)
}
