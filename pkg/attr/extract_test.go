// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package attr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexstoick/pandoc-xnos/pkg/ast"
)

func TestExtractSingleElement(t *testing.T) {
	run := []any{ast.Str("figure."), ast.Space(), ast.Str("{#fig:one}")}

	a, rest, err := Extract(run, 2)
	require.NoError(t, err)
	assert.Equal(t, "fig:one", a.ID)
	require.Len(t, rest, 2)
	assert.Equal(t, "figure.", rest[0].(*ast.Node).Content)
}

func TestExtractSpanningElements(t *testing.T) {
	// Markdown splits the attribute string at spaces.
	run := []any{ast.Str("{#fig:one"), ast.Space(), ast.Str("width=50%}tail")}

	a, rest, err := Extract(run, 0)
	require.NoError(t, err)
	assert.Equal(t, "fig:one", a.ID)
	v, _ := a.Get("width")
	assert.Equal(t, "50%", v)

	require.Len(t, rest, 1)
	assert.Equal(t, "tail", rest[0].(*ast.Node).Content)
}

func TestExtractQuotedBrace(t *testing.T) {
	run := []any{ast.Str(`{caption="a}b"}`)}

	a, rest, err := Extract(run, 0)
	require.NoError(t, err)
	v, _ := a.Get("caption")
	assert.Equal(t, "a}b", v)
	assert.Empty(t, rest)
}

func TestExtractQuotedElements(t *testing.T) {
	// A Quoted element inside the attribute run stringifies with its marks.
	run := []any{
		ast.Str("{caption="),
		ast.New("Quoted", ast.New("DoubleQuote"), []any{ast.Str("hi")}),
		ast.Str("}"),
	}

	a, _, err := Extract(run, 0)
	require.NoError(t, err)
	v, _ := a.Get("caption")
	assert.Equal(t, "hi", v)
}

func TestExtractPreservesHead(t *testing.T) {
	run := []any{ast.Str("before"), ast.Str("{#x}")}

	_, rest, err := Extract(run, 1)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "before", rest[0].(*ast.Node).Content)
}

func TestExtractNotFound(t *testing.T) {
	tests := []struct {
		name string
		run  []any
		n    int
	}{
		{"no brace", []any{ast.Str("plain")}, 0},
		{"unclosed", []any{ast.Str("{#x"), ast.Space(), ast.Str("y")}, 0},
		{"index out of range", []any{ast.Str("{#x}")}, 3},
		{"not a str", []any{ast.Space()}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rest, err := Extract(tt.run, tt.n)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.Equal(t, tt.run, rest, "run should be untouched on failure")
		})
	}
}
