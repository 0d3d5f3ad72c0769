// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexstoick/pandoc-xnos/pkg/ast"
	"github.com/alexstoick/pandoc-xnos/pkg/attr"
)

// inlinesOf digs the inline run out of the first block.
func inlinesOf(t *testing.T, v any) []any {
	t.Helper()
	blocks, ok := v.([]any)
	require.True(t, ok)
	require.NotEmpty(t, blocks)
	run, ok := blocks[0].(*ast.Node).Inlines()
	require.True(t, ok)
	return run
}

// refToken asserts the node is a Ref and returns its attributes and label.
func refToken(t *testing.T, v any) (attr.Attr, string) {
	t.Helper()
	n, ok := v.(*ast.Node)
	require.True(t, ok)
	require.Equal(t, "Ref", n.Tag)
	content := n.Content.([]any)
	a, err := attr.FromPandoc(content[0])
	require.NoError(t, err)
	return a, content[1].(string)
}

func tableWith(labels ...string) *Table {
	table := NewTable()
	for _, l := range labels {
		table.Add(l)
	}
	return table
}

func TestUseConvertsKnownCite(t *testing.T) {
	blocks := []any{ast.Para([]any{ast.Str("see"), ast.Space(), cite("fig:one")})}

	out := Use(blocks, "fig:", tableWith("fig:one"))

	run := inlinesOf(t, out)
	require.Len(t, run, 3)
	a, label := refToken(t, run[2])
	assert.Equal(t, "fig:one", label)
	assert.True(t, a.Empty())
}

func TestUseConvertsUnknownCiteWithPrefix(t *testing.T) {
	// A reference to a missing label still becomes a token so the rewrite
	// pass can flag it.
	blocks := []any{ast.Para([]any{cite("fig:missing")})}

	out := Use(blocks, "fig:", tableWith("fig:one"))

	run := inlinesOf(t, out)
	_, label := refToken(t, run[0])
	assert.Equal(t, "fig:missing", label)
}

func TestUseLeavesOtherCitations(t *testing.T) {
	blocks := []any{ast.Para([]any{cite("knuth1984")})}

	out := Use(blocks, "fig:", tableWith("fig:one"))

	run := inlinesOf(t, out)
	assert.Equal(t, "Cite", run[0].(*ast.Node).Tag)
}

func TestUseExtractsAttributes(t *testing.T) {
	blocks := []any{ast.Para([]any{cite("fig:one"), ast.Str("{tag=a}")})}

	out := Use(blocks, "fig:", tableWith("fig:one"))

	run := inlinesOf(t, out)
	require.Len(t, run, 1)
	a, _ := refToken(t, run[0])
	v, ok := a.Get("tag")
	assert.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestUseModifier(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		wantMod string
	}{
		{"plus", "+", "+"},
		{"star", "*", "*"},
		{"bang", "!", "!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := []any{ast.Para([]any{ast.Str("see" + tt.prefix), cite("fig:one")})}

			out := Use(blocks, "fig:", tableWith("fig:one"))

			run := inlinesOf(t, out)
			require.Len(t, run, 2)
			assert.Equal(t, "see", run[0].(*ast.Node).Content)
			a, _ := refToken(t, run[1])
			mod, ok := a.Get("modifier")
			assert.True(t, ok)
			assert.Equal(t, tt.wantMod, mod)
		})
	}
}

func TestUseModifierAlone(t *testing.T) {
	blocks := []any{ast.Para([]any{ast.Str("+"), cite("fig:one")})}

	out := Use(blocks, "fig:", tableWith("fig:one"))

	run := inlinesOf(t, out)
	require.Len(t, run, 1)
	a, _ := refToken(t, run[0])
	mod, _ := a.Get("modifier")
	assert.Equal(t, "+", mod)
}

func TestUseTrimsBraces(t *testing.T) {
	blocks := []any{ast.Para([]any{ast.Str("{"), cite("fig:one"), ast.Str("}")})}

	out := Use(blocks, "fig:", tableWith("fig:one"))

	run := inlinesOf(t, out)
	require.Len(t, run, 1)
	_, label := refToken(t, run[0])
	assert.Equal(t, "fig:one", label)
}

func TestUseTrimsBracesKeepingText(t *testing.T) {
	blocks := []any{ast.Para([]any{ast.Str("see{"), cite("fig:one"), ast.Str("}.")})}

	out := Use(blocks, "fig:", tableWith("fig:one"))

	run := inlinesOf(t, out)
	require.Len(t, run, 3)
	assert.Equal(t, "see", run[0].(*ast.Node).Content)
	assert.Equal(t, ".", run[2].(*ast.Node).Content)
}

func TestUseMultipleRefs(t *testing.T) {
	blocks := []any{ast.Para([]any{
		cite("fig:one"), ast.Space(), cite("fig:two"), ast.Space(), cite("other"),
	})}

	out := Use(blocks, "fig:", tableWith("fig:one", "fig:two"))

	run := inlinesOf(t, out)
	require.Len(t, run, 5)
	assert.Equal(t, "Ref", run[0].(*ast.Node).Tag)
	assert.Equal(t, "Ref", run[2].(*ast.Node).Tag)
	assert.Equal(t, "Cite", run[4].(*ast.Node).Tag)
}
