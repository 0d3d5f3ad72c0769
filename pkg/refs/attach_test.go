// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexstoick/pandoc-xnos/pkg/ast"
	"github.com/alexstoick/pandoc-xnos/pkg/attr"
)

// bareImage builds an Image without an attribute triple, the shape old
// pandoc versions emit.
func bareImage() *ast.Node {
	return ast.New("Image", []any{ast.Str("caption")}, []any{"img.png", ""})
}

func TestAttachFoldsAttributes(t *testing.T) {
	blocks := []any{ast.Para([]any{bareImage(), ast.Str("{#fig:one}")})}

	out := Attach(blocks, "Image", false)

	run := inlinesOf(t, out)
	require.Len(t, run, 1)
	img := run[0].(*ast.Node)
	content := img.Content.([]any)
	require.Len(t, content, 3)

	a, err := attr.FromPandoc(content[0])
	require.NoError(t, err)
	assert.Equal(t, "fig:one", a.ID)
}

func TestAttachAllowsSpace(t *testing.T) {
	blocks := []any{ast.Para([]any{bareImage(), ast.Space(), ast.Str("{#fig:one}")})}

	out := Attach(blocks, "Image", true)

	run := inlinesOf(t, out)
	require.Len(t, run, 1)
	assert.Len(t, run[0].(*ast.Node).Content.([]any), 3)
}

func TestAttachMarksLoneImageAsFigure(t *testing.T) {
	blocks := []any{ast.Para([]any{bareImage(), ast.Str("{#fig:one}")})}

	out := Attach(blocks, "Image", false)

	run := inlinesOf(t, out)
	img := run[0].(*ast.Node)
	target := img.Content.([]any)[2].([]any)
	assert.Equal(t, "fig:", target[1])
}

func TestAttachIgnoresPlainText(t *testing.T) {
	blocks := []any{ast.Para([]any{bareImage(), ast.Str("no"), ast.Space(), ast.Str("attrs")})}

	out := Attach(blocks, "Image", false)

	run := inlinesOf(t, out)
	require.Len(t, run, 4)
	assert.Len(t, run[0].(*ast.Node).Content.([]any), 2)
}

func TestStripAttrs(t *testing.T) {
	a := attr.Attr{ID: "fig:one"}
	img := ast.New("Image", a.ToPandoc(), []any{ast.Str("caption")}, []any{"img.png", "fig:"})
	blocks := []any{ast.Para([]any{img})}

	out := StripAttrs(blocks, "Image", 2)

	run := inlinesOf(t, out)
	content := run[0].(*ast.Node).Content.([]any)
	require.Len(t, content, 2)
	_, ok := content[0].([]any)
	assert.True(t, ok, "first slot should now be the caption inlines")
}

func TestStripAttrsSkipsWrongArity(t *testing.T) {
	blocks := []any{ast.Para([]any{bareImage()})}

	out := StripAttrs(blocks, "Image", 2)

	run := inlinesOf(t, out)
	assert.Len(t, run[0].(*ast.Node).Content.([]any), 2)
}
