// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexstoick/pandoc-xnos/internal/diag"
	"github.com/alexstoick/pandoc-xnos/internal/filterio"
	"github.com/alexstoick/pandoc-xnos/pkg/ast"
	"github.com/alexstoick/pandoc-xnos/pkg/types"
)

// testConfig pins the pandoc version so Apply never shells out during tests.
func testConfig() types.FilterConfig {
	return types.FilterConfig{PandocVersion: "3.1.11"}
}

func figure(label string) *ast.Node {
	img := ast.New("Image",
		[]any{label, []any{}, []any{}},
		[]any{ast.Str("caption")},
		[]any{"figure.png", "fig:"})
	return ast.Para([]any{img})
}

func refPara(refText string) *ast.Node {
	cite := ast.Cite(
		[]any{ast.Citation(refText[1:])},
		[]any{ast.Str(refText)})
	return ast.Para([]any{ast.Str("See"), ast.Space(), cite})
}

func testDoc(blocks ...any) *filterio.Document {
	return &filterio.Document{
		APIVersion: []int{1, 23, 1},
		Meta:       ast.Meta{},
		Blocks:     blocks,
	}
}

// tagsOf flattens the tree into the tags of every node, for shape checks.
func tagsOf(v any) []string {
	var tags []string
	probe := func(n *ast.Node, _ string, _ ast.Meta) ([]any, bool) {
		tags = append(tags, n.Tag)
		return nil, false
	}
	ast.Walk(v, probe, "", nil)
	return tags
}

func TestApplyResolvesFigureReference(t *testing.T) {
	doc := testDoc(figure("fig:one"), refPara("@fig:one"))
	rep := diag.New(&bytes.Buffer{}, "test")

	require.NoError(t, Apply(doc, "markdown", testConfig(), rep))
	assert.Equal(t, 0, rep.Warnings())

	// The citation is gone; a plain number stands in its place.
	run, ok := doc.Blocks[1].(*ast.Node).Inlines()
	require.True(t, ok)
	require.Len(t, run, 3)
	assert.Equal(t, "1", run[2].(*ast.Node).Content)
	assert.NotContains(t, tagsOf(doc.Blocks), "Cite")
	assert.NotContains(t, tagsOf(doc.Blocks), "Ref")
}

func TestApplyNumbersInDocumentOrder(t *testing.T) {
	doc := testDoc(
		figure("fig:first"), figure("fig:second"),
		refPara("@fig:second"), refPara("@fig:first"))
	rep := diag.New(&bytes.Buffer{}, "test")

	require.NoError(t, Apply(doc, "markdown", testConfig(), rep))

	run, _ := doc.Blocks[2].(*ast.Node).Inlines()
	assert.Equal(t, "2", run[2].(*ast.Node).Content)
	run, _ = doc.Blocks[3].(*ast.Node).Inlines()
	assert.Equal(t, "1", run[2].(*ast.Node).Content)
}

func TestApplyRendersHTMLLink(t *testing.T) {
	doc := testDoc(figure("fig:one"), refPara("@fig:one"))
	rep := diag.New(&bytes.Buffer{}, "test")

	require.NoError(t, Apply(doc, "html", testConfig(), rep))

	run, _ := doc.Blocks[1].(*ast.Node).Inlines()
	span := run[2].(*ast.Node)
	require.Equal(t, "Span", span.Tag)

	data, err := json.Marshal(span)
	require.NoError(t, err)
	assert.Contains(t, string(data), `a href=`)
	assert.Contains(t, string(data), "#fig:one")
}

func TestApplyRendersLaTeXRef(t *testing.T) {
	doc := testDoc(figure("fig:one"), refPara("@fig:one"))
	rep := diag.New(&bytes.Buffer{}, "test")

	require.NoError(t, Apply(doc, "latex", testConfig(), rep))

	run, _ := doc.Blocks[1].(*ast.Node).Inlines()
	raw := run[2].(*ast.Node)
	require.Equal(t, "RawInline", raw.Tag)
	content, _ := raw.Inlines()
	assert.Equal(t, `\ref{fig:one}`, content[1])
}

func TestApplyCleverefInjectsPreambleOnce(t *testing.T) {
	cfg := testConfig()
	cfg.Cleveref = true
	doc := testDoc(figure("fig:one"), refPara("@fig:one"))
	rep := diag.New(&bytes.Buffer{}, "test")

	require.NoError(t, Apply(doc, "latex", cfg, rep))

	// Two raw TeX blocks precede the first paragraph.
	require.GreaterOrEqual(t, len(doc.Blocks), 4)
	assert.Equal(t, "RawBlock", doc.Blocks[0].(*ast.Node).Tag)
	assert.Equal(t, "RawBlock", doc.Blocks[1].(*ast.Node).Tag)

	data, err := json.Marshal(doc.Blocks)
	require.NoError(t, err)
	assert.Contains(t, string(data), `\cref{fig:one}`)

	// A second run over the rewritten document changes nothing.
	before := string(data)
	require.NoError(t, Apply(doc, "latex", cfg, rep))
	after, err := json.Marshal(doc.Blocks)
	require.NoError(t, err)
	assert.JSONEq(t, before, string(after))
}

func TestApplyCleverefMetaOverride(t *testing.T) {
	doc := testDoc(figure("fig:one"), refPara("@fig:one"))
	doc.Meta["xnos-cleveref"] = ast.New("MetaBool", true)
	rep := diag.New(&bytes.Buffer{}, "test")

	require.NoError(t, Apply(doc, "latex", testConfig(), rep))

	data, err := json.Marshal(doc.Blocks)
	require.NoError(t, err)
	assert.Contains(t, string(data), `\cref{fig:one}`)
}

func TestApplyWarnsOnMalformedCleverefMeta(t *testing.T) {
	doc := testDoc(figure("fig:one"), refPara("@fig:one"))
	doc.Meta["xnos-cleveref"] = ast.New("MetaString", "yes please")
	var buf bytes.Buffer
	rep := diag.New(&buf, "test")

	require.NoError(t, Apply(doc, "latex", testConfig(), rep))

	assert.Equal(t, 1, rep.Warnings())
	assert.Contains(t, buf.String(), "xnos-cleveref")

	// The malformed value falls back to the configured default: off.
	data, err := json.Marshal(doc.Blocks)
	require.NoError(t, err)
	assert.Contains(t, string(data), `\ref{fig:one}`)
}

func TestApplyFlagsUnresolvedReference(t *testing.T) {
	doc := testDoc(figure("fig:one"), refPara("@fig:missing"))
	var buf bytes.Buffer
	rep := diag.New(&buf, "test")

	require.NoError(t, Apply(doc, "markdown", testConfig(), rep))

	assert.Equal(t, 1, rep.Warnings())
	assert.Contains(t, buf.String(), "fig:missing")

	run, _ := doc.Blocks[1].(*ast.Node).Inlines()
	assert.Equal(t, "[?fig:missing]", run[2].(*ast.Node).Content)
}

func TestApplyLeavesOrdinaryCitationsAlone(t *testing.T) {
	doc := testDoc(refPara("@smith2024"))
	rep := diag.New(&bytes.Buffer{}, "test")

	require.NoError(t, Apply(doc, "markdown", testConfig(), rep))

	assert.Equal(t, 0, rep.Warnings())
	assert.Contains(t, tagsOf(doc.Blocks), "Cite")
}

func TestApplyHandlesAllDefaultKinds(t *testing.T) {
	eq := ast.Para([]any{ast.New("Span",
		[]any{"eq:mass", []any{}, []any{}},
		[]any{ast.InlineMath("E = mc^2")})})
	tbl := ast.New("Table",
		[]any{"tbl:results", []any{}, []any{}},
		[]any{}, []any{}, []any{}, []any{}, []any{})
	doc := testDoc(
		figure("fig:one"), eq, tbl,
		refPara("@eq:mass"), refPara("@tbl:results"))
	rep := diag.New(&bytes.Buffer{}, "test")

	require.NoError(t, Apply(doc, "markdown", testConfig(), rep))
	assert.Equal(t, 0, rep.Warnings())

	// Each kind numbers independently from 1.
	run, _ := doc.Blocks[3].(*ast.Node).Inlines()
	assert.Equal(t, "1", run[2].(*ast.Node).Content)
	run, _ = doc.Blocks[4].(*ast.Node).Inlines()
	assert.Equal(t, "1", run[2].(*ast.Node).Content)
}

func TestApplyRejectsBadVersionOverride(t *testing.T) {
	cfg := types.FilterConfig{PandocVersion: "latest"}
	doc := testDoc(figure("fig:one"))
	rep := diag.New(&bytes.Buffer{}, "test")

	assert.Error(t, Apply(doc, "markdown", cfg, rep))
}
