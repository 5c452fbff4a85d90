package notes

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/zkgraph/internal/graph"
	"github.com/psidex/zkgraph/internal/lib"
)

func writeNotes(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLinks(t *testing.T) {
	body := "See [[alpha]] and [[beta|the second]], [[gamma#intro]].\n" +
		"Also [delta](delta.md), [deep](sub/epsilon.md#top) and [web](https://example.com/x.md).\n" +
		"Not a link: [plain](notes.txt)."

	assert.Equal(t, []string{"alpha", "beta", "gamma", "delta", "epsilon"}, Links(body))
	assert.Empty(t, Links("nothing here"))
}

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		meta    Metadata
		body    string
	}{
		{
			name:    "none",
			content: "# Title\nbody",
			body:    "# Title\nbody",
		},
		{
			name:    "header",
			content: "---\nid: \"2024\"\nname: Graphs\ntags: [viz]\n---\n# Title\n",
			meta:    Metadata{ID: "2024", Name: "Graphs", Tags: []string{"viz"}},
			body:    "# Title\n",
		},
		{
			name:    "empty header",
			content: "---\n---\nbody",
			body:    "body",
		},
		{
			name:    "rule not header",
			content: "---- \ntext",
			body:    "---- \ntext",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body, err := splitFrontmatter(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.meta, meta)
			assert.Equal(t, tt.body, body)
		})
	}

	_, _, err := splitFrontmatter("---\nname: [unclosed\n---\n")
	assert.Error(t, err)
}

func TestReadNote(t *testing.T) {
	dir := writeNotes(t, map[string]string{
		"plain.md":   "intro\n\n# Plain Note\n\nlinks to [[other]]",
		"bare.md":    "no heading",
		"headed.md":  "---\nid: h1\nname: Named\n---\n# Ignored Heading\n",
		"heading.md": "---\ntags: [a, b]\n---\n# From Heading\n",
	})

	n, err := ReadNote(filepath.Join(dir, "plain.md"))
	require.NoError(t, err)
	assert.Equal(t, "plain", n.ID)
	assert.Equal(t, "Plain Note", n.Name)
	assert.Equal(t, []string{"other"}, n.Links)

	n, err = ReadNote(filepath.Join(dir, "bare.md"))
	require.NoError(t, err)
	assert.Equal(t, "bare", n.Name)

	n, err = ReadNote(filepath.Join(dir, "headed.md"))
	require.NoError(t, err)
	assert.Equal(t, "h1", n.ID)
	assert.Equal(t, "Named", n.Name)

	n, err = ReadNote(filepath.Join(dir, "heading.md"))
	require.NoError(t, err)
	assert.Equal(t, "From Heading", n.Name)
	assert.Equal(t, []string{"a", "b"}, n.Tags)
}

func TestElements(t *testing.T) {
	dir := writeNotes(t, map[string]string{
		"a.md":      "# Alpha\n[[b]] [[c]] [[b]] [[a]] [[ghost]]",
		"b.md":      "# Beta\n[back](a.md)",
		"c.md":      "---\nid: gamma\ntags: [x]\n---\n# Gamma\n",
		"notes.txt": "[[a]]",
	})
	var logs bytes.Buffer
	c, err := Scan(dir, lib.NiceLogger(&logs, slog.LevelDebug))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	elements := c.Elements()
	require.NoError(t, graph.Validate(elements))

	var ids []string
	for _, e := range elements {
		ids = append(ids, e.ID)
	}
	// c.md is addressed by file name but its id comes from the header.
	assert.Equal(t, []string{"a", "b", "gamma", "a->b", "a->gamma", "b->a"}, ids)

	weights := map[string]float64{}
	for _, e := range elements {
		if e.IsNode() {
			weights[e.ID] = *e.Weight
		}
	}
	assert.Equal(t, map[string]float64{"a": 3, "b": 2, "gamma": 1}, weights)

	assert.Equal(t, "Alpha", elements[0].Label)
	assert.Equal(t, []string{"x"}, elements[2].Attrs["tags"])

	assert.Contains(t, logs.String(), "self link")
	assert.Contains(t, logs.String(), "unknown note")
	assert.Contains(t, logs.String(), "ghost")
}

func TestScanDuplicateID(t *testing.T) {
	dir := writeNotes(t, map[string]string{
		"one.md": "---\nid: same\n---\n",
		"two.md": "---\nid: same\n---\n",
	})
	c, err := Scan(dir, lib.DiscardLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestScanEmptyAndMissing(t *testing.T) {
	c, err := Scan(t.TempDir(), lib.DiscardLogger())
	require.NoError(t, err)
	assert.Empty(t, c.Elements())

	_, err = Scan(filepath.Join(t.TempDir(), "missing"), lib.DiscardLogger())
	assert.Error(t, err)
}
