// Package notes builds a graph dataset from a directory of Markdown notes:
// one node per note, one edge per distinct link between two notes.
package notes

import (
	"bufio"
	"cmp"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/psidex/zkgraph/internal/graph"
	"github.com/psidex/zkgraph/internal/lib"
)

const ext = ".md"

var (
	// [[target]], [[target|alias]] and [[target#heading]].
	wikiLink = regexp.MustCompile(`\[\[([^\]|#\r\n]+)(?:[|#][^\]\r\n]*)?\]\]`)
	// [text](target.md), optionally with a #fragment.
	mdLink = regexp.MustCompile(`\[[^\]\r\n]*\]\(([^)\s#]+\.md)(?:#[^)\s]*)?\)`)
)

type Note struct {
	ID   string
	Name string
	Path string
	Tags []string
	// Links are raw link targets in order of appearance, possibly repeated.
	Links []string
}

// Collection is a scanned notes directory.
type Collection struct {
	log    *slog.Logger
	notes  []Note
	byID   map[string]int
	byStem map[string]int
}

// Scan reads every *.md file directly inside dir. Unreadable or malformed
// notes are logged and skipped; a note whose id is already taken is skipped.
func Scan(dir string, log *slog.Logger) (*Collection, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read notes dir %s", dir)
	}

	c := &Collection{
		log:    log,
		byID:   make(map[string]int),
		byStem: make(map[string]int),
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		n, err := ReadNote(path)
		if err != nil {
			log.Warn("skipping note", "path", path, "err", err)
			continue
		}
		if _, taken := c.byID[n.ID]; taken {
			log.Warn("skipping note with duplicate id", "path", path, "id", n.ID)
			continue
		}
		c.byID[n.ID] = len(c.notes)
		c.byStem[stem(path)] = len(c.notes)
		c.notes = append(c.notes, n)
	}
	return c, nil
}

// ReadNote parses a single note file.
func ReadNote(path string) (Note, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Note{}, errors.Wrapf(err, "read %s", path)
	}
	meta, body, err := splitFrontmatter(string(raw))
	if err != nil {
		return Note{}, errors.Wrapf(err, "note %s", path)
	}

	n := Note{
		ID:    meta.ID,
		Name:  meta.Name,
		Path:  path,
		Tags:  meta.Tags,
		Links: Links(body),
	}
	if n.ID == "" {
		n.ID = stem(path)
	}
	if n.Name == "" {
		n.Name = heading(body)
	}
	if n.Name == "" {
		n.Name = n.ID
	}
	return n, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func heading(body string) string {
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		if title, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), "# "); ok {
			return strings.TrimSpace(title)
		}
	}
	return ""
}

// Links returns the link targets found in body, wiki links first.
// Relative Markdown links are reduced to the target file's stem; links with a
// URL scheme are ignored.
func Links(body string) []string {
	var links []string
	for _, m := range wikiLink.FindAllStringSubmatch(body, -1) {
		if target := strings.TrimSpace(m[1]); target != "" {
			links = append(links, target)
		}
	}
	for _, m := range mdLink.FindAllStringSubmatch(body, -1) {
		if strings.Contains(m[1], "://") {
			continue
		}
		links = append(links, stem(m[1]))
	}
	return links
}

// Notes returns the notes sorted by id.
func (c *Collection) Notes() []Note {
	notes := slices.Clone(c.notes)
	slices.SortFunc(notes, func(a, b Note) int { return cmp.Compare(a.ID, b.ID) })
	return notes
}

func (c *Collection) Len() int { return len(c.notes) }

// resolve maps a link target to a note id, trying ids before file names.
func (c *Collection) resolve(target string) (string, bool) {
	if i, ok := c.byID[target]; ok {
		return c.notes[i].ID, true
	}
	if i, ok := c.byStem[target]; ok {
		return c.notes[i].ID, true
	}
	return "", false
}

// Elements builds the dataset: nodes sorted by id followed by edges sorted by
// id. Edge ids are "source->target"; node weight is the number of incident
// edges. Self links and links to unknown notes are logged and skipped.
func (c *Collection) Elements() []graph.Element {
	notes := c.Notes()
	degree := make(map[string]int, len(notes))
	seen := lib.NewSet[string]()
	var edges []graph.Element

	for _, n := range notes {
		for _, target := range n.Links {
			id, ok := c.resolve(target)
			if !ok {
				c.log.Warn("link to unknown note, skipped", "note", n.ID, "target", target)
				continue
			}
			if id == n.ID {
				c.log.Warn("self link, skipped", "note", n.ID)
				continue
			}
			edgeID := n.ID + "->" + id
			if !seen.Add(edgeID) {
				continue
			}
			edges = append(edges, graph.Edge(edgeID, n.ID, id))
			degree[n.ID]++
			degree[id]++
		}
	}

	elements := make([]graph.Element, 0, len(notes)+len(edges))
	for _, n := range notes {
		node := graph.Node(n.ID).WithLabel(n.Name).WithWeight(float64(degree[n.ID]))
		if len(n.Tags) > 0 {
			node = node.WithAttr("tags", slices.Clone(n.Tags))
		}
		elements = append(elements, node)
	}
	slices.SortFunc(edges, func(a, b graph.Element) int { return cmp.Compare(a.ID, b.ID) })
	return append(elements, edges...)
}
