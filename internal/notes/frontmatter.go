package notes

import (
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Metadata is the optional YAML header of a note:
//
//	---
//	id: 20240101
//	name: Graph views
//	tags: [viz, notes]
//	---
type Metadata struct {
	ID   string   `yaml:"id"`
	Name string   `yaml:"name"`
	Tags []string `yaml:"tags,omitempty"`
}

// splitFrontmatter separates the YAML header from the body. Content that does
// not open with a --- line has no header.
func splitFrontmatter(content string) (Metadata, string, error) {
	trimmed := strings.TrimLeft(content, " \t\r\n")
	if !strings.HasPrefix(trimmed, "---") {
		return Metadata{}, content, nil
	}

	rest := strings.TrimLeft(trimmed[3:], " \t")
	if !strings.HasPrefix(rest, "\n") && !strings.HasPrefix(rest, "\r\n") {
		return Metadata{}, content, nil
	}

	header, body, found := strings.Cut(rest, "\n---")
	if !found {
		return Metadata{}, content, nil
	}
	// Drop the remainder of the closing delimiter line.
	if _, after, ok := strings.Cut(body, "\n"); ok {
		body = after
	} else {
		body = ""
	}

	var meta Metadata
	if strings.TrimSpace(header) != "" {
		if err := yaml.Unmarshal([]byte(header), &meta); err != nil {
			return Metadata{}, "", errors.Wrap(err, "parse frontmatter")
		}
	}
	return meta, body, nil
}
