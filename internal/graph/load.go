package graph

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/corpix/uarand"
)

// ReadJSON decodes elements from r. Two shapes are accepted:
//
//	[{"data": {"id": "a"}}, {"data": {"id": "e0", "source": "a", "target": "b"}}]
//	{"nodes": [...], "edges": [...]}
//
// The result is not validated; see Validate.
func ReadJSON(r io.Reader) ([]Element, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return []Element{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read elements")
	}

	dec := json.NewDecoder(br)
	if first == '{' {
		var grouped struct {
			Nodes []Element `json:"nodes"`
			Edges []Element `json:"edges"`
		}
		if err := dec.Decode(&grouped); err != nil {
			return nil, errors.Wrap(err, "decode elements")
		}
		elements := make([]Element, 0, len(grouped.Nodes)+len(grouped.Edges))
		for _, n := range grouped.Nodes {
			if n.IsEdge() {
				return nil, errors.Wrapf(ErrInvalidElement, "node %q has source and target", n.ID)
			}
			n.Kind = KindNode
			elements = append(elements, n)
		}
		for _, e := range grouped.Edges {
			if !e.IsEdge() {
				return nil, errors.Wrapf(ErrInvalidElement, "edge %q needs source and target", e.ID)
			}
			elements = append(elements, e)
		}
		return elements, nil
	}

	elements := []Element{}
	if err := dec.Decode(&elements); err != nil {
		return nil, errors.Wrap(err, "decode elements")
	}
	return elements, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

// ImportJSON reads the elements file at path.
func ImportJSON(path string) ([]Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	elements, err := ReadJSON(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return elements, nil
}

// Fetch downloads an elements document over HTTP.
func Fetch(ctx context.Context, client *http.Client, url string) ([]Element, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", uarand.GetRandom())
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("fetch %s: got non-OK status code: %v", url, resp.StatusCode)
	}

	return ReadJSON(resp.Body)
}

// WriteJSON writes elements as an indented Cytoscape element array.
func WriteJSON(w io.Writer, elements []Element) error {
	if elements == nil {
		elements = []Element{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(elements)
}
