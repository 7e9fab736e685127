package botflow

import (
	"encoding/json"
	"fmt"
)

// Document is the portable snapshot of a graph, suitable for JSON encoding.
// It is always a structural copy: mutating a document never touches the
// live graph it came from, and vice versa.
type Document struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// ToDocument snapshots a graph field-for-field.
func ToDocument(g *Graph) *Document {
	d := &Document{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		d.Nodes[i] = cloneNode(n)
	}
	copy(d.Edges, g.Edges)
	return d
}

// Graph materializes the document into a fresh graph. Edges are NOT
// re-validated: a hand-edited document can bypass the connection validator
// entirely, which is an accepted trust boundary.
func (d *Document) Graph() *Graph {
	g := &Graph{
		Nodes: make([]Node, len(d.Nodes)),
		Edges: make([]Edge, len(d.Edges)),
	}
	for i, n := range d.Nodes {
		g.Nodes[i] = cloneNode(n)
	}
	copy(g.Edges, d.Edges)
	return g
}

// Clone deep-copies a document.
func (d *Document) Clone() *Document {
	c := &Document{
		Nodes: make([]Node, len(d.Nodes)),
		Edges: make([]Edge, len(d.Edges)),
	}
	for i, n := range d.Nodes {
		c.Nodes[i] = cloneNode(n)
	}
	copy(c.Edges, d.Edges)
	return c
}

// FromDocument decodes a persisted or imported document. The top level must
// be a JSON object carrying both a "nodes" array and an "edges" array; any
// other shape yields ErrBadDocument and the caller's graph is left alone.
func FromDocument(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	nodesRaw, ok := raw["nodes"]
	if !ok {
		return nil, fmt.Errorf("%w: missing \"nodes\"", ErrBadDocument)
	}
	edgesRaw, ok := raw["edges"]
	if !ok {
		return nil, fmt.Errorf("%w: missing \"edges\"", ErrBadDocument)
	}

	d := &Document{}
	if err := json.Unmarshal(nodesRaw, &d.Nodes); err != nil {
		return nil, fmt.Errorf("%w: nodes: %v", ErrBadDocument, err)
	}
	if err := json.Unmarshal(edgesRaw, &d.Edges); err != nil {
		return nil, fmt.Errorf("%w: edges: %v", ErrBadDocument, err)
	}
	return d, nil
}

func cloneNode(n Node) Node {
	if n.Data.Config != nil {
		cfg := make(map[string]string, len(n.Data.Config))
		for k, v := range n.Data.Config {
			cfg[k] = v
		}
		n.Data.Config = cfg
	}
	return n
}
