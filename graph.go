package botflow

import (
	"fmt"
	"strings"
	"time"
)

// NodeType distinguishes the three node kinds on the canvas.
type NodeType string

const (
	NodeInput  NodeType = "inputNode"
	NodeBot    NodeType = "botNode"
	NodeOutput NodeType = "outputNode"
)

// SourceCategory is the data kind carried by an input node.
type SourceCategory string

const (
	SourceFile  SourceCategory = "file"
	SourceImage SourceCategory = "image"
	SourceAudio SourceCategory = "audio"
)

// Position holds x/y coordinates for rendering the node on the canvas.
// The core never interprets it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the payload attached to a node. Which fields are meaningful
// depends on the node type: input nodes carry source metadata, bot nodes
// carry the bot id and its configuration, output nodes carry the last
// computed result.
type NodeData struct {
	// Input node fields.
	Name     string         `json:"name,omitempty"`
	Category SourceCategory `json:"category,omitempty"`
	MIME     string         `json:"mime,omitempty"`
	FileRef  string         `json:"fileRef,omitempty"`
	Text     string         `json:"text,omitempty"` // cached extracted text

	// Bot node fields.
	BotID       BotID             `json:"botId,omitempty"`
	Label       string            `json:"label,omitempty"`
	Description string            `json:"description,omitempty"`
	Config      map[string]string `json:"config,omitempty"`

	// Output node fields.
	Result   string `json:"result,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	AudioURL string `json:"audioUrl,omitempty"`
}

// Node represents a vertex on the canvas.
type Node struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// Edge represents a directed connection between two nodes.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the in-memory workflow: nodes keyed by id plus directed edges.
// It is owned by a single interactive session; snapshots for persistence go
// through ToDocument/Document.Graph.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Node returns a pointer to the node with the given id, or false if absent.
func (g *Graph) Node(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// Predecessors returns the source ids of every edge targeting nodeID.
func (g *Graph) Predecessors(nodeID string) []string {
	var ids []string
	for _, e := range g.Edges {
		if e.Target == nodeID {
			ids = append(ids, e.Source)
		}
	}
	return ids
}

// Successors returns the target ids of every edge leaving nodeID.
func (g *Graph) Successors(nodeID string) []string {
	var ids []string
	for _, e := range g.Edges {
		if e.Source == nodeID {
			ids = append(ids, e.Target)
		}
	}
	return ids
}

// UnattachedInputs returns the ids of input nodes that never appear as an
// edge target. These are the execution entry points. Inputs are never
// targets by invariant, so in practice this is every input node, in
// insertion order.
func (g *Graph) UnattachedInputs() []string {
	targets := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		targets[e.Target] = true
	}
	var ids []string
	for _, n := range g.Nodes {
		if n.Type == NodeInput && !targets[n.ID] {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Outputs returns the ids of all output nodes, in insertion order.
func (g *Graph) Outputs() []string {
	var ids []string
	for _, n := range g.Nodes {
		if n.Type == NodeOutput {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// AddNode appends a node to the graph. The id must be unique.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return fmt.Errorf("botflow: node id is empty")
	}
	if _, ok := g.Node(n.ID); ok {
		return fmt.Errorf("botflow: node %s already exists", n.ID)
	}
	g.Nodes = append(g.Nodes, n)
	return nil
}

// AddEdge connects source to target after passing the connection validator.
// Returns the committed edge, or ErrInvalidConnection on rejection.
func (g *Graph) AddEdge(sourceID, targetID string) (Edge, error) {
	if !g.CanConnect(sourceID, targetID) {
		return Edge{}, fmt.Errorf("botflow: %s -> %s: %w", sourceID, targetID, ErrInvalidConnection)
	}
	e := Edge{ID: EdgeID(sourceID, targetID), Source: sourceID, Target: targetID}
	g.Edges = append(g.Edges, e)
	return e, nil
}

// RemoveNode deletes a node and every edge touching it.
// No error if the node doesn't exist.
func (g *Graph) RemoveNode(id string) {
	nodes := g.Nodes[:0]
	for _, n := range g.Nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}
	g.Nodes = nodes

	edges := g.Edges[:0]
	for _, e := range g.Edges {
		if e.Source != id && e.Target != id {
			edges = append(edges, e)
		}
	}
	g.Edges = edges
}

// RemoveEdge deletes an edge by id. No error if it doesn't exist.
func (g *Graph) RemoveEdge(id string) {
	edges := g.Edges[:0]
	for _, e := range g.Edges {
		if e.ID != id {
			edges = append(edges, e)
		}
	}
	g.Edges = edges
}

// Clear drops all nodes and edges.
func (g *Graph) Clear() {
	g.Nodes = nil
	g.Edges = nil
}

// EdgeID derives the conventional edge id from its endpoints.
func EdgeID(sourceID, targetID string) string {
	return "edge__" + sourceID + "-" + targetID
}

// NewNodeID builds a type-prefixed timestamp id, matching the ids the
// canvas assigns on drop.
func NewNodeID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixMilli())
}

// NewInputNode builds an input node for an uploaded file. The source
// category is derived from the MIME type.
func NewInputNode(name, mime, fileRef string) Node {
	return Node{
		ID:   NewNodeID(name),
		Type: NodeInput,
		Data: NodeData{
			Name:     name,
			Category: CategoryForMIME(mime),
			MIME:     mime,
			FileRef:  fileRef,
		},
	}
}

// NewBotNode builds a bot node from the catalog. Unknown ids still produce
// a node; at run time they fall through to the identity processor.
func NewBotNode(id BotID) Node {
	n := Node{
		ID:   NewNodeID(string(id)),
		Type: NodeBot,
		Data: NodeData{BotID: id},
	}
	if b, ok := BotByID(id); ok {
		n.Data.Label = b.Name
		n.Data.Description = b.Description
	}
	return n
}

// NewOutputNode builds an empty output node.
func NewOutputNode() Node {
	return Node{ID: NewNodeID("output-node"), Type: NodeOutput}
}

// CategoryForMIME maps an uploaded file's MIME type to a source category:
// image/* and audio/* map to their own categories, everything else is a
// generic file.
func CategoryForMIME(mime string) SourceCategory {
	switch {
	case strings.HasPrefix(mime, "image"):
		return SourceImage
	case strings.HasPrefix(mime, "audio"):
		return SourceAudio
	default:
		return SourceFile
	}
}
