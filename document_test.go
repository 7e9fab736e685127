package botflow

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func roundTripFixture(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()
	mustAdd(t, g,
		Node{
			ID:       "doc.txt_1",
			Type:     NodeInput,
			Position: Position{X: 10, Y: 20},
			Data:     NodeData{Name: "doc.txt", Category: SourceFile, MIME: "text/plain"},
		},
		Node{
			ID:   "translator_1",
			Type: NodeBot,
			Data: NodeData{
				BotID:  BotTranslator,
				Label:  "Translator",
				Config: map[string]string{"prompt": "translate to German: {text}"},
			},
		},
		Node{
			ID:   "output-node_1",
			Type: NodeOutput,
			Data: NodeData{Result: "previous run", ImageURL: "https://img.example/x"},
		},
	)
	mustConnect(t, g, "doc.txt_1", "translator_1")
	mustConnect(t, g, "translator_1", "output-node_1")
	return g
}

func TestDocumentRoundTrip(t *testing.T) {
	g := roundTripFixture(t)

	raw, err := json.Marshal(ToDocument(g))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	doc, err := FromDocument(raw)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	got := doc.Graph()

	if !reflect.DeepEqual(got.Nodes, g.Nodes) {
		t.Errorf("nodes differ:\n got %+v\nwant %+v", got.Nodes, g.Nodes)
	}
	if !reflect.DeepEqual(got.Edges, g.Edges) {
		t.Errorf("edges differ:\n got %+v\nwant %+v", got.Edges, g.Edges)
	}
}

func TestDocumentIsASnapshot(t *testing.T) {
	g := roundTripFixture(t)
	doc := ToDocument(g)

	// Mutating the document must not reach the live graph.
	doc.Nodes[1].Data.Config["prompt"] = "changed"
	doc.Nodes[0].Data.Name = "other.txt"

	n, _ := g.Node("translator_1")
	if n.Data.Config["prompt"] != "translate to German: {text}" {
		t.Error("document mutation leaked into graph config")
	}
	in, _ := g.Node("doc.txt_1")
	if in.Data.Name != "doc.txt" {
		t.Error("document mutation leaked into graph node")
	}
}

func TestFromDocumentRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"missing edges", `{"nodes": []}`}, // scenario E
		{"missing nodes", `{"edges": []}`},
		{"not an object", `[1, 2, 3]`},
		{"nodes not an array", `{"nodes": 5, "edges": []}`},
		{"invalid json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromDocument([]byte(tc.raw)); !errors.Is(err, ErrBadDocument) {
				t.Errorf("error = %v, want ErrBadDocument", err)
			}
		})
	}
}

func TestFromDocumentAcceptsEmptyGraph(t *testing.T) {
	doc, err := FromDocument([]byte(`{"nodes": [], "edges": []}`))
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if len(doc.Nodes) != 0 || len(doc.Edges) != 0 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestFromDocumentSkipsEdgeValidation(t *testing.T) {
	// A hand-edited document can carry wiring the validator would refuse;
	// loading trusts it as-is.
	raw := `{
		"nodes": [
			{"id": "a", "type": "inputNode", "position": {"x":0,"y":0}, "data": {"name":"a.png","category":"image"}},
			{"id": "b", "type": "botNode", "position": {"x":0,"y":0}, "data": {"botId":"summarizer"}}
		],
		"edges": [{"id": "edge__a-b", "source": "a", "target": "b"}]
	}`
	doc, err := FromDocument([]byte(raw))
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if len(doc.Graph().Edges) != 1 {
		t.Error("edge dropped on load")
	}
}
