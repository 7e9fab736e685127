package botflow

import (
	"errors"
	"testing"
)

// buildGraph wires the standard fixture used by the rule table: one input
// per source category, one bot per relevant id, and an output node.
func ruleFixture(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()
	mustAdd(t, g,
		Node{ID: "in-file", Type: NodeInput, Data: NodeData{Name: "doc.txt", Category: SourceFile}},
		Node{ID: "in-image", Type: NodeInput, Data: NodeData{Name: "pic.png", Category: SourceImage}},
		Node{ID: "in-audio", Type: NodeInput, Data: NodeData{Name: "clip.mp3", Category: SourceAudio}},
		bot("gpt", BotGPT),
		bot("sum", BotSummarizer),
		bot("imagegen", BotImageGen),
		bot("img2img", BotImg2Img),
		bot("s2t", BotSpeech2Text),
		bot("t2s", BotText2Speech),
		bot("codegen", BotCodegen),
		bot("mystery", BotID("mystery")),
		outputNode("out"),
	)
	return g
}

func TestCanConnectRules(t *testing.T) {
	cases := []struct {
		name           string
		source, target string
		want           bool
	}{
		{"missing source", "ghost", "sum", false},
		{"missing target", "in-file", "ghost", false},
		{"self connection", "gpt", "gpt", false},
		{"input never receives", "gpt", "in-file", false},
		{"output never sends", "out", "gpt", false},

		{"file input to summarizer", "in-file", "sum", true},
		{"file input to imagegen", "in-file", "imagegen", true},
		{"file input to text2speech", "in-file", "t2s", true},
		{"image input to summarizer", "in-image", "sum", false}, // scenario B
		{"image input to imagegen", "in-image", "imagegen", true},
		{"image input to img2img", "in-image", "img2img", true},
		{"audio input to speech2text", "in-audio", "s2t", true},
		{"audio input to gpt", "in-audio", "gpt", false},
		{"input directly to output", "in-file", "out", false},

		{"text bot chains to text bot", "gpt", "sum", true},
		{"text bot into imagegen", "gpt", "imagegen", true},
		{"text bot into audio bot", "gpt", "t2s", true},
		{"text bot into code bot", "gpt", "codegen", false},
		{"image bot into text bot", "imagegen", "sum", false},
		{"unknown bot as source", "mystery", "sum", false},
		{"bot to output", "imagegen", "out", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := ruleFixture(t)
			if got := g.CanConnect(tc.source, tc.target); got != tc.want {
				t.Errorf("CanConnect(%s, %s) = %v, want %v", tc.source, tc.target, got, tc.want)
			}
		})
	}
}

func TestSingleInputPerNode(t *testing.T) {
	// Scenario C: a target that already has one incoming edge rejects any
	// further producer, regardless of other rule outcomes.
	g := ruleFixture(t)
	mustConnect(t, g, "in-file", "sum")

	if g.CanConnect("gpt", "sum") {
		t.Error("second producer accepted for sum")
	}
	if _, err := g.AddEdge("gpt", "sum"); !errors.Is(err, ErrInvalidConnection) {
		t.Errorf("AddEdge error = %v, want ErrInvalidConnection", err)
	}
}

func TestInvariantsHoldAfterInsertions(t *testing.T) {
	g := ruleFixture(t)

	// Try every ordered pair; accepted edges must preserve the structural
	// invariants at every step.
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	for _, s := range ids {
		for _, tgt := range ids {
			g.AddEdge(s, tgt)
		}
	}

	incoming := map[string]int{}
	for _, e := range g.Edges {
		incoming[e.Target]++

		src, _ := g.Node(e.Source)
		tgt, _ := g.Node(e.Target)
		if tgt.Type == NodeInput {
			t.Errorf("input node %s is an edge target", e.Target)
		}
		if src.Type == NodeOutput {
			t.Errorf("output node %s is an edge source", e.Source)
		}
	}
	for id, n := range incoming {
		if n > 1 {
			t.Errorf("node %s has %d incoming edges", id, n)
		}
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(BotImageGen, map[string]string{"prompt": "x", "size": "512x512"}); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
	if err := ValidateConfig(BotSummarizer, map[string]string{"voice": "larry"}); err == nil {
		t.Error("unknown key accepted")
	}
	if err := ValidateConfig(BotID("mystery"), map[string]string{"anything": "goes"}); err != nil {
		t.Errorf("unknown bot should be unchecked: %v", err)
	}
}
