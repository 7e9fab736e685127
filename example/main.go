package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/meikuraledutech/botflow"
	"github.com/meikuraledutech/botflow/engine"
	"github.com/meikuraledutech/botflow/memstore"
)

func main() {
	ctx := context.Background()

	// ── Build a workflow: notes.txt → sentiment → imagegen → output ───
	g := botflow.NewGraph()

	input := botflow.Node{
		ID:   "notes.txt_1",
		Type: botflow.NodeInput,
		Data: botflow.NodeData{
			Name:     "notes.txt",
			Category: botflow.CategoryForMIME("text/plain"),
			Text:     "The launch went better than anyone expected.",
		},
	}
	sentiment := botflow.Node{
		ID:   "sentiment_1",
		Type: botflow.NodeBot,
		Data: botflow.NodeData{BotID: botflow.BotSentiment},
	}
	imagegen := botflow.Node{
		ID:   "imagegen_1",
		Type: botflow.NodeBot,
		Data: botflow.NodeData{
			BotID:  botflow.BotImageGen,
			Config: map[string]string{"prompt": "poster for: {text}"},
		},
	}
	output := botflow.Node{ID: "output-node_1", Type: botflow.NodeOutput}

	for _, n := range []botflow.Node{input, sentiment, imagegen, output} {
		if err := g.AddNode(n); err != nil {
			log.Fatalf("add node: %v", err)
		}
	}

	for _, pair := range [][2]string{
		{input.ID, sentiment.ID},
		{sentiment.ID, imagegen.ID},
		{imagegen.ID, output.ID},
	} {
		if _, err := g.AddEdge(pair[0], pair[1]); err != nil {
			log.Fatalf("add edge: %v", err)
		}
	}

	// The validator refuses illegal wiring, e.g. a second producer for a
	// node that already has one.
	if _, err := g.AddEdge(input.ID, imagegen.ID); err != nil {
		fmt.Printf("rejected as expected: %v\n", err)
	}

	// ── Run (offline: sentiment and imagegen need no network) ─────────
	runner := engine.NewRunner(nil)
	results, err := runner.Run(ctx, g)
	if err != nil {
		log.Fatalf("run: %v", err)
	}
	fmt.Printf("\n%d node results computed\n", len(results))

	out, _ := g.Node(output.ID)
	fmt.Printf("output result: %s\n", out.Data.Result)
	fmt.Printf("output image:  %s\n", out.Data.ImageURL)

	// ── Save, reload, round-trip ──────────────────────────────────────
	store := memstore.New()
	if err := store.SaveWorkflow(ctx, "demo", botflow.ToDocument(g)); err != nil {
		log.Fatalf("save: %v", err)
	}
	doc, err := store.LoadWorkflow(ctx, "demo")
	if err != nil {
		log.Fatalf("load: %v", err)
	}

	fmt.Println("\nstored document:")
	printJSON(doc)
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
