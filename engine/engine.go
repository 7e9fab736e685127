// Package engine executes workflow graphs: it seeds a payload at every
// unattached input node, propagates breadth-first through bot processors,
// and writes the final payloads into the output nodes.
package engine

import (
	"context"

	"github.com/meikuraledutech/botflow"
)

// Results maps node ids to the payload each node produced during one run.
type Results map[string]Payload

// Runner executes graphs. It holds no per-run state: every Run owns its own
// results map, so a Runner is safe to share. Two overlapping runs over the
// SAME graph are not synchronized against each other (matching the
// interactive builder's behavior); callers wanting isolation should run
// over a fresh graph per invocation.
type Runner struct {
	deps *Deps
}

// NewRunner wires a runner with its processor dependencies. A nil deps runs
// the mock bots and URL-building bots offline.
func NewRunner(deps *Deps) *Runner {
	if deps == nil {
		deps = &Deps{}
	}
	return &Runner{deps: deps}
}

// Run executes the graph: breadth-first from every entry point, then merges
// each output node's predecessor result into its data. Node failures never
// abort the run; they flow downstream as error-text payloads. The only
// error returned is context cancellation.
//
// Entry points are processed one at a time in UnattachedInputs order.
// Within one traversal a node is processed at most once (visited set) and
// only after its single predecessor's result is materialized (nodes are
// enqueued only when they newly receive a result).
func (r *Runner) Run(ctx context.Context, g *botflow.Graph) (Results, error) {
	results := Results{}

	for _, entryID := range g.UnattachedInputs() {
		entry, ok := g.Node(entryID)
		if !ok {
			continue
		}
		results[entryID] = seedPayload(entry.Data)

		visited := map[string]bool{entryID: true}
		queue := []string{entryID}
		for len(queue) > 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			cur := queue[0]
			queue = queue[1:]

			for _, nextID := range g.Successors(cur) {
				if visited[nextID] {
					continue
				}
				next, ok := g.Node(nextID)
				if !ok {
					continue
				}
				switch next.Type {
				case botflow.NodeBot:
					results[nextID] = Process(ctx, r.deps, next.Data.BotID, results[cur], next.Data.Config)
				case botflow.NodeOutput:
					results[nextID] = results[cur]
				default:
					continue
				}
				visited[nextID] = true
				queue = append(queue, nextID)
			}
		}
	}

	r.writeOutputs(g, results)
	return results, nil
}

// writeOutputs merges each output node's predecessor result into its data.
// The display field falls back from the result text to the source name to
// the "No result" placeholder.
func (r *Runner) writeOutputs(g *botflow.Graph, results Results) {
	for _, outID := range g.Outputs() {
		out, ok := g.Node(outID)
		if !ok {
			continue
		}

		var res Payload
		produced := false
		if preds := g.Predecessors(outID); len(preds) > 0 {
			res, produced = results[preds[0]]
		}

		if !produced {
			out.Data.Result = "No result"
			continue
		}
		out.Data.ImageURL = res.ImageURL
		out.Data.AudioURL = res.AudioURL
		switch {
		case res.Text != "":
			out.Data.Result = res.Text
		case res.Name != "":
			out.Data.Result = res.Name
		default:
			out.Data.Result = "No result"
		}
	}
}

// seedPayload turns an input node's data into the entry payload.
func seedPayload(d botflow.NodeData) Payload {
	return Payload{
		Text:     d.Text,
		Name:     d.Name,
		Category: d.Category,
		MIME:     d.MIME,
		FileRef:  d.FileRef,
	}
}
