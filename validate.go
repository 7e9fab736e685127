package botflow

// CanConnect reports whether a source -> target edge would be legal in the
// current graph. Pure; AddEdge calls it before committing. Rules are
// evaluated in order, first failure rejects:
//
//  1. both endpoints must exist
//  2. no self-connection
//  3. inputs never receive
//  4. outputs never send
//  5. a target accepts at most one incoming edge
//  6. input -> bot must match the source category's allowed bot list
//  7. bot -> bot chains only from text producers, into another text or
//     audio producer, or into imagegen
//  8. bot -> output is always legal
func (g *Graph) CanConnect(sourceID, targetID string) bool {
	src, ok := g.Node(sourceID)
	if !ok {
		return false
	}
	tgt, ok := g.Node(targetID)
	if !ok {
		return false
	}
	if sourceID == targetID {
		return false
	}
	if tgt.Type == NodeInput {
		return false
	}
	if src.Type == NodeOutput {
		return false
	}
	for _, e := range g.Edges {
		if e.Target == targetID {
			return false
		}
	}

	switch {
	case src.Type == NodeInput:
		if tgt.Type != NodeBot {
			return false
		}
		for _, id := range inputTargets[src.Data.Category] {
			if id == tgt.Data.BotID {
				return true
			}
		}
		return false

	case src.Type == NodeBot && tgt.Type == NodeBot:
		sb, ok := BotByID(src.Data.BotID)
		if !ok {
			return false
		}
		tb, ok := BotByID(tgt.Data.BotID)
		if !ok {
			return false
		}
		if tb.ID == BotImageGen && sb.Output == CategoryText {
			return true
		}
		if sb.Output == CategoryText && (tb.Output == CategoryText || tb.Output == CategoryAudio) {
			return true
		}
		return false

	case src.Type == NodeBot && tgt.Type == NodeOutput:
		return true
	}

	return false
}
