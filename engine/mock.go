package engine

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/meikuraledutech/botflow"
)

// randIntn is swapped out by tests that need a fixed sentiment draw.
var randIntn = rand.Intn

var sentimentLabels = [...]string{"positive", "neutral", "negative"}

func init() {
	Register(botflow.BotSentiment, processSentiment)
	Register(botflow.BotCodegen, processCodegen)
	Register(botflow.BotExtract, processExtract)
}

func processSentiment(_ context.Context, _ *Deps, in Payload, _ map[string]string) Payload {
	label := sentimentLabels[randIntn(len(sentimentLabels))]
	return Payload{Text: fmt.Sprintf("Mock sentiment of %q: %s", in.Text, label)}
}

func processCodegen(_ context.Context, _ *Deps, in Payload, _ map[string]string) Payload {
	return Payload{Text: "Mock generated code: " + in.Text}
}

func processExtract(_ context.Context, _ *Deps, in Payload, _ map[string]string) Payload {
	return Payload{Text: "Mock extracted entities: " + in.Text}
}
