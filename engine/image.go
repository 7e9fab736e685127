package engine

import (
	"context"
	"net/url"
	"strings"

	"github.com/meikuraledutech/botflow"
)

const defaultImageBaseURL = "https://image.pollinations.ai"

func init() {
	Register(botflow.BotImageGen, processImageGen)
	Register(botflow.BotImg2Img, processImg2Img)
}

// processImageGen builds an image-retrieval URL by percent-encoding the
// prompt into the endpoint template. Pure URL construction, cannot fail.
func processImageGen(_ context.Context, deps *Deps, in Payload, cfg map[string]string) Payload {
	prompt := cfg["prompt"]
	if prompt != "" {
		prompt = substitute(prompt, in.Text)
	} else {
		prompt = "illustration of " + in.Text
	}

	base := deps.Image.BaseURL
	if base == "" {
		base = defaultImageBaseURL
	}
	u := strings.TrimRight(base, "/") + "/prompt/" + url.PathEscape(prompt)

	return Payload{
		Text:     "Generated image: " + prompt,
		ImageURL: u,
	}
}

func processImg2Img(_ context.Context, _ *Deps, in Payload, _ map[string]string) Payload {
	return Payload{Text: "Mock image transform: " + in.Text}
}
