package engine

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/meikuraledutech/botflow"
)

// Payload is the data flowing along an edge during execution: at minimum a
// text field, optionally image/audio URLs, plus the source metadata seeded
// from an input node.
type Payload struct {
	Text     string
	Name     string
	Category botflow.SourceCategory
	MIME     string
	FileRef  string
	ImageURL string
	AudioURL string
}

// ErrReadingPDF is the exact payload text produced when PDF extraction
// fails; it flows downstream like any other result.
const ErrReadingPDF = "Error reading PDF file"

// noInput is the placeholder when a payload carries neither text nor a name.
const noInput = "No input"

// TextExtractor pulls plain text out of an uploaded file reference.
type TextExtractor interface {
	Extract(ref string) (string, error)
}

// ChatConfig points the text bots at a chat-completions endpoint.
type ChatConfig struct {
	Endpoint  string
	Model     string
	APIKey    string
	MaxTokens int
}

// ImageConfig points imagegen at an image endpoint that serves
// <base>/prompt/<percent-encoded prompt>.
type ImageConfig struct {
	BaseURL string
}

// TTSConfig holds the fixed synthesis parameters sent to the TTS proxy.
type TTSConfig struct {
	Endpoint     string
	Model        string
	Voice        string
	OutputFormat string
	Speed        float64
	SampleRate   int
	Language     string
}

// Deps carries everything processors need. Zero values fall back to the
// package defaults, so the mock bots run with an empty Deps.
type Deps struct {
	HTTP  *http.Client
	Chat  ChatConfig
	Image ImageConfig
	TTS   TTSConfig
	PDF   TextExtractor
}

const defaultCallTimeout = 30 * time.Second

func (d *Deps) client() *http.Client {
	if d.HTTP != nil {
		return d.HTTP
	}
	return &http.Client{Timeout: defaultCallTimeout}
}

// ProcessorFunc transforms an input payload into an output payload. It never
// fails: every error degrades to a descriptive text payload so a run can
// carry on downstream.
type ProcessorFunc func(ctx context.Context, deps *Deps, in Payload, cfg map[string]string) Payload

var registry = map[botflow.BotID]ProcessorFunc{}

// Register installs the processor for a bot id. Called from init in the
// per-bot files; later registrations win, which is what tests rely on to
// stub a bot out.
func Register(id botflow.BotID, fn ProcessorFunc) {
	registry[id] = fn
}

// Process runs the common input-resolution pre-step and dispatches to the
// bot's processor. Unrecognized bot ids pass the resolved text through
// unchanged.
func Process(ctx context.Context, deps *Deps, id botflow.BotID, in Payload, cfg map[string]string) Payload {
	text, failed := resolveInput(deps, in)
	if failed {
		return Payload{Text: ErrReadingPDF}
	}
	in.Text = text

	fn, ok := registry[id]
	if !ok {
		return Payload{Text: text}
	}
	return fn(ctx, deps, in, cfg)
}

// resolveInput picks the textual input for a processor: the payload text,
// else the source name, else a placeholder. PDF-typed file references are
// replaced by their extracted text; extraction failure stops processing for
// the node.
func resolveInput(deps *Deps, in Payload) (text string, failed bool) {
	text = in.Text
	if text == "" {
		text = in.Name
	}
	if text == "" {
		text = noInput
	}
	if in.FileRef != "" && isPDF(in) && deps.PDF != nil {
		extracted, err := deps.PDF.Extract(in.FileRef)
		if err != nil {
			return "", true
		}
		text = extracted
	}
	return text, false
}

func isPDF(in Payload) bool {
	if in.MIME == "application/pdf" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(in.Name), ".pdf")
}

// substitute expands the {text} token in a configured prompt template.
func substitute(template, text string) string {
	return strings.ReplaceAll(template, "{text}", text)
}
