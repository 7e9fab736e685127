package botflow

import "fmt"

// BotID identifies one of the built-in AI operations.
type BotID string

const (
	BotGPT         BotID = "gpt"
	BotSummarizer  BotID = "summarizer"
	BotTranslator  BotID = "translator"
	BotImageGen    BotID = "imagegen"
	BotImg2Img     BotID = "img2img"
	BotSpeech2Text BotID = "speech2text"
	BotText2Speech BotID = "text2speech"
	BotSentiment   BotID = "sentiment"
	BotCodegen     BotID = "codegen"
	BotExtract     BotID = "extract"
)

// Category is the data kind a bot consumes or produces.
type Category string

const (
	CategoryText  Category = "text"
	CategoryImage Category = "image"
	CategoryAudio Category = "audio"
	CategoryCode  Category = "code"
)

// Bot describes one catalog entry: display metadata plus the categories
// used by the connection validator.
type Bot struct {
	ID          BotID
	Name        string
	Description string
	Input       Category
	Output      Category
}

// Bots is the builtin catalog, in sidebar order.
var Bots = []Bot{
	{BotGPT, "Text Generator", "Generate text using GPT", CategoryText, CategoryText},
	{BotSummarizer, "Summarizer", "Summarize text", CategoryText, CategoryText},
	{BotTranslator, "Translator", "Translate text", CategoryText, CategoryText},
	{BotImageGen, "Image Generator", "Create images from prompts", CategoryText, CategoryImage},
	{BotImg2Img, "Image-to-Image", "Transform images", CategoryImage, CategoryImage},
	{BotSpeech2Text, "Speech to Text", "Transcribe audio", CategoryAudio, CategoryText},
	{BotText2Speech, "Text to Speech", "Convert text to speech", CategoryText, CategoryAudio},
	{BotSentiment, "Sentiment Analysis", "Analyze sentiment", CategoryText, CategoryText},
	{BotCodegen, "Code Generator", "Generate code", CategoryText, CategoryCode},
	{BotExtract, "Entity Extractor", "Extract entities from text", CategoryText, CategoryText},
}

// BotByID looks up a catalog entry.
func BotByID(id BotID) (Bot, bool) {
	for _, b := range Bots {
		if b.ID == id {
			return b, true
		}
	}
	return Bot{}, false
}

// inputTargets lists, per source category, the bots an input node may feed.
var inputTargets = map[SourceCategory][]BotID{
	SourceImage: {BotImageGen, BotImg2Img},
	SourceAudio: {BotSpeech2Text, BotText2Speech},
	SourceFile: {
		BotSummarizer, BotTranslator, BotGPT, BotSentiment,
		BotCodegen, BotExtract, BotImageGen, BotText2Speech,
	},
}

// configKeys lists the config keys each bot understands.
var configKeys = map[BotID][]string{
	BotGPT:         {"prompt", "systemPrompt"},
	BotSummarizer:  {"prompt", "systemPrompt"},
	BotTranslator:  {"prompt", "language"},
	BotImageGen:    {"prompt", "size"},
	BotImg2Img:     {"prompt", "size"},
	BotSpeech2Text: {"language"},
	BotText2Speech: {"voice", "language"},
	BotSentiment:   {},
	BotCodegen:     {"prompt", "language"},
	BotExtract:     {"prompt"},
}

// ValidateConfig checks a bot configuration at save time: every key must be
// one the bot understands. Unknown bot ids are accepted unchecked since they
// run as identity passthrough.
func ValidateConfig(id BotID, cfg map[string]string) error {
	keys, ok := configKeys[id]
	if !ok {
		return nil
	}
	for k := range cfg {
		known := false
		for _, allowed := range keys {
			if k == allowed {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("botflow: bot %s: unknown config key %q", id, k)
		}
	}
	return nil
}
