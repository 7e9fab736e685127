package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/meikuraledutech/botflow"
)

const (
	defaultTTSEndpoint   = "http://localhost:3000/api/tts"
	defaultTTSModel      = "PlayHT2.0-turbo"
	defaultTTSVoice      = "s3://voice-cloning-zero-shot/d9ff78ba-d016-47f6-b0ef-dd630f59414e/female-cs/manifest.json"
	defaultTTSFormat     = "mp3"
	defaultTTSSpeed      = 1
	defaultTTSSampleRate = 24000
	defaultTTSLanguage   = "english"
)

func init() {
	Register(botflow.BotText2Speech, processText2Speech)
	Register(botflow.BotSpeech2Text, processSpeech2Text)
}

type ttsRequest struct {
	Model        string  `json:"model"`
	Text         string  `json:"text"`
	Voice        string  `json:"voice"`
	OutputFormat string  `json:"outputFormat"`
	Speed        float64 `json:"speed"`
	SampleRate   int     `json:"sampleRate"`
	Language     string  `json:"language"`
}

type ttsResponse struct {
	AudioURL string `json:"audioUrl"`
	URL      string `json:"url"`
	Error    string `json:"error"`
}

// processText2Speech calls the key-hiding TTS proxy with the resolved text
// and the configured synthesis parameters, surfacing the audio URL from the
// response.
func processText2Speech(ctx context.Context, deps *Deps, in Payload, cfg map[string]string) Payload {
	t := deps.TTS
	if t.Endpoint == "" {
		t.Endpoint = defaultTTSEndpoint
	}
	if t.Model == "" {
		t.Model = defaultTTSModel
	}
	if t.Voice == "" {
		t.Voice = defaultTTSVoice
	}
	if t.OutputFormat == "" {
		t.OutputFormat = defaultTTSFormat
	}
	if t.Speed == 0 {
		t.Speed = defaultTTSSpeed
	}
	if t.SampleRate == 0 {
		t.SampleRate = defaultTTSSampleRate
	}
	if t.Language == "" {
		t.Language = defaultTTSLanguage
	}
	if v := cfg["voice"]; v != "" {
		t.Voice = v
	}
	if l := cfg["language"]; l != "" {
		t.Language = l
	}

	body := ttsRequest{
		Model:        t.Model,
		Text:         in.Text,
		Voice:        t.Voice,
		OutputFormat: t.OutputFormat,
		Speed:        t.Speed,
		SampleRate:   t.SampleRate,
		Language:     t.Language,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return Payload{Text: "Error: encode tts request: " + err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, bytes.NewReader(data))
	if err != nil {
		return Payload{Text: "Error: build tts request: " + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := deps.client().Do(req)
	if err != nil {
		return Payload{Text: "Error: tts request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Payload{Text: fmt.Sprintf("Error: tts status %s", resp.Status)}
	}
	var parsed ttsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Payload{Text: "Error: decode tts response: " + err.Error()}
	}
	audioURL := parsed.AudioURL
	if audioURL == "" {
		audioURL = parsed.URL
	}
	if audioURL == "" {
		return Payload{Text: "Error: tts response carried no audio URL"}
	}
	return Payload{
		Text:     "Speech synthesized",
		AudioURL: audioURL,
	}
}

func processSpeech2Text(_ context.Context, _ *Deps, in Payload, _ map[string]string) Payload {
	return Payload{Text: "Mock transcription: " + in.Text}
}
