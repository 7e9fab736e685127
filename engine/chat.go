package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/meikuraledutech/botflow"
)

const (
	defaultChatEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultChatModel    = "gpt-3.5-turbo"
	defaultMaxTokens    = 1000
)

func init() {
	Register(botflow.BotGPT, processGPT)
	Register(botflow.BotSummarizer, processSummarizer)
	Register(botflow.BotTranslator, processTranslator)
}

func processGPT(ctx context.Context, deps *Deps, in Payload, cfg map[string]string) Payload {
	system := cfg["systemPrompt"]
	if system == "" {
		system = "You are a helpful assistant."
	}
	out, err := chatComplete(ctx, deps, system, in.Text)
	if err != nil {
		return Payload{Text: "Error: " + err.Error()}
	}
	return Payload{Text: out}
}

func processSummarizer(ctx context.Context, deps *Deps, in Payload, cfg map[string]string) Payload {
	system := cfg["systemPrompt"]
	if system == "" {
		system = "Summarize the following text concisely."
	}
	out, err := chatComplete(ctx, deps, system, in.Text)
	if err != nil {
		return Payload{Text: "Error: " + err.Error()}
	}
	return Payload{Text: out}
}

func processTranslator(ctx context.Context, deps *Deps, in Payload, cfg map[string]string) Payload {
	prompt := cfg["prompt"]
	if prompt != "" {
		prompt = substitute(prompt, in.Text)
	} else {
		prompt = "Translate the following text to French: " + in.Text
	}
	out, err := chatComplete(ctx, deps, "", prompt)
	if err != nil {
		return Payload{Text: "Error: " + err.Error()}
	}
	return Payload{Text: out}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// chatComplete issues one chat-completions call. An empty system prompt
// sends a single user message.
func chatComplete(ctx context.Context, deps *Deps, system, user string) (string, error) {
	endpoint := deps.Chat.Endpoint
	if endpoint == "" {
		endpoint = defaultChatEndpoint
	}
	model := deps.Chat.Model
	if model == "" {
		model = defaultChatModel
	}
	maxTokens := deps.Chat.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	body := chatRequest{Model: model, MaxTokens: maxTokens}
	if system != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: system})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: user})

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if deps.Chat.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+deps.Chat.APIKey)
	}

	resp, err := deps.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", fmt.Errorf("chat API error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat API status %s", resp.Status)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("chat API returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
