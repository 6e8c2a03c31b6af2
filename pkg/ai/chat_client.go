package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const (
	defaultChatBaseURL     = "https://api.openai.com/v1"
	defaultChatModel       = "gpt-3.5-turbo"
	defaultChatMaxTokens   = 1000
	defaultChatTemperature = 0.7
	defaultChatTimeout     = 30 * time.Second
)

// ChatClient calls an OpenAI-compatible /v1/chat/completions endpoint.
// Works with OpenAI, vLLM, LiteLLM, OpenRouter and other compatible servers.
type ChatClient struct {
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// NewChatClient builds a chat-completion TextGenerator.
// baseURL should include the /v1 prefix; empty selects the OpenAI default.
func NewChatClient(baseURL string) *ChatClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultChatBaseURL
	}
	return &ChatClient{
		baseURL:     baseURL,
		model:       defaultChatModel,
		maxTokens:   defaultChatMaxTokens,
		temperature: defaultChatTemperature,
		httpClient: &http.Client{
			Timeout: defaultChatTimeout,
		},
	}
}

// GenerateText implements TextGenerator using the chat completions API.
func (c *ChatClient) GenerateText(ctx context.Context, apiKey, systemPrompt, userPrompt string) (string, error) {
	const op = "chat completion"

	messages := make([]chatMessage, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", &UpstreamError{Op: op, Kind: KindMalformed, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &UpstreamError{Op: op, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", classifyStatus(op, resp.StatusCode, resp.Status)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &UpstreamError{Op: op, Kind: KindMalformed, Err: err}
	}
	if len(chatResp.Choices) == 0 {
		return "", &UpstreamError{Op: op, Kind: KindMalformed, Err: errNoChoices}
	}
	text := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if text == "" {
		return "", &UpstreamError{Op: op, Kind: KindMalformed, Err: errEmptyContent}
	}
	return text, nil
}

// Chat completions request/response types.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
