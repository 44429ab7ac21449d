package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kanekosora-114/Tune-into-English/logger"
	"github.com/kanekosora-114/Tune-into-English/model"
)

// ErrNoChoices is returned when the API answers without any completion.
var ErrNoChoices = errors.New("no response choices returned")

// ChatClientConfig contains configuration for the chat client.
type ChatClientConfig struct {
	APIBaseURL string
	APIKey     string
	MaxTokens  int
	Timeout    time.Duration
}

// ChatClient talks to an OpenAI-compatible chat completions endpoint.
type ChatClient struct {
	config     *ChatClientConfig
	httpClient *http.Client
}

// NewChatClient creates a new chat client.
func NewChatClient(config *ChatClientConfig) *ChatClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ChatClient{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func buildMessages(req model.CompletionRequest) []model.OpenAIChatMessage {
	messages := make([]model.OpenAIChatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, model.OpenAIChatMessage{Role: "system", Content: req.System})
	}
	return append(messages, model.OpenAIChatMessage{Role: "user", Content: req.User})
}

// Complete sends one system + user exchange and returns the first choice's
// message content unmodified.
func (c *ChatClient) Complete(ctx context.Context, req model.CompletionRequest) (string, error) {
	reqBody := model.OpenAIChatRequest{
		Model:       req.Model,
		Messages:    buildMessages(req),
		MaxTokens:   c.config.MaxTokens,
		Temperature: req.Temperature,
		Stream:      false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIBaseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr model.OpenAIErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp model.OpenAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", ErrNoChoices
	}

	logger.Debug("[ChatClient] completion finished",
		logger.String("model", chatResp.Model),
		logger.Int("totalTokens", chatResp.Usage.TotalTokens),
		logger.Duration("elapsed", time.Since(start)))

	return chatResp.Choices[0].Message.Content, nil
}
