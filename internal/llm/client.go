package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Message is one prior chat turn threaded into a generation call.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes a single non-streaming text generation.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	History     []Message
}

// maxHistoryTurns caps how many prior turns are sent with a request.
const maxHistoryTurns = 5

// Client calls the Anthropic Messages API to generate text.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client

	// Stats tracks call latencies for the stats endpoint.
	Stats *Stats
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		Stats: NewStats(time.Hour),
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate performs one completion and returns the model's text.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	reqBody := anthropicRequest{
		Model:       c.model,
		MaxTokens:   8192,
		System:      req.System,
		Temperature: req.Temperature,
		Messages:    buildMessages(req),
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.anthropic.com/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("anthropic api: %w", err)
	}
	defer resp.Body.Close()
	if c.Stats != nil {
		c.Stats.Record(time.Since(start).Milliseconds())
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic api status %d: %s", resp.StatusCode, truncate(string(respBody), 400))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("anthropic error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return "", nil
	}
	return apiResp.Content[0].Text, nil
}

// buildMessages assembles the wire messages: the most recent history turns
// (minus the trailing user turn, which the current prompt supersedes)
// followed by the prompt itself.
func buildMessages(req Request) []anthropicMessage {
	history := req.History
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	lastUser := -1
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != "assistant" {
			lastUser = i
			break
		}
	}

	msgs := make([]anthropicMessage, 0, len(history)+1)
	for i, m := range history {
		if i == lastUser || m.Content == "" {
			continue
		}
		role := "user"
		if m.Role == "assistant" {
			role = "assistant"
		}
		msgs = append(msgs, anthropicMessage{Role: role, Content: m.Content})
	}
	msgs = append(msgs, anthropicMessage{Role: "user", Content: req.Prompt})
	return msgs
}

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// StripCodeFence removes a surrounding markdown code fence, if any. Models
// often wrap JSON answers in ```json blocks despite instructions not to.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
