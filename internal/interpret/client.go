// Package interpret is the boundary to the natural-language command
// interpreter. It holds the LLM client, the document context and prompt
// builders, and the resolver that falls back to the deterministic parser
// when the interpreter is unavailable or returns an invalid payload.
package interpret

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

	"rptedit/internal/command"
)

const systemPrompt = "You are a Crystal Reports editing expert. Parse natural language editing commands into structured operations. Return valid JSON only."

// Client calls the Anthropic Messages API to interpret edit instructions.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
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

// Interpret asks the model to map an instruction to an edit command given
// the document-derived context text.
func (c *Client) Interpret(ctx context.Context, instruction, editContext string) (command.Command, error) {
	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: 500,
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: buildPrompt(editContext, instruction)},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return command.Command{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.anthropic.com/v1/messages", bytes.NewReader(body))
	if err != nil {
		return command.Command{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return command.Command{}, fmt.Errorf("interpreter api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return command.Command{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return command.Command{}, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return command.Command{}, fmt.Errorf("interpreter api status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return command.Command{}, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return command.Command{}, fmt.Errorf("interpreter error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return command.Command{}, fmt.Errorf("empty response from interpreter")
	}

	return DecodeReply(apiResp.Content[0].Text)
}

// DecodeReply extracts a validated command from raw interpreter output,
// stripping markdown code fences and salvaging a JSON object embedded in
// surrounding prose before giving up.
func DecodeReply(text string) (command.Command, error) {
	text = stripCodeBlock(text)

	cmd, err := command.Decode([]byte(text))
	if err == nil {
		return cmd, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if cmd, salvageErr := command.Decode([]byte(text[start : end+1])); salvageErr == nil {
			return cmd, nil
		}
	}
	return command.Command{}, fmt.Errorf("invalid interpreter payload: %w (raw: %s)", err, truncate(text, 200))
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
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
