package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/parley-sim/parley/pkg/errors"
)

// OpenAIProvider implements Provider against any OpenAI-compatible
// chat-completions endpoint (OpenAI itself, DashScope compatible mode,
// vLLM, and so on).
type OpenAIProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewOpenAI creates a provider for an OpenAI-compatible API.
func NewOpenAI(baseURL, apiKey string) *OpenAIProvider {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type openaiResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Usage openaiUsage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type openaiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Chat sends a chat-completions request and maps the response.
func (p *OpenAIProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, connectionError("chat completions call failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("openai", resp.StatusCode)
	}

	var oResp openaiResponse
	if err := json.Unmarshal(respBody, &oResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if oResp.Error != nil {
		return nil, errors.New(errors.CodeGenerationFailure, oResp.Error.Message, nil)
	}
	if len(oResp.Choices) == 0 {
		return nil, errors.New(errors.CodeGenerationFailure, "empty response", nil)
	}

	return &ChatResponse{
		Content: oResp.Choices[0].Message.Content,
		Usage: Usage{
			PromptTokens:     oResp.Usage.PromptTokens,
			CompletionTokens: oResp.Usage.CompletionTokens,
			TotalTokens:      oResp.Usage.TotalTokens,
		},
	}, nil
}

// connectionError wraps transport failures as recoverable generation errors.
func connectionError(msg string, cause error) error {
	return errors.New(errors.CodeGenerationFailure, msg, cause).WithRecoverable(true)
}

// statusError maps HTTP status codes: rate limits and server errors are
// recoverable, everything else is not.
func statusError(provider string, status int) error {
	msg := fmt.Sprintf("%s api returned status %d", provider, status)
	if status == http.StatusTooManyRequests {
		return errors.New(errors.CodeRateLimit, msg, nil)
	}
	e := errors.New(errors.CodeGenerationFailure, msg, nil)
	if status >= 500 {
		e = e.WithRecoverable(true)
	}
	return e
}
