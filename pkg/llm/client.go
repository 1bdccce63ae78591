package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/parley-sim/parley/pkg/errors"
	"github.com/parley-sim/parley/pkg/resilience"
)

// jsonInstruction is appended to system prompts for structured calls.
const jsonInstruction = `
Return the result strictly as JSON. Requirements:
1. Output JSON only, with no surrounding text.
2. Do not use markdown code fences.
3. Make sure the JSON is well-formed and parseable.`

// StructuredResult is the outcome of a structured generation call. It is
// a sum type: either Payload holds a decoded JSON document, or Err holds
// the failure sentinel with the raw text preserved for diagnostics.
// Callers are expected to normalize a failed result locally rather than
// treat it as a fatal error.
type StructuredResult struct {
	Payload json.RawMessage
	Raw     string
	Err     error
}

// Failed reports whether the call produced no usable payload.
func (r StructuredResult) Failed() bool { return r.Err != nil }

// Client wraps a Provider with the behavior the interview engine needs:
// retry with backoff, system+user prompt assembly, and structured JSON
// decoding at the boundary.
type Client struct {
	provider Provider
	model    string
	retry    resilience.RetryConfig
	logger   *slog.Logger
}

// NewClient creates a generation client. A nil provider puts the client
// in offline mode backed by MockProvider.
func NewClient(provider Provider, model string) *Client {
	if provider == nil {
		provider = &MockProvider{}
	}
	return &Client{
		provider: provider,
		model:    model,
		retry:    resilience.DefaultRetryConfig(),
		logger:   slog.Default(),
	}
}

// WithRetry overrides the retry policy.
func (c *Client) WithRetry(rc resilience.RetryConfig) *Client {
	c.retry = rc
	return c
}

// WithLogger overrides the logger.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// GenerateText produces free text from a system prompt, optional prior
// history, and a user message.
func (c *Client) GenerateText(ctx context.Context, system, user string, temperature float64, history ...Message) (string, error) {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: system})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: user})

	return c.chat(ctx, messages, temperature)
}

// GenerateStructured produces a JSON document. Failures, including
// unparsable output, are reported through the result sentinel and never
// as a Go error: the caller's normalizer owns recovery.
func (c *Client) GenerateStructured(ctx context.Context, system, user string, temperature float64) StructuredResult {
	text, err := c.GenerateText(ctx, system+"\n"+jsonInstruction, user, temperature)
	if err != nil {
		return StructuredResult{Err: err}
	}

	payload, ok := extractJSON(text)
	if !ok {
		c.logger.WarnContext(ctx, "structured output not parseable", "raw_prefix", prefix(text, 200))
		return StructuredResult{
			Raw: text,
			Err: errors.New(errors.CodeMalformedOutput, "response is not valid JSON", nil),
		}
	}
	return StructuredResult{Payload: payload, Raw: text}
}

func (c *Client) chat(ctx context.Context, messages []Message, temperature float64) (string, error) {
	req := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   2000,
	}

	var content string
	err := c.retry.Do(ctx, func() error {
		resp, err := c.provider.Chat(ctx, req)
		if err != nil {
			return err
		}
		content = strings.TrimSpace(resp.Content)
		return nil
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "generation call failed", "error", err)
		return "", errors.AsParleyError(err)
	}
	return content, nil
}

// extractJSON pulls a JSON document out of LLM text that may be wrapped
// in markdown fences or surrounded by prose.
func extractJSON(text string) (json.RawMessage, bool) {
	cleaned := strings.TrimSpace(text)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	cleaned = strings.TrimSpace(cleaned)

	if json.Valid([]byte(cleaned)) {
		return json.RawMessage(cleaned), true
	}

	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(cleaned, pair[0])
		end := strings.LastIndex(cleaned, pair[1])
		if start >= 0 && end > start {
			candidate := cleaned[start : end+1]
			if json.Valid([]byte(candidate)) {
				return json.RawMessage(candidate), true
			}
		}
	}

	return nil, false
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
