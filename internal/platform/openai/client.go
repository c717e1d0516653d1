package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lecturelab/lectura-backend/internal/platform/envutil"
	"github.com/lecturelab/lectura-backend/internal/platform/httpx"
	"github.com/lecturelab/lectura-backend/internal/platform/logger"
	"github.com/lecturelab/lectura-backend/internal/platform/promptstyle"
)

// ChatTurn is one prior message in a multi-turn generation request.
type ChatTurn struct {
	Role    string // "user" | "assistant"
	Content string
}

// Client is the generative API client used by the rest of the backend.
type Client interface {
	// Plain text (no schema)
	GenerateText(ctx context.Context, system string, user string) (string, error)

	// Structured outputs (json_schema)
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error)

	// Multi-turn: prior history + new user text -> plain text
	GenerateChat(ctx context.Context, system string, history []ChatTurn, user string) (string, error)

	// Web-search-grounded plain text. Tool use and structured output are
	// mutually exclusive for a given request.
	GenerateTextWithWebSearch(ctx context.Context, system string, user string) (string, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client

	maxRetries int

	temperature        *float64
	disableTemperature bool

	// Runtime learning: if a model rejects temperature, remember and omit thereafter.
	noTempMu   sync.RWMutex
	noTempSeen map[string]bool
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	baseURL := strings.TrimRight(envutil.Str("OPENAI_BASE_URL", "https://api.openai.com"), "/")
	model := envutil.Str("OPENAI_MODEL", "gpt-5.2")

	timeoutSec := envutil.Int("OPENAI_TIMEOUT_SECONDS", 180)
	maxRetries := envutil.Int("OPENAI_MAX_RETRIES", 4)
	if maxRetries < 0 {
		maxRetries = 0
	}

	disableTemperature := envutil.Bool("OPENAI_DISABLE_TEMPERATURE", false)
	tempPtr := (*float64)(nil)
	if !disableTemperature {
		temp := 0.2
		if v := strings.TrimSpace(os.Getenv("OPENAI_TEMPERATURE")); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				temp = f
			}
		}
		tempPtr = &temp
	}

	return &client{
		log:                log.With("client", "OpenAIClient"),
		baseURL:            baseURL,
		apiKey:             apiKey,
		model:              model,
		httpClient:         &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries:         maxRetries,
		temperature:        tempPtr,
		disableTemperature: disableTemperature,
		noTempSeen:         map[string]bool{},
	}, nil
}

type openAIHTTPError struct {
	StatusCode int
	Body       string
}

func (e *openAIHTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func (e *openAIHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// -------------------- Responses API --------------------

type responsesInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model string           `json:"model"`
	Input []responsesInput `json:"input"`

	Text struct {
		Format map[string]any `json:"format,omitempty"`
	} `json:"text,omitempty"`

	Tools []map[string]any `json:"tools,omitempty"`

	Temperature *float64 `json:"temperature,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
}

func extractOutputText(resp responsesResponse) string {
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type == "message" && item.Role == "assistant" {
			for _, c := range item.Content {
				if c.Type == "output_text" && c.Text != "" {
					out.WriteString(c.Text)
				}
			}
		}
	}
	return out.String()
}

func (c *client) applyTemperature(req *responsesRequest) {
	if req == nil || c.disableTemperature || c.temperature == nil {
		return
	}
	c.noTempMu.RLock()
	seen := c.noTempSeen[strings.ToLower(req.Model)]
	c.noTempMu.RUnlock()
	if seen {
		return
	}
	req.Temperature = c.temperature
}

func (c *client) noteNoTempModel(model string) {
	c.noTempMu.Lock()
	c.noTempSeen[strings.ToLower(model)] = true
	c.noTempMu.Unlock()
}

func isUnsupportedTemperatureParam(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "temperature") {
		return false
	}
	return strings.Contains(msg, "unsupported parameter") ||
		strings.Contains(msg, "unknown parameter") ||
		strings.Contains(msg, "not supported") ||
		strings.Contains(msg, "does not support") ||
		strings.Contains(msg, "only the default") ||
		strings.Contains(msg, "invalid_request_error")
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &openAIHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("openai decode error: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("OpenAI request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return errors.New("unreachable retry loop")
}

// doWithTempFallback retries exactly once without temperature if the model rejects it.
func (c *client) doWithTempFallback(ctx context.Context, req *responsesRequest, out any) error {
	err := c.do(ctx, "POST", "/v1/responses", req, out)
	if err == nil {
		return nil
	}
	if req.Temperature == nil || !isUnsupportedTemperatureParam(err) {
		return err
	}
	c.noteNoTempModel(req.Model)
	req.Temperature = nil
	return c.do(ctx, "POST", "/v1/responses", req, out)
}

func (c *client) generate(ctx context.Context, req *responsesRequest) (string, error) {
	var resp responsesResponse
	if err := c.doWithTempFallback(ctx, req, &resp); err != nil {
		return "", err
	}
	if resp.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", resp.Refusal)
	}
	text := extractOutputText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no output_text found in response")
	}
	return text, nil
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	system = promptstyle.ApplySystem(system, "text")
	req := responsesRequest{
		Model: c.model,
		Input: []responsesInput{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	c.applyTemperature(&req)
	return c.generate(ctx, &req)
}

func (c *client) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	if schemaName == "" {
		return nil, errors.New("schemaName required")
	}
	if schema == nil {
		return nil, errors.New("schema required")
	}
	system = promptstyle.ApplySystem(system, "json")

	req := responsesRequest{
		Model: c.model,
		Input: []responsesInput{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	c.applyTemperature(&req)

	req.Text.Format = map[string]any{
		"type":   "json_schema",
		"name":   schemaName,
		"schema": schema,
		"strict": true,
	}

	jsonText, err := c.generate(ctx, &req)
	if err != nil {
		return nil, err
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(jsonText), &obj); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w; text=%s", err, jsonText)
	}
	return obj, nil
}

func (c *client) GenerateChat(ctx context.Context, system string, history []ChatTurn, user string) (string, error) {
	system = promptstyle.ApplySystem(system, "text")
	input := make([]responsesInput, 0, len(history)+2)
	input = append(input, responsesInput{Role: "system", Content: system})
	for _, turn := range history {
		role := strings.TrimSpace(strings.ToLower(turn.Role))
		if role != "user" && role != "assistant" {
			continue
		}
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		input = append(input, responsesInput{Role: role, Content: turn.Content})
	}
	input = append(input, responsesInput{Role: "user", Content: user})

	req := responsesRequest{Model: c.model, Input: input}
	c.applyTemperature(&req)
	return c.generate(ctx, &req)
}

func (c *client) GenerateTextWithWebSearch(ctx context.Context, system string, user string) (string, error) {
	system = promptstyle.ApplySystem(system, "text")
	req := responsesRequest{
		Model: c.model,
		Input: []responsesInput{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Tools: []map[string]any{
			{"type": "web_search"},
		},
	}
	c.applyTemperature(&req)
	return c.generate(ctx, &req)
}
