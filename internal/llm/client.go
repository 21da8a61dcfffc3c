package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/Almyria/VillagerGPT/internal/configs"
	"github.com/Almyria/VillagerGPT/internal/vglog"
)

const (
	RequestFailureBackoffSeconds = 30
	requestTimeout               = 30 * time.Second
)

// Client talks to an OpenAI-compatible or Ollama endpoint, selected by
// configuration. After a transport failure it refuses new requests for
// a short backoff window.
type Client struct {
	http *http.Client

	waitMutex sync.RWMutex
	waitUntil time.Time
}

var _ GenerationClient = (*Client)(nil)

func NewClient() *Client {
	return &Client{
		http: &http.Client{Timeout: requestTimeout},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response        string `json:"response"`
	Error           string `json:"error,omitempty"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
}

// Complete implements GenerationClient.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {

	config := configs.GetLLMConfig()

	if !config.Enabled {
		return ``, errors.Wrap(ErrGenerationUnavailable, `LLM generation is disabled`)
	}

	if c.isRequestBackoff() {
		vglog.Warn("LLM", "info", "request rejected, service is in backoff")
		return ``, errors.Wrap(ErrGenerationUnavailable, `service is in backoff`)
	}

	vglog.Debug("LLM", "request", "sending request", "provider", config.Provider, "model", config.Model, "messages", len(messages))

	start := time.Now()

	var text string
	var inputTokens, outputTokens int
	var err error

	if config.Provider == configs.ProviderOllama {
		text, inputTokens, outputTokens, err = c.completeOllama(ctx, config, messages)
	} else {
		text, inputTokens, outputTokens, err = c.completeOpenAI(ctx, config, messages)
	}

	if err != nil {
		c.doRequestBackoff()
		vglog.Error("LLM", "error", "request failed", "err", err.Error())
		return ``, errors.Wrap(errors.WithMessage(ErrGenerationUnavailable, err.Error()), `completion`)
	}

	vglog.Info("LLM", "response", "received response", "duration", time.Since(start).String())

	if participant := participantFrom(ctx); participant != `` {
		RecordTokenUsage(participant, config.Model, inputTokens, outputTokens)
	}

	return text, nil
}

func (c *Client) completeOpenAI(ctx context.Context, config configs.LLM, messages []Message) (string, int, int, error) {

	reqBody := chatRequest{
		Model:       config.Model,
		Messages:    messages,
		Temperature: config.Temperature,
		MaxTokens:   config.MaxTokens,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return ``, 0, 0, errors.Wrap(err, `marshal request`)
	}

	url := strings.TrimSuffix(config.BaseURL, `/`) + `/chat/completions`

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqJSON))
	if err != nil {
		return ``, 0, 0, errors.Wrap(err, `create request`)
	}

	req.Header.Set(`Content-Type`, `application/json`)
	if config.APIKey != `` {
		req.Header.Set(`Authorization`, `Bearer `+string(config.APIKey))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ``, 0, 0, errors.Wrap(err, `send request`)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return ``, 0, 0, errors.Errorf(`unexpected status code %d: %s`, resp.StatusCode, truncate(string(body), 200))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return ``, 0, 0, errors.Wrap(err, `decode response`)
	}

	if chatResp.Error != nil && chatResp.Error.Message != `` {
		return ``, 0, 0, errors.New(`API error: ` + chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return ``, 0, 0, errors.New(`no choices in response`)
	}

	return chatResp.Choices[0].Message.Content, chatResp.Usage.PromptTokens, chatResp.Usage.CompletionTokens, nil
}

// completeOllama flattens the message log into a single prompt for the
// /api/generate endpoint, the way local Ollama installs expect.
func (c *Client) completeOllama(ctx context.Context, config configs.LLM, messages []Message) (string, int, int, error) {

	var prompt strings.Builder
	for _, msg := range messages {
		prompt.WriteString(string(msg.Role))
		prompt.WriteString(`: `)
		prompt.WriteString(msg.Content)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString(`assistant: `)

	reqBody := generateRequest{
		Model:       config.Model,
		Prompt:      prompt.String(),
		Stream:      false,
		Temperature: config.Temperature,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return ``, 0, 0, errors.Wrap(err, `marshal request`)
	}

	url := strings.TrimSuffix(config.BaseURL, `/`) + `/api/generate`

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqJSON))
	if err != nil {
		return ``, 0, 0, errors.Wrap(err, `create request`)
	}
	req.Header.Set(`Content-Type`, `application/json`)

	resp, err := c.http.Do(req)
	if err != nil {
		return ``, 0, 0, errors.Wrap(err, `send request`)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return ``, 0, 0, errors.Errorf(`unexpected status code %d: %s`, resp.StatusCode, truncate(string(body), 200))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return ``, 0, 0, errors.Wrap(err, `decode response`)
	}

	if genResp.Error != `` {
		return ``, 0, 0, errors.New(`API error: ` + genResp.Error)
	}

	if !genResp.Done {
		return ``, 0, 0, errors.New(`response not complete (done=false)`)
	}

	inputTokens := genResp.PromptEvalCount
	outputTokens := genResp.EvalCount
	if inputTokens == 0 && outputTokens == 0 {
		inputTokens = EstimateTokenCount(prompt.String())
		outputTokens = EstimateTokenCount(genResp.Response)
	}

	return genResp.Response, inputTokens, outputTokens, nil
}

// Returns true if requests are in a penalty box
func (c *Client) isRequestBackoff() bool {
	c.waitMutex.RLock()
	defer c.waitMutex.RUnlock()
	return c.waitUntil.After(time.Now())
}

// Sets a time for requests to resume
func (c *Client) doRequestBackoff() {
	c.waitMutex.Lock()
	c.waitUntil = time.Now().Add(RequestFailureBackoffSeconds * time.Second)
	c.waitMutex.Unlock()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return fmt.Sprintf(`%s...`, s[:max])
}
