// Package chat forwards conversations to an OpenAI-compatible completion API
// behind a fixed system prompt.
package chat

import (
	"context"
	"crypto/tls"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/pkg/errors"

	"gpurouter/pkg/known"
	"gpurouter/pkg/models"
)

// Completer produces the assistant reply for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []models.ChatMessage) (string, error)
}

// Config completion endpoint settings
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultConfig returns the DeepSeek defaults without an API key.
func DefaultConfig() Config {
	return Config{
		BaseURL:     known.DeepSeekHost,
		Model:       known.DefaultChatModel,
		Temperature: known.ChatTemperature,
		MaxTokens:   known.ChatMaxTokens,
		Timeout:     60 * time.Second,
	}
}

type completionRequest struct {
	Model       string               `json:"model"`
	Messages    []models.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
}

// completionResponse keeps Choices as a pointer so a missing field can be told
// apart from an empty list.
type completionResponse struct {
	Choices *[]struct {
		Message models.ChatMessage `json:"message"`
	} `json:"choices"`
}

// Client is a Completer backed by the hertz HTTP client.
type Client struct {
	cfg Config
	uri string
	hc  *client.Client
}

// NewClient validates cfg and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("chat: api key is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = known.DeepSeekHost
	}
	if cfg.Model == "" {
		cfg.Model = known.DefaultChatModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = known.ChatMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	uri, err := url.JoinPath(cfg.BaseURL, known.ChatCompletionsURI)
	if err != nil {
		return nil, errors.Wrapf(err, "chat: invalid base url %q", cfg.BaseURL)
	}
	hc, err := client.NewClient(
		client.WithDialer(standard.NewDialer()),
		client.WithTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "chat: failed to create http client")
	}
	return &Client{cfg: cfg, uri: uri, hc: hc}, nil
}

// Complete sends one non-streaming completion request. It returns the first
// choice's content, which may be empty.
func (c *Client) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	req, resp := protocol.AcquireRequest(), protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	body, err := sonic.Marshal(completionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, "chat: failed to encode request")
	}
	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.uri)
	req.SetBody(body)
	req.SetHeaders(map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
	})
	req.SetAuthToken(c.cfg.APIKey)

	if err = c.hc.DoTimeout(ctx, req, resp, c.cfg.Timeout); err != nil {
		return "", errors.Wrap(err, "chat: completion request failed")
	}
	if status := resp.StatusCode(); status != consts.StatusOK {
		return "", errors.Errorf("chat: completion returned %d: %s", status, apiErrorMessage(resp.Body()))
	}

	var out completionResponse
	if err = sonic.Unmarshal(resp.Body(), &out); err != nil {
		return "", errors.Wrapf(err, "chat: failed to parse completion %s", string(resp.Body()))
	}
	if out.Choices == nil {
		return "", errors.Errorf("chat: completion has no choices field: %s", string(resp.Body()))
	}
	choices := *out.Choices
	if len(choices) == 0 {
		return "", nil
	}
	return choices[0].Message.Content, nil
}

// apiErrorMessage extracts error.message from an error body, falling back to
// the raw body.
func apiErrorMessage(body []byte) string {
	root, err := sonic.Get(body, "error", "message")
	if err == nil {
		if msg, err := root.String(); err == nil && msg != "" {
			return msg
		}
	}
	return string(body)
}
