// Package ai wraps the OpenAI chat-completions API behind the three
// capabilities the orchestrator consumes: intent classification, product
// matching, and templated response generation.
//
// The wrapper is intentionally thin. Every operation builds one system
// prompt, sends a single completion request, and returns trimmed text.
// Upstream failures propagate unmodified; a missing API key is a
// configuration error surfaced at call time.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tiendabot/go-shop-assistant/internal/config"
	"github.com/tiendabot/go-shop-assistant/internal/domain"
)

// ErrNotConfigured is returned when OPENAI_API_KEY is absent.
var ErrNotConfigured = errors.New("openai api key is not configured")

// Client is the concrete OpenAI-backed implementation of the classifier,
// matcher, and generator capabilities.
type Client struct {
	cfg config.OpenAIConfig
	api *openai.Client
}

// NewClient builds a Client for the given settings.
func NewClient(cfg config.OpenAIConfig) *Client {
	return newClient(cfg, "")
}

// newClient allows tests to point the SDK at a local server.
func newClient(cfg config.OpenAIConfig, baseURL string) *Client {
	c := openai.DefaultConfig(cfg.APIKey)
	if baseURL != "" {
		c.BaseURL = baseURL
	}
	return &Client{cfg: cfg, api: openai.NewClientWithConfig(c)}
}

// chat sends one system+user exchange and returns the trimmed reply text.
func (c *Client) chat(ctx context.Context, system, user string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNotConfigured
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ClassifyIntent returns the raw classifier label for text. Callers map
// unrecognized labels to the fallback intent; this method never does.
func (c *Client) ClassifyIntent(ctx context.Context, text string) (string, error) {
	labels := make([]string, len(domain.AllIntents))
	for i, in := range domain.AllIntents {
		labels[i] = string(in)
	}
	system := "Classify the user's message into exactly one of these intents: " +
		strings.Join(labels, ", ") + ". " +
		"Reply ONLY with the intent label. If none fits, reply with \"other\"."
	return c.chat(ctx, system, text)
}

// MatchProduct maps free text plus the catalog onto zero-or-one product id.
// It returns "" when no product matches; that is a soft miss, not an error.
func (c *Client) MatchProduct(ctx context.Context, text string, catalog []domain.CatalogItem) (string, error) {
	entries := make([]string, len(catalog))
	for i, p := range catalog {
		entries[i] = fmt.Sprintf("%s (id: %s)", p.Name, p.ID)
	}
	system := "Identify if the user is referring to a product from the catalog. " +
		"Reply ONLY with the id of the product if there is a clear match. " +
		"Reply with \"none\" if no product matches. " +
		"Catalog: " + strings.Join(entries, "; ") + "."

	reply, err := c.chat(ctx, system, text)
	if err != nil {
		return "", err
	}
	id := strings.ToLower(strings.TrimSpace(reply))
	if id == "" || id == "none" {
		return "", nil
	}
	return id, nil
}
