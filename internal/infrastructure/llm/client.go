package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/casewell/docvault/internal/infrastructure/resilience"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

type Config struct {
	Provider string // "openai", "anthropic" or "gemini"
	APIKey   string
	Model    string

	// BaseURL overrides the provider endpoint, mainly for tests.
	BaseURL string

	Timeout time.Duration
}

// Client is a unified completion client over the three hosted providers.
// An empty API key leaves the client unconfigured; callers are expected to
// check Configured and fall back rather than call Complete.
type Client struct {
	cfg        Config
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(cfg Config, executor *resilience.Executor) *Client {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Model == "" {
		cfg.Model = defaultModel(cfg.Provider)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL(cfg.Provider)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig())
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		executor:   executor,
	}
}

func (c *Client) Configured() bool {
	if c == nil || c.cfg.APIKey == "" {
		return false
	}
	switch c.cfg.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
		return true
	default:
		return false
	}
}

func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	operation := c.cfg.Provider + " complete"

	var result string
	err := c.executor.Execute(ctx, operation, func(ctx context.Context) error {
		text, err := c.complete(ctx, prompt, maxTokens)
		if err != nil {
			return err
		}
		result = text
		return nil
	}, classifyProviderError)
	if err != nil {
		return "", wrapTemporaryIfNeeded(operation, err)
	}
	return strings.TrimSpace(result), nil
}

func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	switch c.cfg.Provider {
	case ProviderOpenAI:
		return c.openAIComplete(ctx, prompt, maxTokens)
	case ProviderAnthropic:
		return c.anthropicComplete(ctx, prompt, maxTokens)
	case ProviderGemini:
		return c.geminiComplete(ctx, prompt, maxTokens)
	default:
		return "", &UnknownProviderError{Provider: c.cfg.Provider}
	}
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	case ProviderGemini:
		return "gemini-2.0-flash"
	default:
		return ""
	}
}

func defaultBaseURL(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "https://api.openai.com"
	case ProviderAnthropic:
		return "https://api.anthropic.com"
	case ProviderGemini:
		return "https://generativelanguage.googleapis.com"
	default:
		return ""
	}
}
