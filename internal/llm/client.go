package llm

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/sirupsen/logrus"
)

const (
	organizationHeader = "OpenAI-Organization"
	projectHeader      = "OpenAI-Project"
)

// ClientOptions controls how the chat-completion client is initialised.
type ClientOptions struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// Client wraps the OpenAI SDK chat-completion service pointed at a compatible server.
type Client struct {
	chat    chatCompletionClient
	logger  *logrus.Logger
	baseURL string
}

type chatCompletionClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// NewClient constructs a Client bound to the given endpoint and credential.
// Retries are disabled: one call yields one outcome.
func NewClient(opts ClientOptions) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, clientError("api key is required")
	}

	baseURL, err := validateBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	if opts.Timeout < 0 {
		return nil, clientError("timeout must not be negative")
	}

	// The SDK defaults pick up OPENAI_ORG_ID and OPENAI_PROJECT_ID; only
	// the configured endpoint and credential may shape the request.
	requestOptions := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
		option.WithHeaderDel(organizationHeader),
		option.WithHeaderDel(projectHeader),
	}

	if opts.Timeout > 0 {
		requestOptions = append(requestOptions, option.WithRequestTimeout(opts.Timeout))
	}

	if opts.HTTPClient != nil {
		requestOptions = append(requestOptions, option.WithHTTPClient(opts.HTTPClient))
	}

	apiClient := openai.NewClient(requestOptions...)

	return &Client{
		chat:    &apiClient.Chat.Completions,
		logger:  opts.Logger,
		baseURL: baseURL,
	}, nil
}

// Logger exposes the logger associated with the client.
func (c *Client) Logger() *logrus.Logger {
	return c.logger
}

// BaseURL returns the configured base URL for outbound requests.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func validateBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", clientError("endpoint is required")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", &ProbeError{Kind: KindClient, Err: err}
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", clientErrorf("endpoint %q must use http or https", trimmed)
	}

	if parsed.Host == "" {
		return "", clientErrorf("endpoint %q has no host", trimmed)
	}

	return trimmed, nil
}
