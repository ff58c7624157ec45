package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the endpoint of a locally running inference server.
const DefaultBaseURL = "http://localhost:11434"

const (
	// Per-call ceilings. Listing is quick; generation on local hardware can
	// take a long time.
	listTimeout     = 8 * time.Second
	generateTimeout = 100 * time.Second
)

// HTTPDoer is an interface for HTTP clients to enable testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to an Ollama-compatible inference server. Requests are
// synchronous, non-streaming, and never retried.
type Client struct {
	rc      *resty.Client
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the inference endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient injects a custom HTTP client for testing.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		c.rc.SetTransport(&httpClientTransport{client: client})
	}
}

// NewClient creates a Client for the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		rc:      resty.New(),
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListModels fetches the model names advertised by the server.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	var payload tagsResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&payload).
		Get(c.baseURL + "/api/tags")
	if err != nil {
		return nil, fmt.Errorf("ollama: request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, NewAPIError(resp.StatusCode(), resp.String())
	}

	names := make([]string, 0, len(payload.Models))
	for _, m := range payload.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Generate issues one blocking completion request for the given model and
// prompt and returns the completion text.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	var payload generateResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(generateRequest{Model: model, Prompt: prompt, Stream: false}).
		SetResult(&payload).
		Post(c.baseURL + "/api/generate")
	if err != nil {
		return "", fmt.Errorf("ollama: request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", NewAPIError(resp.StatusCode(), resp.String())
	}

	return payload.Response, nil
}

// httpClientTransport wraps an HTTPDoer to implement http.RoundTripper.
type httpClientTransport struct {
	client HTTPDoer
}

func (t *httpClientTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.client.Do(req)
}
