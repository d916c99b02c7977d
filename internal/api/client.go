package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/intakechat/internal/errors"
	"github.com/diogo/intakechat/internal/models"
)

const maxResponseBytes = 8 << 20

// AssistantsClient talks to the Assistants API over HTTPS
type AssistantsClient struct {
	httpClient tls_client.HttpClient
	apiKey     string
	baseURL    string
	timeout    time.Duration
}

// ClientOption is a function that configures the client
type ClientOption func(*AssistantsClient)

// WithBaseURL overrides the API base URL (e.g. a compatible proxy)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *AssistantsClient) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

// WithHTTPClient injects the transport, mainly for tests
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *AssistantsClient) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *AssistantsClient) {
		c.timeout = timeout
	}
}

// NewClient creates a new AssistantsClient. The API key is captured here and
// never re-read.
func NewClient(apiKey string, opts ...ClientOption) (*AssistantsClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, apierrors.ErrNoAPIKey
	}

	client := &AssistantsClient{
		apiKey:  apiKey,
		baseURL: models.DefaultBaseURL,
		timeout: 60 * time.Second,
	}

	for _, opt := range opts {
		opt(client)
	}
	if client.baseURL == "" {
		client.baseURL = models.DefaultBaseURL
	}

	if client.httpClient == nil {
		timeoutSeconds := int(client.timeout / time.Second)
		if timeoutSeconds <= 0 {
			timeoutSeconds = 60
		}
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(timeoutSeconds),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}
		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the configured API base URL
func (c *AssistantsClient) BaseURL() string {
	return c.baseURL
}

// do sends a JSON request and returns the parsed response body.
// payload may be nil for requests without a body.
func (c *AssistantsClient) do(ctx context.Context, method, path string, payload any) (gjson.Result, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return gjson.Result{}, ctxErr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return gjson.Result{}, apierrors.NewTimeoutError(path)
		}
		return gjson.Result{}, apierrors.NewNetworkError(path, err)
	}
	defer resp.Body.Close()

	// one byte past the cap tells a full body from a cut one
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return gjson.Result{}, apierrors.NewNetworkError(path, fmt.Errorf("read response body: %w", err))
	}
	tooLarge := len(raw) > maxResponseBytes
	if tooLarge {
		raw = raw[:maxResponseBytes]
	}

	if statusErr := apierrors.FromStatus(resp.StatusCode, path, string(raw)); statusErr != nil {
		if msg := gjson.GetBytes(raw, PathErrorMessage).String(); msg != "" {
			var apiErr *apierrors.APIError
			if errors.As(statusErr, &apiErr) {
				apiErr.Message = msg
			}
		}
		return gjson.Result{}, statusErr
	}

	if tooLarge {
		return gjson.Result{}, apierrors.NewResponseTooLargeError(path, maxResponseBytes)
	}

	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, apierrors.NewParseError("response is not valid JSON", path)
	}

	return gjson.ParseBytes(raw), nil
}
