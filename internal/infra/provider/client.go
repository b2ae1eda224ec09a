package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"newsdesk/internal/resilience/circuitbreaker"
)

// StatusError reports a non-2xx response from a provider API.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// Client is the shared outbound HTTP client for provider adapters.
// Every call passes through a token-bucket rate limiter and a circuit
// breaker, in that order, so a tripped circuit does not consume tokens.
type Client struct {
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	limiter    *rate.Limiter
}

// NewClient creates a client for one provider. name labels the circuit
// breaker; timeout bounds each request end to end.
func NewClient(name string, timeout time.Duration, requestsPerSecond float64, burst int) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		breaker:    circuitbreaker.New(circuitbreaker.ProviderConfig(name)),
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// GetJSON issues a GET to rawURL with the given query parameters and headers
// and decodes the response body into out. A non-2xx status returns a
// *StatusError with the body drained.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, header http.Header, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("GetJSON: rate limit: %w", err)
	}

	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doGet(ctx, rawURL, query, header)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body.([]byte), out); err != nil {
		return fmt.Errorf("GetJSON: decode: %w", err)
	}
	return nil
}

func (c *Client) doGet(ctx context.Context, rawURL string, query url.Values, header http.Header) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("doGet: parse url: %w", err)
	}
	if len(query) > 0 {
		q := u.Query()
		for key, values := range query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("doGet: build request: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("doGet: read body: %w", err)
	}
	return body, nil
}
