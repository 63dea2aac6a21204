package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.stripe.com"

func New(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Every(time.Duration(cfg.Every)), cfg.Burst),
	}
}

// Client talks to the hosted-checkout provider's REST API. All calls go
// through a shared rate limiter; transient provider errors are retried a
// bounded number of times.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// CreateSessionParams describes a single-item hosted checkout.
type CreateSessionParams struct {
	ProductName string
	// Amount is in the currency's minor unit.
	Amount        int64
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CreateSession creates a hosted checkout session and returns it with the
// redirect URL set.
func (c *Client) CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price_data][currency]", c.cfg.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.Amount, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("line_items[0][quantity]", "1")
	form.Set("customer_email", params.CustomerEmail)
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	return c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form)
}

// Session retrieves a checkout session by its id.
func (c *Client) Session(ctx context.Context, sessionID string) (*Session, error) {
	return c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil)
}

func (c *Client) do(ctx context.Context, method string, path string, form url.Values) (*Session, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
		}

		var body io.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		}

		rq, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		rq.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
		rq.Header.Set("Accept", "application/json")
		if form != nil {
			rq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}

		rs, err := c.httpClient.Do(rq)
		if err != nil {
			return nil, fmt.Errorf("failed to send request: %w", err)
		}

		if rs.StatusCode == http.StatusTooManyRequests || rs.StatusCode >= http.StatusInternalServerError {
			_, _ = io.Copy(io.Discard, rs.Body)
			_ = rs.Body.Close()
			if attempt >= c.cfg.MaxRetries {
				return nil, fmt.Errorf("request failed with status code %d after %d retries", rs.StatusCode, attempt)
			}
			continue
		}

		session, err := parseResponse(rs)
		_ = rs.Body.Close()
		return session, err
	}
}

func parseResponse(rs *http.Response) (*Session, error) {
	if rs.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.NewDecoder(rs.Body).Decode(&apiErr); err != nil || apiErr.Error.Message == "" {
			return nil, fmt.Errorf("request failed with status code: %d", rs.StatusCode)
		}
		return nil, fmt.Errorf("provider error: %s", apiErr.Error.Message)
	}

	var session Session
	if err := json.NewDecoder(rs.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &session, nil
}
