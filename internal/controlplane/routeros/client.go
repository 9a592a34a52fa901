// Package routeros implements domain.ControlPlane on top of the RouterOS v7
// REST API (/rest/interface/wireguard...).
package routeros

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/Flarenzy/wg-fleet/internal/domain"
)

type Config struct {
	BaseURL            string
	Username           string
	Password           string
	Timeout            time.Duration
	InsecureSkipVerify bool
	// RequestsPerSecond caps calls to the router; bulk operations issue one
	// call per peer.
	RequestsPerSecond float64
	Burst             int
	MaxRetries        uint64
	// PublicEndpoint is the host clients dial, written into rendered configs.
	PublicEndpoint   string
	ClientAllowedIPs []string
}

type Client struct {
	baseURL    *url.URL
	username   string
	password   string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries uint64
	endpoint   string
	allowedIPs []string
}

var _ domain.ControlPlane = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid router url %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if len(cfg.ClientAllowedIPs) == 0 {
		cfg.ClientAllowedIPs = []string{"0.0.0.0/0"}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		// RouterOS ships a self-signed certificate by default.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	return &Client{
		baseURL:    base,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: cfg.Timeout, Transport: transport},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxRetries: cfg.MaxRetries,
		endpoint:   cfg.PublicEndpoint,
		allowedIPs: cfg.ClientAllowedIPs,
	}, nil
}

// StatusError is a non-2xx answer from the router.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Detail  string
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(e.Message + " " + e.Detail)
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("router %s %s: HTTP %d: %s", e.Method, e.Path, e.Status, msg)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrConflict:
		return e.Status == http.StatusConflict ||
			(e.Status == http.StatusBadRequest && strings.Contains(strings.ToLower(e.Detail), "already"))
	}
	return false
}

func (e *StatusError) temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

type errorBody struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// do sends one request and decodes a JSON answer into out when out is not nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Method: method, Path: path, Status: resp.StatusCode}
		var eb errorBody
		if data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); json.Unmarshal(data, &eb) == nil {
			statusErr.Message, statusErr.Detail = eb.Message, eb.Detail
		}
		return statusErr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// get retries transport failures and 5xx/429 answers with exponential
// backoff. Writes are never retried.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	return backoff.Retry(func() error {
		err := c.do(ctx, http.MethodGet, path, query, nil, out)
		if err == nil {
			return nil
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.temporary() {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}
