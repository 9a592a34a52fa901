package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apihttp "github.com/Flarenzy/wg-fleet/internal/http"
)

// Client is the part of the fleet API the CLI talks to.
type Client interface {
	ListPeers(ctx context.Context, iface string) ([]apihttp.PeerResponse, error)
	Bulk(ctx context.Context, req apihttp.BulkRequest) (apihttp.BulkResponse, error)
	ListPools(ctx context.Context, iface string) ([]apihttp.PoolResponse, error)
	NextAddress(ctx context.Context, iface string) (apihttp.NextAddressResponse, error)
}

// APIError is a non-2xx answer decoded from the server's error envelope.
type APIError struct {
	Status   int
	Response apihttp.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Response.Error == "" {
		return fmt.Sprintf("server answered %d", e.Status)
	}
	return fmt.Sprintf("%s (%s)", e.Response.Error, e.Response.Code)
}

type httpClient struct {
	baseURL *url.URL
	token   string
	http    *http.Client
}

func NewHTTPClient(server, token string) (Client, error) {
	base, err := url.Parse(strings.TrimRight(server, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", server)
	}
	return &httpClient{
		baseURL: base,
		token:   token,
		http:    &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (c *httpClient) ListPeers(ctx context.Context, iface string) ([]apihttp.PeerResponse, error) {
	var peers []apihttp.PeerResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/interfaces/"+url.PathEscape(iface)+"/peers", nil, nil, &peers)
	return peers, err
}

// Bulk treats 207 Multi-Status as a normal answer; callers inspect Failed.
func (c *httpClient) Bulk(ctx context.Context, req apihttp.BulkRequest) (apihttp.BulkResponse, error) {
	var resp apihttp.BulkResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/peers/bulk", nil, req, &resp)
	return resp, err
}

func (c *httpClient) ListPools(ctx context.Context, iface string) ([]apihttp.PoolResponse, error) {
	var query url.Values
	if iface != "" {
		query = url.Values{"interface": {iface}}
	}
	var pools []apihttp.PoolResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/pools", query, nil, &pools)
	return pools, err
}

func (c *httpClient) NextAddress(ctx context.Context, iface string) (apihttp.NextAddressResponse, error) {
	var resp apihttp.NextAddressResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/interfaces/"+url.PathEscape(iface)+"/next-address", nil, nil, &resp)
	return resp, err
}

func (c *httpClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

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
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&apiErr.Response)
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
