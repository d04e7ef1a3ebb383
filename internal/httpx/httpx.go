package httpx

import (
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net"
    "net/http"
    "net/url"
    "time"

    "marketdata/internal/cache"
)

// maxBodyBytes caps provider response bodies; the largest payloads we see
// are multi-year daily series well under this.
const maxBodyBytes = 8 << 20

// Client is a small wrapper around http.Client with sane defaults.
type Client struct {
    HTTP      *http.Client
    UserAgent string
    Headers   map[string]string
}

func New(timeout time.Duration) *Client {
    transport := &http.Transport{
        Proxy: http.ProxyFromEnvironment,
        DialContext: (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
        MaxIdleConns:          200,
        MaxIdleConnsPerHost:   100,
        MaxConnsPerHost:       100,
        ForceAttemptHTTP2:     true,
        IdleConnTimeout:       90 * time.Second,
        TLSHandshakeTimeout:   3 * time.Second,
        ExpectContinueTimeout: 1 * time.Second,
        ResponseHeaderTimeout: 5 * time.Second,
    }
    return &Client{HTTP: &http.Client{Timeout: timeout, Transport: transport}, UserAgent: "marketdata/1.0"}
}

func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
    if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
        req.Header.Set("User-Agent", c.UserAgent)
    }
    for k, v := range c.Headers {
        if req.Header.Get(k) == "" {
            req.Header.Set(k, v)
        }
    }
    return c.HTTP.Do(req.WithContext(ctx))
}

// GetBytes issues a GET for rawurl with the given query params and returns
// the response body. Non-2xx statuses are errors carrying a body prefix.
func (c *Client) GetBytes(ctx context.Context, rawurl string, params url.Values) ([]byte, error) {
    u := rawurl
    if len(params) > 0 { u = rawurl + "?" + params.Encode() }
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
    if err != nil { return nil, err }
    req.Header.Set("Accept", "application/json")
    resp, err := c.Do(ctx, req)
    if err != nil { return nil, err }
    defer resp.Body.Close()
    body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
    if err != nil { return nil, fmt.Errorf("read body: %w", err) }
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        snip := body
        if len(snip) > 512 { snip = snip[:512] }
        return nil, fmt.Errorf("GET %s -> %d: %s", rawurl, resp.StatusCode, snip)
    }
    return body, nil
}

// GetJSON issues a GET and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, rawurl string, params url.Values, out any) error {
    body, err := c.GetBytes(ctx, rawurl, params)
    if err != nil { return err }
    if err := json.Unmarshal(body, out); err != nil {
        return fmt.Errorf("decode %s: %w", rawurl, err)
    }
    return nil
}

// CachedClient memoizes GET payloads in a shared TTL cache keyed by the
// canonical (url, sorted params) signature. A hit returns the stored bytes
// without any network call.
type CachedClient struct {
    Client *Client
    Cache  *cache.Cache[[]byte]
}

func (cc *CachedClient) GetBytes(ctx context.Context, rawurl string, params url.Values) ([]byte, error) {
    if cc.Cache == nil {
        return cc.Client.GetBytes(ctx, rawurl, params)
    }
    key := cache.Key(rawurl, params)
    return cc.Cache.GetOrFetch(key, func() ([]byte, error) {
        return cc.Client.GetBytes(ctx, rawurl, params)
    })
}

func (cc *CachedClient) GetJSON(ctx context.Context, rawurl string, params url.Values, out any) error {
    body, err := cc.GetBytes(ctx, rawurl, params)
    if err != nil { return err }
    if err := json.Unmarshal(body, out); err != nil {
        return fmt.Errorf("decode %s: %w", rawurl, err)
    }
    return nil
}
