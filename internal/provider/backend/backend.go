package backend

import (
    "context"
    "net/url"
    "strings"

    "marketdata/internal/finance"
    "marketdata/internal/httpx"
    "marketdata/internal/provider"
)

type Config struct {
    Name    string
    BaseURL string
}

// Adapter proxies an internal API that already speaks the canonical schema,
// so responses decode straight into the model. Requests go through a cached
// client: identical lookups within the TTL are served from memory.
type Adapter struct {
    cfg    Config
    client *httpx.CachedClient
}

func New(cfg Config, cc *httpx.CachedClient) *Adapter {
    if cfg.Name == "" { cfg.Name = "Backend API" }
    cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
    return &Adapter{cfg: cfg, client: cc}
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) Snapshot(ctx context.Context, symbol string) (*finance.CompanySnapshot, error) {
    if a.cfg.BaseURL == "" { return nil, nil }

    var s finance.CompanySnapshot
    rawurl := a.cfg.BaseURL + "/api/stocks/" + url.PathEscape(symbol)
    if err := a.client.GetJSON(ctx, rawurl, nil, &s); err != nil {
        return nil, provider.Errf(a.cfg.Name, symbol, err, "snapshot fetch failed")
    }
    if s.Symbol == "" { return nil, nil }
    return &s, nil
}

type historyResponse struct {
    Symbol string                   `json:"symbol"`
    Points []finance.HistoricalPoint `json:"historicalData"`
}

func (a *Adapter) History(ctx context.Context, symbol string, period finance.Period) ([]finance.HistoricalPoint, error) {
    if a.cfg.BaseURL == "" { return nil, nil }

    rawurl := a.cfg.BaseURL + "/api/stocks/" + url.PathEscape(symbol) + "/history"
    params := url.Values{"period": {string(period)}}
    var resp historyResponse
    if err := a.client.GetJSON(ctx, rawurl, params, &resp); err != nil {
        return nil, provider.Errf(a.cfg.Name, symbol, err, "history fetch failed")
    }
    return resp.Points, nil
}
