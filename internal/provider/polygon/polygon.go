package polygon

import (
    "context"
    "fmt"
    "net/url"
    "time"

    "marketdata/internal/finance"
    "marketdata/internal/httpx"
    "marketdata/internal/provider"
)

const defaultBaseURL = "https://api.polygon.io"

type Config struct {
    Name    string
    APIKey  string
    BaseURL string
}

// Adapter serves history only; Polygon's aggregate bars are the preferred
// series source when a key is configured.
type Adapter struct {
    cfg    Config
    client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Adapter {
    if cfg.Name == "" { cfg.Name = "Polygon" }
    if cfg.BaseURL == "" { cfg.BaseURL = defaultBaseURL }
    return &Adapter{cfg: cfg, client: hc}
}

func (a *Adapter) Name() string { return a.cfg.Name }

type aggsResponse struct {
    Status  string `json:"status"`
    Error   string `json:"error"`
    Results []struct {
        Timestamp int64   `json:"t"` // epoch millis
        Close     float64 `json:"c"`
        Open      float64 `json:"o"`
        High      float64 `json:"h"`
        Low       float64 `json:"l"`
        Volume    float64 `json:"v"`
    } `json:"results"`
}

func (a *Adapter) History(ctx context.Context, symbol string, period finance.Period) ([]finance.HistoricalPoint, error) {
    if a.cfg.APIKey == "" { return nil, nil }

    now := time.Now().UTC()
    from := period.Start(now).Format(finance.DateLayout)
    to := now.Format(finance.DateLayout)
    rawurl := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s",
        a.cfg.BaseURL, url.PathEscape(symbol), from, to)
    params := url.Values{
        "adjusted": {"true"},
        "sort":     {"asc"},
        "limit":    {"50000"},
        "apiKey":   {a.cfg.APIKey},
    }

    var resp aggsResponse
    if err := a.client.GetJSON(ctx, rawurl, params, &resp); err != nil {
        return nil, provider.Errf(a.cfg.Name, symbol, err, "aggs fetch failed")
    }
    if resp.Error != "" {
        return nil, &provider.Error{Provider: a.cfg.Name, Symbol: symbol, Message: "vendor error: " + resp.Error, Retryable: true}
    }
    if len(resp.Results) == 0 { return nil, nil }

    out := make([]finance.HistoricalPoint, 0, len(resp.Results))
    for _, bar := range resp.Results {
        out = append(out, finance.HistoricalPoint{
            Date:   time.UnixMilli(bar.Timestamp).UTC().Format(finance.DateLayout),
            Price:  bar.Close,
            Close:  bar.Close,
            Volume: int64(bar.Volume),
            Open:   finance.Positive(bar.Open),
            High:   finance.Positive(bar.High),
            Low:    finance.Positive(bar.Low),
        })
    }
    return out, nil
}
