package finnhub

import (
    "context"
    "fmt"
    "net/url"
    "strconv"
    "time"

    "marketdata/internal/finance"
    "marketdata/internal/httpx"
    "marketdata/internal/provider"
)

const defaultBaseURL = "https://finnhub.io/api/v1"

type Config struct {
    Name    string
    APIKey  string
    BaseURL string
}

// Adapter maps Finnhub into the canonical schema. The free tier exposes a
// thin profile, so snapshots from here score low and mostly serve as a
// fallback quote source.
type Adapter struct {
    cfg    Config
    client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Adapter {
    if cfg.Name == "" { cfg.Name = "Finnhub" }
    if cfg.BaseURL == "" { cfg.BaseURL = defaultBaseURL }
    return &Adapter{cfg: cfg, client: hc}
}

func (a *Adapter) Name() string { return a.cfg.Name }

type profile struct {
    Name              string  `json:"name"`
    Ticker            string  `json:"ticker"`
    Exchange          string  `json:"exchange"`
    Currency          string  `json:"currency"`
    Country           string  `json:"country"`
    FinnhubIndustry   string  `json:"finnhubIndustry"`
    MarketCap         float64 `json:"marketCapitalization"` // millions
    SharesOutstanding float64 `json:"shareOutstanding"`     // millions
    WebURL            string  `json:"weburl"`
    Phone             string  `json:"phone"`
    IPO               string  `json:"ipo"`
}

type quote struct {
    Current       float64 `json:"c"`
    Change        float64 `json:"d"`
    ChangePercent float64 `json:"dp"`
    High          float64 `json:"h"`
    Low           float64 `json:"l"`
    Open          float64 `json:"o"`
    PreviousClose float64 `json:"pc"`
}

func (a *Adapter) Snapshot(ctx context.Context, symbol string) (*finance.CompanySnapshot, error) {
    if a.cfg.APIKey == "" { return nil, nil }

    var p profile
    if err := a.get(ctx, "/stock/profile2", url.Values{"symbol": {symbol}}, &p); err != nil {
        return nil, provider.Errf(a.cfg.Name, symbol, err, "profile fetch failed")
    }
    var q quote
    if err := a.get(ctx, "/quote", url.Values{"symbol": {symbol}}, &q); err != nil {
        return nil, provider.Errf(a.cfg.Name, symbol, err, "quote fetch failed")
    }
    if p.Ticker == "" && q.Current == 0 {
        return nil, &provider.Error{Provider: a.cfg.Name, Symbol: symbol, Message: "empty profile and quote"}
    }

    sym := p.Ticker
    if sym == "" { sym = symbol }

    // Finnhub reports market cap and share counts in millions.
    s := &finance.CompanySnapshot{
        Symbol:        sym,
        Name:          p.Name,
        Price:         q.Current,
        Change:        q.Change,
        ChangePercent: q.ChangePercent,
        MarketCap:     p.MarketCap * 1e6,
        Industry:      p.FinnhubIndustry,

        Country:  finance.NonEmpty(p.Country),
        Exchange: finance.NonEmpty(p.Exchange),
        Currency: finance.NonEmpty(p.Currency),
        Website:  finance.NonEmpty(p.WebURL),
        Phone:    finance.NonEmpty(p.Phone),
        IPODate:  finance.NonEmpty(p.IPO),

        SharesOutstanding: finance.Positive(p.SharesOutstanding * 1e6),
    }
    return s, nil
}

type candles struct {
    Status     string    `json:"s"`
    Timestamps []int64   `json:"t"`
    Close      []float64 `json:"c"`
    Open       []float64 `json:"o"`
    High       []float64 `json:"h"`
    Low        []float64 `json:"l"`
    Volume     []float64 `json:"v"`
}

func (a *Adapter) History(ctx context.Context, symbol string, period finance.Period) ([]finance.HistoricalPoint, error) {
    if a.cfg.APIKey == "" { return nil, nil }

    now := time.Now().UTC()
    params := url.Values{
        "symbol":     {symbol},
        "resolution": {"D"},
        "from":       {strconv.FormatInt(period.Start(now).Unix(), 10)},
        "to":         {strconv.FormatInt(now.Unix(), 10)},
    }
    var c candles
    if err := a.get(ctx, "/stock/candle", params, &c); err != nil {
        return nil, provider.Errf(a.cfg.Name, symbol, err, "candle fetch failed")
    }
    if c.Status != "ok" || len(c.Timestamps) == 0 { return nil, nil }
    if len(c.Close) != len(c.Timestamps) {
        return nil, &provider.Error{Provider: a.cfg.Name, Symbol: symbol,
            Message: fmt.Sprintf("candle arrays misaligned: %d timestamps, %d closes", len(c.Timestamps), len(c.Close))}
    }

    out := make([]finance.HistoricalPoint, 0, len(c.Timestamps))
    for i, ts := range c.Timestamps {
        pt := finance.HistoricalPoint{
            Date:  time.Unix(ts, 0).UTC().Format(finance.DateLayout),
            Price: c.Close[i],
            Close: c.Close[i],
        }
        if i < len(c.Volume) { pt.Volume = int64(c.Volume[i]) }
        if i < len(c.Open) { pt.Open = finance.Positive(c.Open[i]) }
        if i < len(c.High) { pt.High = finance.Positive(c.High[i]) }
        if i < len(c.Low) { pt.Low = finance.Positive(c.Low[i]) }
        out = append(out, pt)
    }
    return out, nil
}

func (a *Adapter) get(ctx context.Context, path string, params url.Values, out any) error {
    params.Set("token", a.cfg.APIKey)
    return a.client.GetJSON(ctx, a.cfg.BaseURL+path, params, out)
}
