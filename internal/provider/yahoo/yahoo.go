package yahoo

import (
    "context"
    "net/url"
    "strconv"
    "time"

    "github.com/tidwall/gjson"

    "marketdata/internal/finance"
    "marketdata/internal/httpx"
    "marketdata/internal/provider"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

type Config struct {
    Name    string
    BaseURL string
}

// Adapter reads the unauthenticated Yahoo chart endpoint. It is the last
// resort for both snapshots and history: no key required, but the snapshot
// carries only quote-level fields so it scores near the floor. The chart
// payload is deeply nested, so fields are picked out by path instead of a
// struct mirror of the whole document.
type Adapter struct {
    cfg    Config
    client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Adapter {
    if cfg.Name == "" { cfg.Name = "Yahoo Finance" }
    if cfg.BaseURL == "" { cfg.BaseURL = defaultBaseURL }
    return &Adapter{cfg: cfg, client: hc}
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) Snapshot(ctx context.Context, symbol string) (*finance.CompanySnapshot, error) {
    params := url.Values{"interval": {"1d"}, "range": {"5d"}}
    body, err := a.client.GetBytes(ctx, a.cfg.BaseURL+"/"+url.PathEscape(symbol), params)
    if err != nil {
        return nil, provider.Errf(a.cfg.Name, symbol, err, "chart fetch failed")
    }
    if msg := gjson.GetBytes(body, "chart.error.description"); msg.Exists() {
        return nil, &provider.Error{Provider: a.cfg.Name, Symbol: symbol, Message: "vendor error: " + msg.String()}
    }

    meta := gjson.GetBytes(body, "chart.result.0.meta")
    if !meta.Exists() {
        return nil, &provider.Error{Provider: a.cfg.Name, Symbol: symbol, Message: "no chart result"}
    }

    price := meta.Get("regularMarketPrice").Float()
    prevClose := meta.Get("chartPreviousClose").Float()
    change := price - prevClose
    changePct := 0.0
    if prevClose > 0 { changePct = change / prevClose * 100 }

    sym := meta.Get("symbol").String()
    if sym == "" { sym = symbol }

    s := &finance.CompanySnapshot{
        Symbol:        sym,
        Name:          meta.Get("longName").String(),
        Price:         price,
        Change:        change,
        ChangePercent: changePct,
        Volume:        meta.Get("regularMarketVolume").Int(),

        FiftyTwoWeekHigh: finance.Positive(meta.Get("fiftyTwoWeekHigh").Float()),
        FiftyTwoWeekLow:  finance.Positive(meta.Get("fiftyTwoWeekLow").Float()),
        Exchange:         finance.NonEmpty(meta.Get("fullExchangeName").String()),
        Currency:         finance.NonEmpty(meta.Get("currency").String()),
    }
    return s, nil
}

func (a *Adapter) History(ctx context.Context, symbol string, period finance.Period) ([]finance.HistoricalPoint, error) {
    now := time.Now().UTC()
    params := url.Values{
        "interval": {"1d"},
        "period1":  {strconv.FormatInt(period.Start(now).Unix(), 10)},
        "period2":  {strconv.FormatInt(now.Unix(), 10)},
    }
    body, err := a.client.GetBytes(ctx, a.cfg.BaseURL+"/"+url.PathEscape(symbol), params)
    if err != nil {
        return nil, provider.Errf(a.cfg.Name, symbol, err, "chart fetch failed")
    }
    if msg := gjson.GetBytes(body, "chart.error.description"); msg.Exists() {
        return nil, &provider.Error{Provider: a.cfg.Name, Symbol: symbol, Message: "vendor error: " + msg.String()}
    }

    timestamps := gjson.GetBytes(body, "chart.result.0.timestamp").Array()
    if len(timestamps) == 0 { return nil, nil }
    bars := gjson.GetBytes(body, "chart.result.0.indicators.quote.0")
    closes := bars.Get("close").Array()
    opens := bars.Get("open").Array()
    highs := bars.Get("high").Array()
    lows := bars.Get("low").Array()
    volumes := bars.Get("volume").Array()

    out := make([]finance.HistoricalPoint, 0, len(timestamps))
    for i, ts := range timestamps {
        // Null bars show up on market holidays; skip them.
        if i >= len(closes) || closes[i].Type == gjson.Null { continue }
        pt := finance.HistoricalPoint{
            Date:  time.Unix(ts.Int(), 0).UTC().Format(finance.DateLayout),
            Price: closes[i].Float(),
            Close: closes[i].Float(),
        }
        if i < len(volumes) { pt.Volume = volumes[i].Int() }
        if i < len(opens) { pt.Open = finance.Positive(opens[i].Float()) }
        if i < len(highs) { pt.High = finance.Positive(highs[i].Float()) }
        if i < len(lows) { pt.Low = finance.Positive(lows[i].Float()) }
        out = append(out, pt)
    }
    return out, nil
}
