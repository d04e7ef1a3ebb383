package alphavantage

import (
    "context"
    "net/url"
    "sort"
    "strconv"

    "marketdata/internal/finance"
    "marketdata/internal/httpx"
    "marketdata/internal/provider"
)

const defaultBaseURL = "https://www.alphavantage.co/query"

type Config struct {
    Name    string
    APIKey  string
    BaseURL string
}

// Adapter maps Alpha Vantage into the canonical schema. Two calls per
// snapshot: OVERVIEW for fundamentals and GLOBAL_QUOTE for the live quote.
// Alpha Vantage serves every number as a string and signals failures inside
// 200 responses via "Error Message" and "Note" keys.
type Adapter struct {
    cfg    Config
    client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Adapter {
    if cfg.Name == "" { cfg.Name = "AlphaVantage" }
    if cfg.BaseURL == "" { cfg.BaseURL = defaultBaseURL }
    return &Adapter{cfg: cfg, client: hc}
}

func (a *Adapter) Name() string { return a.cfg.Name }

// overview is the OVERVIEW payload subset. Everything is a string.
type overview struct {
    ErrorMessage string `json:"Error Message"`
    Note         string `json:"Note"`

    Symbol            string `json:"Symbol"`
    Name              string `json:"Name"`
    Description       string `json:"Description"`
    Sector            string `json:"Sector"`
    Industry          string `json:"Industry"`
    Country           string `json:"Country"`
    Exchange          string `json:"Exchange"`
    Currency          string `json:"Currency"`
    MarketCap         string `json:"MarketCapitalization"`
    PERatio           string `json:"PERatio"`
    ForwardPE         string `json:"ForwardPE"`
    PEGRatio          string `json:"PEGRatio"`
    PriceToBook       string `json:"PriceToBookRatio"`
    PriceToSales      string `json:"PriceToSalesRatioTTM"`
    EVToEBITDA        string `json:"EVToEBITDA"`
    RevenueTTM        string `json:"RevenueTTM"`
    GrossProfitTTM    string `json:"GrossProfitTTM"`
    EBITDA            string `json:"EBITDA"`
    ProfitMargin      string `json:"ProfitMargin"`
    OperatingMargin   string `json:"OperatingMarginTTM"`
    ROA               string `json:"ReturnOnAssetsTTM"`
    ROE               string `json:"ReturnOnEquityTTM"`
    DividendYield     string `json:"DividendYield"`
    DividendPerShare  string `json:"DividendPerShare"`
    ExDividendDate    string `json:"ExDividendDate"`
    PayoutRatio       string `json:"PayoutRatio"`
    Beta              string `json:"Beta"`
    FiftyTwoWeekHigh  string `json:"52WeekHigh"`
    FiftyTwoWeekLow   string `json:"52WeekLow"`
    BookValue         string `json:"BookValue"`
    SharesOutstanding string `json:"SharesOutstanding"`
    FullTimeEmployees string `json:"FullTimeEmployees"`
}

// globalQuote is the GLOBAL_QUOTE payload subset.
type globalQuote struct {
    ErrorMessage string `json:"Error Message"`
    Note         string `json:"Note"`
    Quote        struct {
        Symbol        string `json:"01. symbol"`
        Price         string `json:"05. price"`
        Volume        string `json:"06. volume"`
        PreviousClose string `json:"08. previous close"`
    } `json:"Global Quote"`
}

func (a *Adapter) Snapshot(ctx context.Context, symbol string) (*finance.CompanySnapshot, error) {
    if a.cfg.APIKey == "" { return nil, nil }

    var ov overview
    if err := a.get(ctx, "OVERVIEW", symbol, nil, &ov); err != nil {
        return nil, provider.Errf(a.cfg.Name, symbol, err, "overview fetch failed")
    }
    if err := vendorError(ov.ErrorMessage, ov.Note); err != nil {
        return nil, provider.Errf(a.cfg.Name, symbol, err, "overview rejected")
    }

    var gq globalQuote
    if err := a.get(ctx, "GLOBAL_QUOTE", symbol, nil, &gq); err != nil {
        return nil, provider.Errf(a.cfg.Name, symbol, err, "quote fetch failed")
    }
    if err := vendorError(gq.ErrorMessage, gq.Note); err != nil {
        return nil, provider.Errf(a.cfg.Name, symbol, err, "quote rejected")
    }
    if ov.Symbol == "" || gq.Quote.Symbol == "" {
        return nil, &provider.Error{Provider: a.cfg.Name, Symbol: symbol, Message: "missing symbol or quote data"}
    }

    price := num(gq.Quote.Price)
    prevClose := num(gq.Quote.PreviousClose)
    change := price - prevClose
    changePct := 0.0
    if prevClose > 0 { changePct = change / prevClose * 100 }

    s := &finance.CompanySnapshot{
        Symbol:        ov.Symbol,
        Name:          ov.Name,
        Price:         price,
        Change:        change,
        ChangePercent: changePct,
        Volume:        int64(num(gq.Quote.Volume)),
        MarketCap:     num(ov.MarketCap),
        PE:            num(ov.PERatio),
        Dividend:      num(ov.DividendPerShare),
        Sector:        ov.Sector,
        Industry:      ov.Industry,
        Employees:     int64(num(ov.FullTimeEmployees)),
        Description:   ov.Description,

        ForwardPE:    finance.NonZero(num(ov.ForwardPE)),
        PEG:          finance.NonZero(num(ov.PEGRatio)),
        PriceToBook:  finance.NonZero(num(ov.PriceToBook)),
        PriceToSales: finance.NonZero(num(ov.PriceToSales)),
        EVToEBITDA:   finance.NonZero(num(ov.EVToEBITDA)),

        RevenueTTM:     finance.NonZero(num(ov.RevenueTTM)),
        GrossProfitTTM: finance.NonZero(num(ov.GrossProfitTTM)),
        EBITDATTM:      finance.NonZero(num(ov.EBITDA)),

        // Alpha Vantage margins are 0-1 fractions; canonical is percent.
        NetMargin:       fracPercent(ov.ProfitMargin),
        OperatingMargin: fracPercent(ov.OperatingMargin),
        ROA:             fracPercent(ov.ROA),
        ROE:             fracPercent(ov.ROE),
        PayoutRatio:     fracPercent(ov.PayoutRatio),

        // Alpha Vantage yield is already a 0-1 fraction.
        DividendYield:  finance.NonZero(num(ov.DividendYield)),
        AnnualDividend: finance.NonZero(num(ov.DividendPerShare)),
        ExDividendDate: finance.NonEmpty(ov.ExDividendDate),

        FiftyTwoWeekHigh: finance.Positive(num(ov.FiftyTwoWeekHigh)),
        FiftyTwoWeekLow:  finance.Positive(num(ov.FiftyTwoWeekLow)),
        Beta:             finance.NonZero(num(ov.Beta)),

        Country:  finance.NonEmpty(ov.Country),
        Exchange: finance.NonEmpty(ov.Exchange),
        Currency: finance.NonEmpty(ov.Currency),

        BookValuePerShare: finance.NonZero(num(ov.BookValue)),
        SharesOutstanding: finance.Positive(num(ov.SharesOutstanding)),
    }
    return s, nil
}

// daily is one day of a TIME_SERIES_DAILY payload; the series itself keys
// bars by date string.
type daily struct {
    Open   string `json:"1. open"`
    High   string `json:"2. high"`
    Low    string `json:"3. low"`
    Close  string `json:"4. close"`
    Volume string `json:"5. volume"`
}

type timeSeriesResponse struct {
    ErrorMessage string           `json:"Error Message"`
    Note         string           `json:"Note"`
    Series       map[string]daily `json:"Time Series (Daily)"`
}

func (a *Adapter) History(ctx context.Context, symbol string, period finance.Period) ([]finance.HistoricalPoint, error) {
    if a.cfg.APIKey == "" { return nil, nil }

    outputsize := "full"
    if period == finance.Period1M { outputsize = "compact" }
    params := url.Values{}
    params.Set("outputsize", outputsize)

    var resp timeSeriesResponse
    if err := a.get(ctx, "TIME_SERIES_DAILY", symbol, params, &resp); err != nil {
        return nil, provider.Errf(a.cfg.Name, symbol, err, "time series fetch failed")
    }
    if err := vendorError(resp.ErrorMessage, resp.Note); err != nil {
        return nil, provider.Errf(a.cfg.Name, symbol, err, "time series rejected")
    }
    if len(resp.Series) == 0 { return nil, nil }

    dates := make([]string, 0, len(resp.Series))
    for d := range resp.Series { dates = append(dates, d) }
    sort.Strings(dates)

    out := make([]finance.HistoricalPoint, 0, len(dates))
    for _, d := range dates {
        bar := resp.Series[d]
        out = append(out, finance.HistoricalPoint{
            Date:   d,
            Price:  num(bar.Close),
            Close:  num(bar.Close),
            Volume: int64(num(bar.Volume)),
            Open:   finance.Positive(num(bar.Open)),
            High:   finance.Positive(num(bar.High)),
            Low:    finance.Positive(num(bar.Low)),
        })
    }
    return out, nil
}

func (a *Adapter) get(ctx context.Context, function, symbol string, extra url.Values, out any) error {
    params := url.Values{}
    for k, vs := range extra { params[k] = vs }
    params.Set("function", function)
    params.Set("symbol", symbol)
    params.Set("apikey", a.cfg.APIKey)
    return a.client.GetJSON(ctx, a.cfg.BaseURL, params, out)
}

func vendorError(errMsg, note string) error {
    if errMsg != "" { return &payloadError{"vendor error: " + errMsg} }
    // A Note payload means the per-minute quota is exhausted.
    if note != "" { return &payloadError{"rate limited: " + note} }
    return nil
}

type payloadError struct{ msg string }

func (e *payloadError) Error() string { return e.msg }

// num parses Alpha Vantage's stringly-typed numbers; "None" and absent
// values become 0 and are later treated as unknown.
func num(s string) float64 {
    if s == "" || s == "None" || s == "-" { return 0 }
    v, err := strconv.ParseFloat(s, 64)
    if err != nil { return 0 }
    return v
}

// fracPercent converts a 0-1 fraction string to a percent pointer.
func fracPercent(s string) *float64 {
    v := num(s)
    if v == 0 { return nil }
    v *= 100
    return &v
}
