package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://financialmodelingprep.com/api/v3"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=fmp_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a thin client for the Financial Modeling Prep REST API. The API
// key travels as a query parameter on every request.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	header     http.Header
	query      url.Values
}

// ClientOption is a configuration option for the FMP client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader adds headers sent with every request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewClient builds an FMP client. An empty key yields a client that can
// still be constructed but whose adapter reports itself unconfigured.
func NewClient(key string, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
	}
	if key != "" {
		c.query.Set("apikey", key)
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// profileEntry is the subset of FMP's /profile payload this engine maps.
type profileEntry struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	Sector            string  `json:"sector"`
	Industry          string  `json:"industry"`
	FullTimeEmployees string  `json:"fullTimeEmployees"`
	Description       string  `json:"description"`
	Website           string  `json:"website"`
	CEO               string  `json:"ceo"`
	Country           string  `json:"country"`
	Exchange          string  `json:"exchangeShortName"`
	Currency          string  `json:"currency"`
	Phone             string  `json:"phone"`
	Address           string  `json:"address"`
	City              string  `json:"city"`
	State             string  `json:"state"`
	Zip               string  `json:"zip"`
	IPODate           string  `json:"ipoDate"`
	Beta              float64 `json:"beta"`
	MktCap            float64 `json:"mktCap"`
	LastDividend      float64 `json:"lastDiv"`
}

// quoteEntry is the subset of FMP's /quote payload this engine maps.
type quoteEntry struct {
	Symbol            string  `json:"symbol"`
	Price             float64 `json:"price"`
	PreviousClose     float64 `json:"previousClose"`
	Volume            int64   `json:"volume"`
	AvgVolume         float64 `json:"avgVolume"`
	MarketCap         float64 `json:"marketCap"`
	PE                float64 `json:"pe"`
	SharesOutstanding float64 `json:"sharesOutstanding"`
	YearHigh          float64 `json:"yearHigh"`
	YearLow           float64 `json:"yearLow"`
}

// ratiosEntry is the subset of FMP's /ratios-ttm payload this engine maps.
// Vendor margins and yields are 0-1 fractions.
type ratiosEntry struct {
	PERatioTTM                   float64 `json:"peRatioTTM"`
	PEGRatioTTM                  float64 `json:"pegRatioTTM"`
	PriceToBookRatioTTM          float64 `json:"priceToBookRatioTTM"`
	PriceToSalesRatioTTM         float64 `json:"priceToSalesRatioTTM"`
	GrossProfitMarginTTM         float64 `json:"grossProfitMarginTTM"`
	OperatingProfitMarginTTM     float64 `json:"operatingProfitMarginTTM"`
	NetProfitMarginTTM           float64 `json:"netProfitMarginTTM"`
	EBITDAMarginTTM              float64 `json:"ebitdaMarginTTM"`
	ReturnOnAssetsTTM            float64 `json:"returnOnAssetsTTM"`
	ReturnOnEquityTTM            float64 `json:"returnOnEquityTTM"`
	DebtEquityRatioTTM           float64 `json:"debtEquityRatioTTM"`
	CurrentRatioTTM              float64 `json:"currentRatioTTM"`
	QuickRatioTTM                float64 `json:"quickRatioTTM"`
	CashRatioTTM                 float64 `json:"cashRatioTTM"`
	DividendYieldTTM             float64 `json:"dividendYieldTTM"`
	PayoutRatioTTM               float64 `json:"payoutRatioTTM"`
	DividendPerShareTTM          float64 `json:"dividendPerShareTTM"`
	RevenuePerShareTTM           float64 `json:"revenuePerShareTTM"`
	NetIncomePerShareTTM         float64 `json:"netIncomePerShareTTM"`
	CashPerShareTTM              float64 `json:"cashPerShareTTM"`
	BookValuePerShareTTM         float64 `json:"bookValuePerShareTTM"`
	OperatingCashFlowPerShareTTM float64 `json:"operatingCashFlowPerShareTTM"`
	FreeCashFlowPerShareTTM      float64 `json:"freeCashFlowPerShareTTM"`
	EnterpriseValueMultipleTTM   float64 `json:"enterpriseValueMultipleTTM"`
}

// keyMetricsEntry is the subset of FMP's /key-metrics-ttm payload this
// engine maps.
type keyMetricsEntry struct {
	RevenuePerShareTTM   float64 `json:"revenuePerShareTTM"`
	EBITDAPerShareTTM    float64 `json:"ebitdaPerShareTTM"`
	DebtToEquityTTM      float64 `json:"debtToEquityTTM"`
	EnterpriseValueTTM   float64 `json:"enterpriseValueTTM"`
	EVToEBITDATTM        float64 `json:"enterpriseValueOverEBITDATTM"`
	TotalDebtTTM         float64 `json:"totalDebtTTM"`
	AverageVolumeTTM     float64 `json:"averageVolumeTTM"`
	SharesOutstandingTTM float64 `json:"sharesOutstandingTTM"`
}

// historicalResponse is FMP's /historical-price-full payload, newest first.
type historicalResponse struct {
	Symbol     string `json:"symbol"`
	Historical []struct {
		Date   string  `json:"date"`
		Open   float64 `json:"open"`
		High   float64 `json:"high"`
		Low    float64 `json:"low"`
		Close  float64 `json:"close"`
		Volume int64   `json:"volume"`
	} `json:"historical"`
}

func (c *Client) profile(ctx context.Context, symbol string) (*profileEntry, error) {
	var entries []profileEntry
	if err := c.getJSON(ctx, "/profile/"+url.PathEscape(symbol), nil, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no profile data for %s", symbol)
	}
	return &entries[0], nil
}

func (c *Client) quote(ctx context.Context, symbol string) (*quoteEntry, error) {
	var entries []quoteEntry
	if err := c.getJSON(ctx, "/quote/"+url.PathEscape(symbol), nil, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}
	return &entries[0], nil
}

// ratiosTTM and keyMetricsTTM return nil without error when FMP has no row
// for the symbol; the adapter degrades to quote+profile data.
func (c *Client) ratiosTTM(ctx context.Context, symbol string) (*ratiosEntry, error) {
	var entries []ratiosEntry
	if err := c.getJSON(ctx, "/ratios-ttm/"+url.PathEscape(symbol), nil, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func (c *Client) keyMetricsTTM(ctx context.Context, symbol string) (*keyMetricsEntry, error) {
	var entries []keyMetricsEntry
	if err := c.getJSON(ctx, "/key-metrics-ttm/"+url.PathEscape(symbol), nil, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func (c *Client) historical(ctx context.Context, symbol string, from, to time.Time) (*historicalResponse, error) {
	params := url.Values{}
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))
	var resp historicalResponse
	if err := c.getJSON(ctx, "/historical-price-full/"+url.PathEscape(symbol), params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	q := url.Values{}
	for k, vs := range c.query {
		q[k] = vs
	}
	for k, vs := range params {
		q[k] = vs
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s -> %d: %s", path, resp.StatusCode, b)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
