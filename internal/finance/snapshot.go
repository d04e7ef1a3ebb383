package finance

// CompanySnapshot is the canonical, point-in-time company/quote record that
// every provider adapter maps into. Plain fields are required or
// zero-defaulted by validation; pointer fields are optional and nil means
// unknown, never a stand-in zero.
//
// Unit conventions:
//   - monetary values are absolute base-currency amounts
//   - margins, ROA/ROE and payout ratio are 0-100 percents
//   - dividend is the trailing annual dividend per share in base currency
//   - dividendYield is a 0-1 fraction
//   - dates are ISO-8601 calendar days
type CompanySnapshot struct {
    Symbol        string  `json:"symbol"`
    Name          string  `json:"name"`
    Price         float64 `json:"price"`
    Change        float64 `json:"change"`
    ChangePercent float64 `json:"changePercent"`
    Volume        int64   `json:"volume"`
    MarketCap     float64 `json:"marketCap"`
    PE            float64 `json:"pe"`
    Dividend      float64 `json:"dividend"`
    Sector        string  `json:"sector"`
    Industry      string  `json:"industry"`
    Employees     int64   `json:"employees"`
    Description   string  `json:"description"`
    Website       *string `json:"website,omitempty"`

    // Valuation ratios
    ForwardPE    *float64 `json:"forwardPE,omitempty"`
    PEG          *float64 `json:"peg,omitempty"`
    PriceToBook  *float64 `json:"priceToBook,omitempty"`
    PriceToSales *float64 `json:"priceToSales,omitempty"`
    EVToEBITDA   *float64 `json:"evToEbitda,omitempty"`

    // Financials (trailing twelve months)
    RevenueTTM           *float64 `json:"revenueTTM,omitempty"`
    GrossProfitTTM       *float64 `json:"grossProfitTTM,omitempty"`
    EBITDATTM            *float64 `json:"ebitdaTTM,omitempty"`
    NetIncomeTTM         *float64 `json:"netIncomeTTM,omitempty"`
    FreeCashFlowTTM      *float64 `json:"freeCashFlowTTM,omitempty"`
    OperatingCashFlowTTM *float64 `json:"operatingCashFlowTTM,omitempty"`

    // Profitability (0-100 percents)
    GrossMargin     *float64 `json:"grossMargin,omitempty"`
    OperatingMargin *float64 `json:"operatingMargin,omitempty"`
    NetMargin       *float64 `json:"netMargin,omitempty"`
    EBITDAMargin    *float64 `json:"ebitdaMargin,omitempty"`
    ROA             *float64 `json:"roa,omitempty"`
    ROE             *float64 `json:"roe,omitempty"`

    // Balance sheet & liquidity
    TotalDebt    *float64 `json:"totalDebt,omitempty"`
    DebtToEquity *float64 `json:"debtToEquity,omitempty"`
    CurrentRatio *float64 `json:"currentRatio,omitempty"`
    QuickRatio   *float64 `json:"quickRatio,omitempty"`
    CashRatio    *float64 `json:"cashRatio,omitempty"`

    // Dividends
    DividendYield  *float64 `json:"dividendYield,omitempty"` // 0-1 fraction
    AnnualDividend *float64 `json:"annualDividend,omitempty"`
    PayoutRatio    *float64 `json:"payoutRatio,omitempty"` // 0-100 percent
    ExDividendDate *string  `json:"exDividendDate,omitempty"`

    // Performance
    FiftyTwoWeekHigh *float64 `json:"fiftyTwoWeekHigh,omitempty"`
    FiftyTwoWeekLow  *float64 `json:"fiftyTwoWeekLow,omitempty"`
    Beta             *float64 `json:"beta,omitempty"`
    YTDReturn        *float64 `json:"ytdReturn,omitempty"`
    OneYearReturn    *float64 `json:"oneYearReturn,omitempty"`

    // Company profile
    Country  *string `json:"country,omitempty"`
    Exchange *string `json:"exchange,omitempty"`
    Currency *string `json:"currency,omitempty"`
    CEO      *string `json:"ceo,omitempty"`
    Phone    *string `json:"phone,omitempty"`
    Address  *string `json:"address,omitempty"`
    City     *string `json:"city,omitempty"`
    State    *string `json:"state,omitempty"`
    Zip      *string `json:"zip,omitempty"`
    IPODate  *string `json:"ipoDate,omitempty"`

    // Share counts and per-share metrics
    SharesOutstanding         *float64 `json:"sharesOutstanding,omitempty"`
    AverageVolume             *float64 `json:"averageVolume,omitempty"`
    BookValuePerShare         *float64 `json:"bookValuePerShare,omitempty"`
    RevenuePerShare           *float64 `json:"revenuePerShare,omitempty"`
    NetIncomePerShare         *float64 `json:"netIncomePerShare,omitempty"`
    CashPerShare              *float64 `json:"cashPerShare,omitempty"`
    EBITDAPerShare            *float64 `json:"ebitdaPerShare,omitempty"`
    OperatingCashFlowPerShare *float64 `json:"operatingCashFlowPerShare,omitempty"`
    FreeCashFlowPerShare      *float64 `json:"freeCashFlowPerShare,omitempty"`

    HistoricalData []HistoricalPoint `json:"historicalData,omitempty"`
}

// NonZero returns a pointer to v, or nil when v is zero. Adapters use it to
// keep absent vendor numbers out of the canonical record.
func NonZero(v float64) *float64 {
    if v == 0 { return nil }
    return &v
}

// Positive returns a pointer to v, or nil when v <= 0.
func Positive(v float64) *float64 {
    if v <= 0 { return nil }
    return &v
}

// NonEmpty returns a pointer to s, or nil when s is empty.
func NonEmpty(s string) *string {
    if s == "" { return nil }
    return &s
}
