package fmp

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"marketdata/internal/finance"
	"marketdata/internal/provider"
)

// Adapter maps Financial Modeling Prep into the canonical schema. It is the
// richest snapshot source: profile, quote, TTM ratios and TTM key metrics
// are fetched concurrently and merged, with per-share fallbacks applied for
// the TTM aggregates FMP does not report directly.
type Adapter struct {
	name       string
	configured bool
	client     *Client
}

func New(apiKey string, options ...ClientOption) *Adapter {
	return &Adapter{name: "FMP", configured: apiKey != "", client: NewClient(apiKey, options...)}
}

func (a *Adapter) Name() string { return a.name }

func (a *Adapter) Snapshot(ctx context.Context, symbol string) (*finance.CompanySnapshot, error) {
	if !a.configured {
		return nil, nil
	}

	var (
		prof    *profileEntry
		quote   *quoteEntry
		ratios  *ratiosEntry
		metrics *keyMetricsEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { prof, err = a.client.profile(gctx, symbol); return err })
	g.Go(func() (err error) { quote, err = a.client.quote(gctx, symbol); return err })
	g.Go(func() (err error) { ratios, err = a.client.ratiosTTM(gctx, symbol); return err })
	g.Go(func() (err error) { metrics, err = a.client.keyMetricsTTM(gctx, symbol); return err })
	if err := g.Wait(); err != nil {
		return nil, provider.Errf(a.name, symbol, err, "fetch failed")
	}

	change := quote.Price - quote.PreviousClose
	changePct := 0.0
	if quote.PreviousClose > 0 {
		changePct = change / quote.PreviousClose * 100
	}

	s := &finance.CompanySnapshot{
		Symbol:        prof.Symbol,
		Name:          prof.CompanyName,
		Price:         quote.Price,
		Change:        change,
		ChangePercent: changePct,
		Volume:        quote.Volume,
		MarketCap:     firstPositive(quote.MarketCap, prof.MktCap),
		PE:            quote.PE,
		Dividend:      prof.LastDividend,
		Sector:        prof.Sector,
		Industry:      prof.Industry,
		Employees:     parseEmployees(prof.FullTimeEmployees),
		Description:   prof.Description,
		Website:       finance.NonEmpty(prof.Website),

		Beta:             finance.NonZero(prof.Beta),
		FiftyTwoWeekHigh: finance.Positive(quote.YearHigh),
		FiftyTwoWeekLow:  finance.Positive(quote.YearLow),
		AverageVolume:    finance.Positive(quote.AvgVolume),

		Country:  finance.NonEmpty(prof.Country),
		Exchange: finance.NonEmpty(prof.Exchange),
		Currency: finance.NonEmpty(prof.Currency),
		CEO:      finance.NonEmpty(prof.CEO),
		Phone:    finance.NonEmpty(prof.Phone),
		Address:  finance.NonEmpty(prof.Address),
		City:     finance.NonEmpty(prof.City),
		State:    finance.NonEmpty(prof.State),
		Zip:      finance.NonEmpty(prof.Zip),
		IPODate:  finance.NonEmpty(prof.IPODate),

		SharesOutstanding: finance.Positive(quote.SharesOutstanding),
	}

	if ratios != nil {
		if s.PE == 0 {
			s.PE = ratios.PERatioTTM
		}
		s.PEG = finance.NonZero(ratios.PEGRatioTTM)
		s.PriceToBook = finance.NonZero(ratios.PriceToBookRatioTTM)
		s.PriceToSales = finance.NonZero(ratios.PriceToSalesRatioTTM)
		s.EVToEBITDA = finance.NonZero(ratios.EnterpriseValueMultipleTTM)

		// Vendor margins are 0-1 fractions; canonical margins are percents.
		s.GrossMargin = asPercent(ratios.GrossProfitMarginTTM)
		s.OperatingMargin = asPercent(ratios.OperatingProfitMarginTTM)
		s.NetMargin = asPercent(ratios.NetProfitMarginTTM)
		s.EBITDAMargin = asPercent(ratios.EBITDAMarginTTM)
		s.ROA = asPercent(ratios.ReturnOnAssetsTTM)
		s.ROE = asPercent(ratios.ReturnOnEquityTTM)
		s.PayoutRatio = asPercent(ratios.PayoutRatioTTM)

		s.DebtToEquity = finance.NonZero(ratios.DebtEquityRatioTTM)
		s.CurrentRatio = finance.NonZero(ratios.CurrentRatioTTM)
		s.QuickRatio = finance.NonZero(ratios.QuickRatioTTM)
		s.CashRatio = finance.NonZero(ratios.CashRatioTTM)

		// Dividend yield stays a 0-1 fraction.
		s.DividendYield = finance.NonZero(ratios.DividendYieldTTM)
		s.AnnualDividend = finance.NonZero(ratios.DividendPerShareTTM)

		s.RevenuePerShare = finance.NonZero(ratios.RevenuePerShareTTM)
		s.NetIncomePerShare = finance.NonZero(ratios.NetIncomePerShareTTM)
		s.CashPerShare = finance.NonZero(ratios.CashPerShareTTM)
		s.BookValuePerShare = finance.NonZero(ratios.BookValuePerShareTTM)
		s.OperatingCashFlowPerShare = finance.NonZero(ratios.OperatingCashFlowPerShareTTM)
		s.FreeCashFlowPerShare = finance.NonZero(ratios.FreeCashFlowPerShareTTM)
	}
	if metrics != nil {
		if s.EVToEBITDA == nil {
			s.EVToEBITDA = finance.NonZero(metrics.EVToEBITDATTM)
		}
		if s.DebtToEquity == nil {
			s.DebtToEquity = finance.NonZero(metrics.DebtToEquityTTM)
		}
		s.EBITDAPerShare = finance.NonZero(metrics.EBITDAPerShareTTM)
		s.TotalDebt = finance.NonZero(metrics.TotalDebtTTM)
		if s.AverageVolume == nil {
			s.AverageVolume = finance.Positive(metrics.AverageVolumeTTM)
		}
		if s.SharesOutstanding == nil {
			s.SharesOutstanding = finance.Positive(metrics.SharesOutstandingTTM)
		}
	}

	// TTM aggregates from per-share metrics: FMP reports most totals only
	// per share, so totals are reconstructed against the share count.
	if s.SharesOutstanding != nil {
		shares := *s.SharesOutstanding
		s.RevenueTTM = timesShares(s.RevenuePerShare, shares)
		s.NetIncomeTTM = timesShares(s.NetIncomePerShare, shares)
		s.FreeCashFlowTTM = timesShares(s.FreeCashFlowPerShare, shares)
		s.OperatingCashFlowTTM = timesShares(s.OperatingCashFlowPerShare, shares)
		s.EBITDATTM = timesShares(s.EBITDAPerShare, shares)
		if s.RevenueTTM != nil && s.GrossMargin != nil {
			gp := *s.GrossMargin / 100 * *s.RevenueTTM
			s.GrossProfitTTM = &gp
		}
	}

	return s, nil
}

func (a *Adapter) History(ctx context.Context, symbol string, period finance.Period) ([]finance.HistoricalPoint, error) {
	if !a.configured {
		return nil, nil
	}
	now := time.Now().UTC()
	resp, err := a.client.historical(ctx, symbol, period.Start(now), now)
	if err != nil {
		return nil, provider.Errf(a.name, symbol, err, "historical fetch failed")
	}
	if len(resp.Historical) == 0 {
		return nil, nil
	}
	// FMP returns newest first; order is restored by the period filter.
	out := make([]finance.HistoricalPoint, 0, len(resp.Historical))
	for _, day := range resp.Historical {
		out = append(out, finance.HistoricalPoint{
			Date:   day.Date,
			Price:  day.Close,
			Close:  day.Close,
			Volume: day.Volume,
			Open:   finance.Positive(day.Open),
			High:   finance.Positive(day.High),
			Low:    finance.Positive(day.Low),
		})
	}
	return out, nil
}

func parseEmployees(s string) int64 {
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		n = n*10 + int64(r-'0')
	}
	return n
}

func firstPositive(vs ...float64) float64 {
	for _, v := range vs {
		if v > 0 {
			return v
		}
	}
	return 0
}

func asPercent(fraction float64) *float64 {
	if fraction == 0 {
		return nil
	}
	p := fraction * 100
	return &p
}

func timesShares(perShare *float64, shares float64) *float64 {
	if perShare == nil || shares <= 0 {
		return nil
	}
	v := *perShare * shares
	return &v
}
