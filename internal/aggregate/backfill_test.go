package aggregate

import (
    "testing"

    "marketdata/internal/finance"
)

func f(v float64) *float64 { return &v }

func TestBackfill_MarketCapFromShares(t *testing.T) {
    s := &finance.CompanySnapshot{Symbol: "AAPL", Price: 10, SharesOutstanding: f(100)}
    Backfill(s)
    if s.MarketCap != 1000 { t.Fatalf("market cap = %v, want 1000", s.MarketCap) }
}

func TestBackfill_SharesFromMarketCap(t *testing.T) {
    s := &finance.CompanySnapshot{Symbol: "AAPL", Price: 10, MarketCap: 1000}
    Backfill(s)
    if s.SharesOutstanding == nil || *s.SharesOutstanding != 100 {
        t.Fatalf("shares = %v, want 100", s.SharesOutstanding)
    }
}

func TestBackfill_RevenueChain(t *testing.T) {
    s := &finance.CompanySnapshot{
        Symbol: "AAPL", Price: 10, MarketCap: 1000,
        PriceToSales: f(4),
        GrossMargin:  f(40), // percent
        NetMargin:    f(20),
    }
    Backfill(s)
    if s.RevenueTTM == nil || *s.RevenueTTM != 250 {
        t.Fatalf("revenue = %v, want 250", s.RevenueTTM)
    }
    if s.GrossProfitTTM == nil || *s.GrossProfitTTM != 100 {
        t.Fatalf("gross profit = %v, want 100", s.GrossProfitTTM)
    }
    if s.NetIncomeTTM == nil || *s.NetIncomeTTM != 50 {
        t.Fatalf("net income = %v, want 50", s.NetIncomeTTM)
    }
}

func TestBackfill_EBITDAPrefersMarginOverPerShare(t *testing.T) {
    s := &finance.CompanySnapshot{
        Symbol: "AAPL", Price: 10,
        RevenueTTM:        f(200),
        EBITDAMargin:      f(50),
        EBITDAPerShare:    f(3),
        SharesOutstanding: f(10),
    }
    Backfill(s)
    if s.EBITDATTM == nil || *s.EBITDATTM != 100 {
        t.Fatalf("ebitda = %v, want 100 (margin route)", s.EBITDATTM)
    }
}

func TestBackfill_EBITDAFromPerShare(t *testing.T) {
    s := &finance.CompanySnapshot{
        Symbol: "AAPL", Price: 10,
        EBITDAPerShare:    f(3),
        SharesOutstanding: f(10),
    }
    Backfill(s)
    if s.EBITDATTM == nil || *s.EBITDATTM != 30 {
        t.Fatalf("ebitda = %v, want 30", s.EBITDATTM)
    }
}

func TestBackfill_FreeCashFlowFromPerShare(t *testing.T) {
    s := &finance.CompanySnapshot{
        Symbol: "AAPL", Price: 10,
        FreeCashFlowPerShare: f(5),
        SharesOutstanding:    f(10),
    }
    Backfill(s)
    if s.FreeCashFlowTTM == nil || *s.FreeCashFlowTTM != 50 {
        t.Fatalf("fcf = %v, want 50", s.FreeCashFlowTTM)
    }
}

func TestBackfill_DividendYieldIsFraction(t *testing.T) {
    s := &finance.CompanySnapshot{Symbol: "AAPL", Price: 100, AnnualDividend: f(2)}
    Backfill(s)
    if s.DividendYield == nil || *s.DividendYield != 0.02 {
        t.Fatalf("yield = %v, want 0.02", s.DividendYield)
    }
}

func TestBackfill_NeverOverwrites(t *testing.T) {
    s := &finance.CompanySnapshot{
        Symbol: "AAPL", Price: 10, MarketCap: 555,
        SharesOutstanding: f(7),
        RevenueTTM:        f(123),
        PriceToSales:      f(4),
        DividendYield:     f(0.9),
        AnnualDividend:    f(2),
    }
    Backfill(s)
    if s.MarketCap != 555 || *s.SharesOutstanding != 7 || *s.RevenueTTM != 123 || *s.DividendYield != 0.9 {
        t.Fatalf("existing values overwritten: %+v", s)
    }
}

func TestBackfill_MissingInputsDeriveNothing(t *testing.T) {
    s := &finance.CompanySnapshot{Symbol: "AAPL", Price: 10}
    Backfill(s)
    if s.MarketCap != 0 || s.SharesOutstanding != nil || s.RevenueTTM != nil || s.DividendYield != nil {
        t.Fatalf("derived from nothing: %+v", s)
    }
}
