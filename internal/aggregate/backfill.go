package aggregate

import "marketdata/internal/finance"

// Backfill derives missing optional fields from present ones. Each rule
// fires only when the target is absent and all of its inputs are present;
// an existing value is never overwritten. The rule graph is acyclic
// (primitives, then ratios, then derived aggregates) so one pass suffices.
//
// Margin inputs are canonical 0-100 percents and are divided by 100 here.
func Backfill(s *finance.CompanySnapshot) {
    if s == nil { return }

    // Market cap and share count are each other's inverse.
    if s.MarketCap == 0 && s.Price > 0 && s.SharesOutstanding != nil {
        s.MarketCap = s.Price * *s.SharesOutstanding
    }
    if s.SharesOutstanding == nil && s.MarketCap > 0 && s.Price > 0 {
        shares := s.MarketCap / s.Price
        s.SharesOutstanding = &shares
    }

    if s.RevenueTTM == nil && s.MarketCap > 0 && s.PriceToSales != nil && *s.PriceToSales > 0 {
        rev := s.MarketCap / *s.PriceToSales
        s.RevenueTTM = &rev
    }
    if s.GrossProfitTTM == nil && s.RevenueTTM != nil && s.GrossMargin != nil {
        gp := *s.GrossMargin / 100 * *s.RevenueTTM
        s.GrossProfitTTM = &gp
    }
    if s.EBITDATTM == nil {
        switch {
        case s.EBITDAMargin != nil && s.RevenueTTM != nil:
            e := *s.EBITDAMargin / 100 * *s.RevenueTTM
            s.EBITDATTM = &e
        case s.EBITDAPerShare != nil && s.SharesOutstanding != nil:
            e := *s.EBITDAPerShare * *s.SharesOutstanding
            s.EBITDATTM = &e
        }
    }
    if s.NetIncomeTTM == nil && s.NetMargin != nil && s.RevenueTTM != nil {
        ni := *s.NetMargin / 100 * *s.RevenueTTM
        s.NetIncomeTTM = &ni
    }
    if s.FreeCashFlowTTM == nil && s.FreeCashFlowPerShare != nil && s.SharesOutstanding != nil {
        fcf := *s.FreeCashFlowPerShare * *s.SharesOutstanding
        s.FreeCashFlowTTM = &fcf
    }

    if s.DividendYield == nil && s.AnnualDividend != nil && s.Price > 0 {
        y := *s.AnnualDividend / s.Price // 0-1 fraction
        s.DividendYield = &y
    }
}
