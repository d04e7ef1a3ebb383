package aggregate

import "marketdata/internal/finance"

// ExcellentScore is the completeness score at which the orchestrator stops
// trying further providers.
const ExcellentScore = 12

// Score assigns an additive completeness score to a validated snapshot.
// The table is a proxy for how many enrichment categories are populated, so
// a provider with deep profile data beats one returning a bare quote.
func Score(s *finance.CompanySnapshot) int {
    score := 1 // base: valid symbol and price

    if s.Sector != "" && s.Sector != "Unknown" { score += 2 }
    if s.Industry != "" && s.Industry != "Unknown" { score += 2 }
    if s.Employees > 0 { score += 2 }
    if len(s.Description) > 10 { score += 1 }
    if s.MarketCap > 0 { score += 1 }
    if s.PE > 0 { score += 1 }
    if s.Dividend > 0 { score += 1 }

    if s.RevenueTTM != nil { score += 3 }
    if s.GrossMargin != nil { score += 3 }
    if s.DebtToEquity != nil { score += 3 }
    if s.CurrentRatio != nil { score += 3 }
    if s.Country != nil { score += 2 }
    if s.CEO != nil { score += 2 }
    return score
}
