package aggregate

import (
    "fmt"
    "strings"

    "marketdata/internal/finance"
)

// ValidationError marks a mapped snapshot that fails the required-field
// contract. The orchestrator treats it like any provider failure.
type ValidationError struct {
    Symbol string
    Reason string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("invalid snapshot for %s: %s", e.Symbol, e.Reason)
}

// Validate enforces the required-field contract on an adapter-mapped
// snapshot and fills generic defaults into empty required-subset fields.
// It only ever writes defaults into empty slots: richer optional fields the
// adapter supplied are left untouched.
func Validate(s *finance.CompanySnapshot, ticker string) error {
    if s == nil {
        return &ValidationError{Symbol: ticker, Reason: "no data"}
    }
    if strings.TrimSpace(s.Symbol) == "" {
        return &ValidationError{Symbol: ticker, Reason: "missing symbol"}
    }
    if s.Price <= 0 {
        return &ValidationError{Symbol: ticker, Reason: fmt.Sprintf("price %v not positive", s.Price)}
    }

    if s.Name == "" { s.Name = ticker + " Company" }
    if s.Sector == "" { s.Sector = "Unknown" }
    if s.Industry == "" { s.Industry = "Unknown" }
    if s.Description == "" { s.Description = "Financial data for " + ticker }
    if s.Volume < 0 { s.Volume = 0 }
    if s.Employees < 0 { s.Employees = 0 }
    return nil
}
