package aggregate

import (
    "testing"

    "marketdata/internal/finance"
)

func TestValidate_Rejections(t *testing.T) {
    cases := []struct {
        name string
        snap *finance.CompanySnapshot
    }{
        {"nil", nil},
        {"empty symbol", &finance.CompanySnapshot{Price: 10}},
        {"blank symbol", &finance.CompanySnapshot{Symbol: "   ", Price: 10}},
        {"zero price", &finance.CompanySnapshot{Symbol: "AAPL"}},
        {"negative price", &finance.CompanySnapshot{Symbol: "AAPL", Price: -3}},
    }
    for _, tc := range cases {
        if err := Validate(tc.snap, "AAPL"); err == nil {
            t.Errorf("%s: want error, got nil", tc.name)
        }
    }
}

func TestValidate_DefaultsOnlyFillEmpty(t *testing.T) {
    ceo := "Tim Cook"
    s := &finance.CompanySnapshot{
        Symbol: "AAPL", Price: 190,
        Sector:    "Technology",
        Volume:    -1,
        Employees: -5,
        CEO:       &ceo,
    }
    if err := Validate(s, "AAPL"); err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if s.Name != "AAPL Company" || s.Industry != "Unknown" || s.Description != "Financial data for AAPL" {
        t.Fatalf("defaults not filled: %+v", s)
    }
    if s.Sector != "Technology" { t.Fatalf("existing sector clobbered: %q", s.Sector) }
    if s.Volume != 0 || s.Employees != 0 { t.Fatalf("negatives not clamped: %+v", s) }
    if s.CEO == nil || *s.CEO != "Tim Cook" { t.Fatal("optional field clobbered") }
}
