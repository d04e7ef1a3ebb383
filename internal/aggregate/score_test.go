package aggregate

import (
    "testing"

    "marketdata/internal/finance"
)

func TestScore_BareQuoteScoresBase(t *testing.T) {
    s := &finance.CompanySnapshot{Symbol: "AAPL", Price: 190}
    if got := Score(s); got != 1 {
        t.Fatalf("bare quote score = %d, want 1", got)
    }
}

func TestScore_UnknownSectorDoesNotCount(t *testing.T) {
    s := &finance.CompanySnapshot{Symbol: "AAPL", Price: 190, Sector: "Unknown", Industry: "Unknown"}
    if got := Score(s); got != 1 {
        t.Fatalf("score = %d, want 1 (Unknown must not count)", got)
    }
}

func TestScore_Table(t *testing.T) {
    rev := 1.0
    margin := 40.0
    country := "US"
    cases := []struct {
        name string
        mod  func(*finance.CompanySnapshot)
        want int
    }{
        {"sector", func(s *finance.CompanySnapshot) { s.Sector = "Technology" }, 3},
        {"industry", func(s *finance.CompanySnapshot) { s.Industry = "Semiconductors" }, 3},
        {"employees", func(s *finance.CompanySnapshot) { s.Employees = 12 }, 3},
        {"short description", func(s *finance.CompanySnapshot) { s.Description = "short" }, 1},
        {"long description", func(s *finance.CompanySnapshot) { s.Description = "a much longer blurb" }, 2},
        {"market cap", func(s *finance.CompanySnapshot) { s.MarketCap = 1 }, 2},
        {"pe", func(s *finance.CompanySnapshot) { s.PE = 30 }, 2},
        {"dividend", func(s *finance.CompanySnapshot) { s.Dividend = 0.5 }, 2},
        {"revenue", func(s *finance.CompanySnapshot) { s.RevenueTTM = &rev }, 4},
        {"gross margin", func(s *finance.CompanySnapshot) { s.GrossMargin = &margin }, 4},
        {"debt to equity", func(s *finance.CompanySnapshot) { s.DebtToEquity = &rev }, 4},
        {"current ratio", func(s *finance.CompanySnapshot) { s.CurrentRatio = &rev }, 4},
        {"country", func(s *finance.CompanySnapshot) { s.Country = &country }, 3},
        {"ceo", func(s *finance.CompanySnapshot) { s.CEO = &country }, 3},
    }
    for _, tc := range cases {
        s := &finance.CompanySnapshot{Symbol: "AAPL", Price: 190}
        tc.mod(s)
        if got := Score(s); got != tc.want {
            t.Errorf("%s: score = %d, want %d", tc.name, got, tc.want)
        }
    }
}

// Adding data must never lower the score.
func TestScore_Monotonic(t *testing.T) {
    s := &finance.CompanySnapshot{Symbol: "AAPL", Price: 190}
    prev := Score(s)
    steps := []func(*finance.CompanySnapshot){
        func(s *finance.CompanySnapshot) { s.Sector = "Technology" },
        func(s *finance.CompanySnapshot) { s.Industry = "Consumer Electronics" },
        func(s *finance.CompanySnapshot) { s.Employees = 164000 },
        func(s *finance.CompanySnapshot) { s.Description = "Designs consumer electronics" },
        func(s *finance.CompanySnapshot) { s.MarketCap = 2.9e12 },
        func(s *finance.CompanySnapshot) { s.PE = 31 },
        func(s *finance.CompanySnapshot) { rev := 400e9; s.RevenueTTM = &rev },
        func(s *finance.CompanySnapshot) { m := 45.0; s.GrossMargin = &m },
        func(s *finance.CompanySnapshot) { d := 1.8; s.DebtToEquity = &d },
        func(s *finance.CompanySnapshot) { r := 0.99; s.CurrentRatio = &r },
        func(s *finance.CompanySnapshot) { c := "US"; s.Country = &c },
        func(s *finance.CompanySnapshot) { c := "Tim Cook"; s.CEO = &c },
    }
    for i, step := range steps {
        step(s)
        got := Score(s)
        if got < prev {
            t.Fatalf("step %d lowered score from %d to %d", i, prev, got)
        }
        prev = got
    }
    if prev < ExcellentScore {
        t.Fatalf("fully populated snapshot scores %d, below the short-circuit threshold", prev)
    }
}
