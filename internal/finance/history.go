package finance

import (
    "fmt"
    "time"
)

// DateLayout is the calendar-day format used everywhere in the canonical model.
const DateLayout = "2006-01-02"

// HistoricalPoint is one calendar day of a price series. Price and Close
// carry the same value for daily bars; Open/High/Low are optional.
type HistoricalPoint struct {
    Date   string   `json:"date"`
    Price  float64  `json:"price"`
    Close  float64  `json:"close"`
    Volume int64    `json:"volume"`
    Open   *float64 `json:"open,omitempty"`
    High   *float64 `json:"high,omitempty"`
    Low    *float64 `json:"low,omitempty"`
}

// Period selects a calendar lookback window for historical series.
type Period string

const (
    Period1M Period = "1M"
    Period3M Period = "3M"
    Period6M Period = "6M"
    Period1Y Period = "1Y"
    Period2Y Period = "2Y"
    Period5Y Period = "5Y"
)

// ParsePeriod validates a period token. The empty string maps to 1Y, the
// default window of the history endpoints.
func ParsePeriod(s string) (Period, error) {
    switch Period(s) {
    case Period1M, Period3M, Period6M, Period1Y, Period2Y, Period5Y:
        return Period(s), nil
    case "":
        return Period1Y, nil
    }
    return "", fmt.Errorf("unknown period %q", s)
}

// Start computes the exact calendar start of the window ending at now.
// Calendar months/years, not day-count approximations; month ends follow
// time.AddDate normalization (1M back from March 31 rolls into early March).
func (p Period) Start(now time.Time) time.Time {
    switch p {
    case Period1M:
        return now.AddDate(0, -1, 0)
    case Period3M:
        return now.AddDate(0, -3, 0)
    case Period6M:
        return now.AddDate(0, -6, 0)
    case Period2Y:
        return now.AddDate(-2, 0, 0)
    case Period5Y:
        return now.AddDate(-5, 0, 0)
    }
    return now.AddDate(-1, 0, 0)
}
