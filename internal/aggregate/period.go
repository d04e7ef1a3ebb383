package aggregate

import (
    "sort"
    "time"

    "marketdata/internal/finance"
)

// FilterValid drops points that fail the series contract: a parseable
// calendar date, a positive price and a non-negative volume.
func FilterValid(points []finance.HistoricalPoint) []finance.HistoricalPoint {
    out := make([]finance.HistoricalPoint, 0, len(points))
    for _, p := range points {
        if p.Date == "" || p.Price <= 0 || p.Volume < 0 {
            continue
        }
        if _, err := time.Parse(finance.DateLayout, p.Date); err != nil {
            continue
        }
        out = append(out, p)
    }
    return out
}

// FilterPeriod clips a series to the exact calendar window [period start,
// end of today], sorts it ascending and drops duplicate dates (first
// occurrence wins). An empty result is a normal outcome meaning "nothing in
// range"; the orchestrator moves on to the next provider.
func FilterPeriod(points []finance.HistoricalPoint, period finance.Period, now time.Time) []finance.HistoricalPoint {
    if len(points) == 0 { return nil }

    end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
    s := period.Start(now)
    start := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)

    kept := make([]finance.HistoricalPoint, 0, len(points))
    for _, p := range points {
        d, err := time.Parse(finance.DateLayout, p.Date)
        if err != nil { continue }
        if d.Before(start) || d.After(end) { continue }
        kept = append(kept, p)
    }

    // ISO dates sort lexically, same order as chronologically.
    sort.SliceStable(kept, func(i, j int) bool { return kept[i].Date < kept[j].Date })

    out := kept[:0]
    for i, p := range kept {
        if i > 0 && p.Date == out[len(out)-1].Date { continue }
        out = append(out, p)
    }
    return out
}
