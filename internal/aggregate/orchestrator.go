package aggregate

import (
    "context"
    "log/slog"
    "strings"
    "time"

    "marketdata/internal/finance"
    "marketdata/internal/provider"
)

// DefaultHistoryTimeout bounds the one designated history provider that is
// raced against a wall clock.
const DefaultHistoryTimeout = 15 * time.Second

// Attempt records the outcome of one provider try within a run. Every
// fallback step is captured instead of silently discarded.
type Attempt struct {
    Provider string `json:"provider"`
    // Skipped is set when the provider is not configured; that is not a
    // failure, just a hole in the fallback chain.
    Skipped bool   `json:"skipped,omitempty"`
    Score   int    `json:"score,omitempty"`
    Points  int    `json:"points,omitempty"`
    Error   string `json:"error,omitempty"`

    err error
}

// Err returns the underlying error of a failed attempt, if any.
func (a Attempt) Err() error { return a.err }

// Orchestrator composes adapters, validation, scoring, backfilling and
// period filtering into the two public lookups. Providers are tried
// sequentially in fixed priority order so per-provider rate limits stay
// predictable and runs are reproducible.
type Orchestrator struct {
    Snapshots []provider.SnapshotProvider
    Histories []provider.HistoryProvider

    // TimeboxedHistory names the single history provider that is raced
    // against HistoryTimeout. All others rely on the HTTP client timeout.
    TimeboxedHistory string
    HistoryTimeout   time.Duration

    // Now is the clock used for period windows; tests pin it.
    Now func() time.Time
    Log *slog.Logger
}

func (o *Orchestrator) now() time.Time {
    if o.Now != nil { return o.Now() }
    return time.Now().UTC()
}

func (o *Orchestrator) log() *slog.Logger {
    if o.Log != nil { return o.Log }
    return slog.Default()
}

// FetchSnapshot returns the best-available canonical snapshot for symbol,
// or nil when every provider failed or was unconfigured. No error escapes:
// each failure reduces to trying the next provider, and the attempt list
// tells the story of the run.
func (o *Orchestrator) FetchSnapshot(ctx context.Context, symbol string) (*finance.CompanySnapshot, []Attempt) {
    ticker := strings.ToUpper(strings.TrimSpace(symbol))
    log := o.log().With("symbol", ticker)

    var best *finance.CompanySnapshot
    bestScore := 0
    attempts := make([]Attempt, 0, len(o.Snapshots))

    for _, p := range o.Snapshots {
        snap, err := p.Snapshot(ctx, ticker)
        if err != nil {
            log.Warn("snapshot provider failed", "provider", p.Name(), "error", err)
            attempts = append(attempts, Attempt{Provider: p.Name(), Error: err.Error(), err: err})
            continue
        }
        if snap == nil {
            attempts = append(attempts, Attempt{Provider: p.Name(), Skipped: true})
            continue
        }
        if err := Validate(snap, ticker); err != nil {
            log.Warn("snapshot rejected", "provider", p.Name(), "error", err)
            attempts = append(attempts, Attempt{Provider: p.Name(), Error: err.Error(), err: err})
            continue
        }

        score := Score(snap)
        attempts = append(attempts, Attempt{Provider: p.Name(), Score: score})
        log.Debug("snapshot scored", "provider", p.Name(), "score", score)

        if score > bestScore {
            best, bestScore = snap, score
        }
        if score >= ExcellentScore {
            log.Info("snapshot accepted", "provider", p.Name(), "score", score)
            Backfill(snap)
            return snap, attempts
        }
    }

    if best == nil {
        log.Warn("all snapshot providers failed")
        return nil, attempts
    }
    log.Info("snapshot accepted", "score", bestScore)
    Backfill(best)
    return best, attempts
}

// FetchHistory returns the first non-empty canonical series for symbol and
// period, or nil when every provider failed or had nothing in the window.
func (o *Orchestrator) FetchHistory(ctx context.Context, symbol string, period finance.Period) ([]finance.HistoricalPoint, []Attempt) {
    ticker := strings.ToUpper(strings.TrimSpace(symbol))
    log := o.log().With("symbol", ticker, "period", string(period))
    now := o.now()
    attempts := make([]Attempt, 0, len(o.Histories))

    for _, p := range o.Histories {
        points, err := o.callHistory(ctx, p, ticker, period)
        if err != nil {
            log.Warn("history provider failed", "provider", p.Name(), "error", err)
            attempts = append(attempts, Attempt{Provider: p.Name(), Error: err.Error(), err: err})
            continue
        }
        if points == nil {
            attempts = append(attempts, Attempt{Provider: p.Name(), Skipped: true})
            continue
        }

        series := FilterPeriod(FilterValid(points), period, now)
        attempts = append(attempts, Attempt{Provider: p.Name(), Points: len(series)})
        if len(series) == 0 {
            log.Debug("history empty after filtering", "provider", p.Name(), "raw", len(points))
            continue
        }
        log.Info("history accepted", "provider", p.Name(), "points", len(series))
        return series, attempts
    }

    log.Warn("all history providers failed")
    return nil, attempts
}

// callHistory invokes one history provider, racing the designated one
// against the wall clock. A timed-out call keeps running in the background
// but its result is discarded; the timeout counts as that provider's
// failure only.
func (o *Orchestrator) callHistory(ctx context.Context, p provider.HistoryProvider, ticker string, period finance.Period) ([]finance.HistoricalPoint, error) {
    if p.Name() != o.TimeboxedHistory {
        return p.History(ctx, ticker, period)
    }
    timeout := o.HistoryTimeout
    if timeout <= 0 { timeout = DefaultHistoryTimeout }

    type result struct {
        points []finance.HistoricalPoint
        err    error
    }
    ch := make(chan result, 1)
    go func() {
        points, err := p.History(ctx, ticker, period)
        ch <- result{points, err}
    }()

    timer := time.NewTimer(timeout)
    defer timer.Stop()
    select {
    case r := <-ch:
        return r.points, r.err
    case <-timer.C:
        return nil, &provider.Error{
            Provider:  p.Name(),
            Symbol:    ticker,
            Message:   "timed out after " + timeout.String(),
            Retryable: true,
        }
    case <-ctx.Done():
        return nil, ctx.Err()
    }
}
