package provider

import (
    "context"
    "fmt"

    "marketdata/internal/finance"
)

// SnapshotProvider maps one vendor's company/quote payloads into the
// canonical snapshot. A (nil, nil) return means the provider is not
// configured (missing credentials) and must be skipped silently; any other
// failure is reported as *Error.
type SnapshotProvider interface {
    Name() string
    Snapshot(ctx context.Context, symbol string) (*finance.CompanySnapshot, error)
}

// HistoryProvider maps one vendor's daily-bar payloads into the canonical
// series. Same (nil, nil) convention as SnapshotProvider.
type HistoryProvider interface {
    Name() string
    History(ctx context.Context, symbol string, period finance.Period) ([]finance.HistoricalPoint, error)
}

// Error is the typed failure an adapter raises for unexpected upstream
// trouble: network errors, non-2xx statuses, malformed or error payloads.
// Retryable marks transient conditions worth retrying on a future call;
// nothing retries within the same aggregation run.
type Error struct {
    Provider  string
    Symbol    string
    Message   string
    Retryable bool
    Err       error
}

func (e *Error) Error() string {
    if e.Err != nil {
        return fmt.Sprintf("%s: %s %s: %v", e.Provider, e.Symbol, e.Message, e.Err)
    }
    return fmt.Sprintf("%s: %s %s", e.Provider, e.Symbol, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Errf builds a retryable *Error wrapping err.
func Errf(name, symbol string, err error, format string, args ...any) *Error {
    return &Error{
        Provider:  name,
        Symbol:    symbol,
        Message:   fmt.Sprintf(format, args...),
        Retryable: true,
        Err:       err,
    }
}
