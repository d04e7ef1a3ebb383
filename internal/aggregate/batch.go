package aggregate

import (
    "context"
    "strings"
    "sync"

    "golang.org/x/sync/errgroup"

    "marketdata/internal/finance"
)

// DefaultBatchConcurrency bounds simultaneous symbol orchestrations in a
// batch lookup. Providers within each orchestration remain sequential.
const DefaultBatchConcurrency = 4

// FetchSnapshotBatch runs independent snapshot orchestrations for several
// symbols with bounded concurrency and returns whatever succeeded, keyed by
// normalized symbol. Symbols with no available data are simply absent.
func (o *Orchestrator) FetchSnapshotBatch(ctx context.Context, symbols []string, concurrency int) map[string]*finance.CompanySnapshot {
    if concurrency <= 0 { concurrency = DefaultBatchConcurrency }

    seen := make(map[string]struct{}, len(symbols))
    uniq := make([]string, 0, len(symbols))
    for _, s := range symbols {
        t := strings.ToUpper(strings.TrimSpace(s))
        if t == "" { continue }
        if _, dup := seen[t]; dup { continue }
        seen[t] = struct{}{}
        uniq = append(uniq, t)
    }

    var mu sync.Mutex
    out := make(map[string]*finance.CompanySnapshot, len(uniq))

    g, gctx := errgroup.WithContext(ctx)
    g.SetLimit(concurrency)
    for _, ticker := range uniq {
        ticker := ticker
        g.Go(func() error {
            snap, _ := o.FetchSnapshot(gctx, ticker)
            if snap != nil {
                mu.Lock()
                out[ticker] = snap
                mu.Unlock()
            }
            return nil
        })
    }
    _ = g.Wait() // workers never return errors; total failure means an empty map
    return out
}
