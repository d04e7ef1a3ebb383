package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "log"
    "os"
    "time"

    "marketdata/internal/aggregate"
    "marketdata/internal/cache"
    "marketdata/internal/config"
    "marketdata/internal/finance"
    "marketdata/internal/httpx"
    "marketdata/internal/logging"
    "marketdata/internal/provider"
    "marketdata/internal/provider/alphavantage"
    "marketdata/internal/provider/backend"
    "marketdata/internal/provider/finnhub"
    "marketdata/internal/provider/fmp"
    "marketdata/internal/provider/polygon"
    "marketdata/internal/provider/yahoo"
)

// fetch is a one-shot CLI for the aggregation engine: resolve a snapshot or
// a price series for one symbol and print it as JSON.
func main() {
    var symbol string
    var periodStr string
    var history bool
    var timeout int
    var configPath string

    flag.StringVar(&symbol, "symbol", getenv("SYMBOL", "AAPL"), "ticker symbol")
    flag.StringVar(&periodStr, "period", getenv("PERIOD", "1Y"), "history period (1M, 3M, 6M, 1Y, 2Y, 5Y)")
    flag.BoolVar(&history, "history", false, "fetch the price series instead of the snapshot")
    flag.IntVar(&timeout, "timeout", getenvInt("REQUEST_TIMEOUT_SEC", 0), "request timeout seconds (0 = config value)")
    flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.yaml (optional)")
    flag.Parse()

    cfg, err := config.Load(configPath)
    if err != nil { log.Fatalf("config: %v", err) }
    if timeout > 0 { cfg.Server.RequestTimeoutSec = timeout }

    logger := logging.New(cfg.Log.Level)

    httpClient := httpx.New(cfg.Server.RequestTimeout())
    payloadCache := cache.New[[]byte](cfg.Cache.TTL(), cfg.Cache.MaxEntries)
    cachedClient := &httpx.CachedClient{Client: httpClient, Cache: payloadCache}

    snapshots, histories := buildProviders(cfg, httpClient, cachedClient)

    orch := &aggregate.Orchestrator{
        Snapshots:        snapshots,
        Histories:        histories,
        TimeboxedHistory: cfg.History.Timeboxed,
        HistoryTimeout:   cfg.History.Timeout(),
        Log:              logger,
    }

    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
    defer cancel()

    enc := json.NewEncoder(os.Stdout)
    enc.SetIndent("", "  ")

    if history {
        period, err := finance.ParsePeriod(periodStr)
        if err != nil { log.Fatalf("period: %v", err) }
        points, attempts := orch.FetchHistory(ctx, symbol, period)
        if len(points) == 0 {
            reportFailure(attempts)
        }
        _ = enc.Encode(map[string]any{"symbol": symbol, "period": string(period), "historicalData": points})
        return
    }

    snap, attempts := orch.FetchSnapshot(ctx, symbol)
    if snap == nil {
        reportFailure(attempts)
    }
    _ = enc.Encode(snap)
}

// buildProviders assembles the fallback chains in the same fixed priority
// order the server uses: snapshots richest-first with keyless sources last,
// histories Polygon, Backend, Alpha Vantage, FMP, Finnhub, Yahoo.
func buildProviders(cfg config.Config, httpClient *httpx.Client, cachedClient *httpx.CachedClient) ([]provider.SnapshotProvider, []provider.HistoryProvider) {
    var fmpAdapter *fmp.Adapter
    if cfg.FMP.Enabled {
        opts := []fmp.ClientOption{fmp.WithHTTPClient(httpClient.HTTP)}
        if cfg.FMP.BaseURL != "" { opts = append(opts, fmp.WithBaseURL(cfg.FMP.BaseURL)) }
        fmpAdapter = fmp.New(cfg.FMP.APIKey, opts...)
    }
    var avAdapter *alphavantage.Adapter
    if cfg.AlphaVantage.Enabled {
        avAdapter = alphavantage.New(alphavantage.Config{APIKey: cfg.AlphaVantage.APIKey, BaseURL: cfg.AlphaVantage.BaseURL}, httpClient)
    }
    var fhAdapter *finnhub.Adapter
    if cfg.Finnhub.Enabled {
        fhAdapter = finnhub.New(finnhub.Config{APIKey: cfg.Finnhub.APIKey, BaseURL: cfg.Finnhub.BaseURL}, httpClient)
    }
    var beAdapter *backend.Adapter
    if cfg.Backend.Enabled && cfg.Backend.BaseURL != "" {
        beAdapter = backend.New(backend.Config{BaseURL: cfg.Backend.BaseURL}, cachedClient)
    }
    var yhAdapter *yahoo.Adapter
    if cfg.Yahoo.Enabled {
        yhAdapter = yahoo.New(yahoo.Config{BaseURL: cfg.Yahoo.BaseURL}, httpClient)
    }
    var pgAdapter *polygon.Adapter
    if cfg.Polygon.Enabled {
        pgAdapter = polygon.New(polygon.Config{APIKey: cfg.Polygon.APIKey, BaseURL: cfg.Polygon.BaseURL}, httpClient)
    }

    var snapshots []provider.SnapshotProvider
    if fmpAdapter != nil { snapshots = append(snapshots, fmpAdapter) }
    if avAdapter != nil { snapshots = append(snapshots, avAdapter) }
    if fhAdapter != nil { snapshots = append(snapshots, fhAdapter) }
    if beAdapter != nil { snapshots = append(snapshots, beAdapter) }
    if yhAdapter != nil { snapshots = append(snapshots, yhAdapter) }

    var histories []provider.HistoryProvider
    if pgAdapter != nil { histories = append(histories, pgAdapter) }
    if beAdapter != nil { histories = append(histories, beAdapter) }
    if avAdapter != nil { histories = append(histories, avAdapter) }
    if fmpAdapter != nil { histories = append(histories, fmpAdapter) }
    if fhAdapter != nil { histories = append(histories, fhAdapter) }
    if yhAdapter != nil { histories = append(histories, yhAdapter) }

    return snapshots, histories
}

func reportFailure(attempts []aggregate.Attempt) {
    for _, at := range attempts {
        if at.Skipped {
            fmt.Fprintf(os.Stderr, "%s: skipped (not configured)\n", at.Provider)
            continue
        }
        fmt.Fprintf(os.Stderr, "%s: %s\n", at.Provider, at.Error)
    }
    os.Exit(1)
}

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" { return v }
    return def
}

func getenvInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        var x int
        if _, err := fmt.Sscanf(v, "%d", &x); err == nil { return x }
    }
    return def
}
