package main

import (
    "context"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "marketdata/internal/aggregate"
    "marketdata/internal/cache"
    "marketdata/internal/config"
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

func main() {
    cfgPath := os.Getenv("CONFIG_FILE")
    cfg, err := config.Load(cfgPath)
    if err != nil { log.Fatalf("config: %v", err) }

    logger := logging.New(cfg.Log.Level)

    if cfg.FMP.Enabled && cfg.FMP.APIKey == "" {
        logger.Warn("fmp enabled but FMP_API_KEY not set; provider will be skipped")
    }
    if cfg.AlphaVantage.Enabled && cfg.AlphaVantage.APIKey == "" {
        logger.Warn("alphavantage enabled but ALPHA_VANTAGE_API_KEY not set; provider will be skipped")
    }
    if cfg.Finnhub.Enabled && cfg.Finnhub.APIKey == "" {
        logger.Warn("finnhub enabled but FINNHUB_API_KEY not set; provider will be skipped")
    }

    httpClient := httpx.New(cfg.Server.RequestTimeout())
    payloadCache := cache.New[[]byte](cfg.Cache.TTL(), cfg.Cache.MaxEntries)
    cachedClient := &httpx.CachedClient{Client: httpClient, Cache: payloadCache}

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

    // Fallback order is fixed: richest snapshot source first, keyless last.
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

    orch := &aggregate.Orchestrator{
        Snapshots:        snapshots,
        Histories:        histories,
        TimeboxedHistory: cfg.History.Timeboxed,
        HistoryTimeout:   cfg.History.Timeout(),
        Log:              logger,
    }

    router := newRouter(&api{svc: orch, concurrency: cfg.Batch.Concurrency, log: logger})
    srv := &http.Server{
        Addr:              ":" + cfg.Server.Port,
        Handler:           router,
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       15 * time.Second,
        WriteTimeout:      60 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    go func() {
        logger.Info("server listening", "addr", srv.Addr)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatalf("server: %v", err)
        }
    }()

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    _ = srv.Shutdown(shutdownCtx)
}
