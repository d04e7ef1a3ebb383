package main

import (
    "testing"
    "time"

    "marketdata/internal/cache"
    "marketdata/internal/config"
    "marketdata/internal/httpx"
)

func fullConfig() config.Config {
    var cfg config.Config
    cfg.FMP = config.KeyedProvider{Enabled: true, APIKey: "k"}
    cfg.AlphaVantage = config.KeyedProvider{Enabled: true, APIKey: "k"}
    cfg.Finnhub = config.KeyedProvider{Enabled: true, APIKey: "k"}
    cfg.Polygon = config.KeyedProvider{Enabled: true, APIKey: "k"}
    cfg.Yahoo = config.Yahoo{Enabled: true}
    cfg.Backend = config.Backend{Enabled: true, BaseURL: "http://backend.internal"}
    return cfg
}

func newClients() (*httpx.Client, *httpx.CachedClient) {
    hc := httpx.New(time.Second)
    return hc, &httpx.CachedClient{Client: hc, Cache: cache.New[[]byte](time.Minute, 10)}
}

// The fallback chains are part of the contract: every entry point must try
// providers in the same fixed priority order.
func TestBuildProviders_FixedPriorityOrder(t *testing.T) {
    hc, cc := newClients()
    snapshots, histories := buildProviders(fullConfig(), hc, cc)

    wantSnap := []string{"FMP", "AlphaVantage", "Finnhub", "Backend API", "Yahoo Finance"}
    if len(snapshots) != len(wantSnap) {
        t.Fatalf("snapshots = %d providers, want %d", len(snapshots), len(wantSnap))
    }
    for i, p := range snapshots {
        if p.Name() != wantSnap[i] {
            t.Fatalf("snapshots[%d] = %q, want %q", i, p.Name(), wantSnap[i])
        }
    }

    wantHist := []string{"Polygon", "Backend API", "AlphaVantage", "FMP", "Finnhub", "Yahoo Finance"}
    if len(histories) != len(wantHist) {
        t.Fatalf("histories = %d providers, want %d", len(histories), len(wantHist))
    }
    for i, p := range histories {
        if p.Name() != wantHist[i] {
            t.Fatalf("histories[%d] = %q, want %q", i, p.Name(), wantHist[i])
        }
    }
}

func TestBuildProviders_DisabledProvidersLeaveNoHoles(t *testing.T) {
    hc, cc := newClients()
    cfg := fullConfig()
    cfg.Polygon.Enabled = false
    cfg.Backend.Enabled = false

    _, histories := buildProviders(cfg, hc, cc)
    want := []string{"AlphaVantage", "FMP", "Finnhub", "Yahoo Finance"}
    if len(histories) != len(want) {
        t.Fatalf("histories = %d providers, want %d", len(histories), len(want))
    }
    for i, p := range histories {
        if p.Name() != want[i] {
            t.Fatalf("histories[%d] = %q, want %q", i, p.Name(), want[i])
        }
    }
}
