package backend

import (
    "context"
    "net/http"
    "net/http/httptest"
    "sync/atomic"
    "testing"
    "time"

    "marketdata/internal/cache"
    "marketdata/internal/finance"
    "marketdata/internal/httpx"
)

func cachedClient(ttl time.Duration) *httpx.CachedClient {
    return &httpx.CachedClient{
        Client: httpx.New(5 * time.Second),
        Cache:  cache.New[[]byte](ttl, 100),
    }
}

func TestSnapshot_DecodesCanonicalShape(t *testing.T) {
    var hits atomic.Int64
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/api/stocks/AAPL" { t.Errorf("path = %s", r.URL.Path) }
        hits.Add(1)
        w.Write([]byte(`{"symbol":"AAPL","name":"Apple Inc.","price":190.5,"changePercent":2.97,
            "sector":"Technology","revenueTTM":400000000000,"country":"US"}`))
    }))
    defer srv.Close()

    a := New(Config{BaseURL: srv.URL + "/"}, cachedClient(time.Minute))
    snap, err := a.Snapshot(context.Background(), "AAPL")
    if err != nil { t.Fatalf("unexpected error: %v", err) }
    if snap.Symbol != "AAPL" || snap.Price != 190.5 || snap.Sector != "Technology" {
        t.Fatalf("snapshot: %+v", snap)
    }
    if snap.RevenueTTM == nil || *snap.RevenueTTM != 400e9 {
        t.Fatalf("revenue: %v", snap.RevenueTTM)
    }
    if snap.Country == nil || *snap.Country != "US" { t.Fatalf("country: %v", snap.Country) }

    // second identical lookup is served from the payload cache
    if _, err := a.Snapshot(context.Background(), "AAPL"); err != nil { t.Fatal(err) }
    if got := hits.Load(); got != 1 {
        t.Fatalf("backend hit %d times, want 1 (cached)", got)
    }
}

func TestSnapshot_UnconfiguredWithoutBaseURL(t *testing.T) {
    a := New(Config{}, cachedClient(time.Minute))
    snap, err := a.Snapshot(context.Background(), "AAPL")
    if snap != nil || err != nil {
        t.Fatalf("want nil,nil, got %v, %v", snap, err)
    }
}

func TestSnapshot_EmptyBodyIsNoData(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte(`{}`))
    }))
    defer srv.Close()
    a := New(Config{BaseURL: srv.URL}, cachedClient(time.Minute))
    snap, err := a.Snapshot(context.Background(), "AAPL")
    if snap != nil || err != nil {
        t.Fatalf("want nil,nil for empty payload, got %v, %v", snap, err)
    }
}

func TestHistory_ForwardsPeriod(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/api/stocks/AAPL/history" { t.Errorf("path = %s", r.URL.Path) }
        if got := r.URL.Query().Get("period"); got != "6M" { t.Errorf("period = %q", got) }
        w.Write([]byte(`{"symbol":"AAPL","historicalData":[
            {"date":"2025-06-12","price":189.0,"close":189.0,"volume":100},
            {"date":"2025-06-13","price":190.5,"close":190.5,"volume":110}]}`))
    }))
    defer srv.Close()

    a := New(Config{BaseURL: srv.URL}, cachedClient(time.Minute))
    points, err := a.History(context.Background(), "AAPL", finance.Period6M)
    if err != nil { t.Fatalf("unexpected error: %v", err) }
    if len(points) != 2 || points[1].Date != "2025-06-13" || points[1].Price != 190.5 {
        t.Fatalf("points: %+v", points)
    }
}

func TestSnapshot_ServerErrorIsProviderError(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        http.Error(w, "upstream down", http.StatusBadGateway)
    }))
    defer srv.Close()
    a := New(Config{BaseURL: srv.URL}, cachedClient(time.Minute))
    if _, err := a.Snapshot(context.Background(), "AAPL"); err == nil {
        t.Fatal("want error on 502")
    }
}
