package polygon

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "marketdata/internal/finance"
    "marketdata/internal/httpx"
)

func TestHistory_MapsAggBars(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if !strings.HasPrefix(r.URL.Path, "/v2/aggs/ticker/AAPL/range/1/day/") {
            t.Errorf("path = %s", r.URL.Path)
        }
        if r.URL.Query().Get("apiKey") != "test-key" { t.Error("missing apiKey") }
        if r.URL.Query().Get("adjusted") != "true" { t.Error("missing adjusted=true") }
        // 2025-06-12 and 2025-06-13 in epoch millis
        w.Write([]byte(`{"status":"OK","results":[
            {"t":1749686400000,"c":189.0,"o":188.0,"h":189.5,"l":187.5,"v":48000000},
            {"t":1749772800000,"c":190.5,"o":189.2,"h":191.0,"l":188.9,"v":51000000}]}`))
    }))
    defer srv.Close()

    a := New(Config{APIKey: "test-key", BaseURL: srv.URL}, httpx.New(5*time.Second))
    points, err := a.History(context.Background(), "AAPL", finance.Period1M)
    if err != nil { t.Fatalf("unexpected error: %v", err) }
    if len(points) != 2 { t.Fatalf("got %d points", len(points)) }
    if points[0].Date != "2025-06-12" || points[1].Date != "2025-06-13" {
        t.Fatalf("dates: %+v", points)
    }
    if points[1].Price != 190.5 || points[1].Volume != 51000000 {
        t.Fatalf("second point: %+v", points[1])
    }
    if points[0].Low == nil || *points[0].Low != 187.5 { t.Fatalf("low: %+v", points[0]) }
}

func TestHistory_Unconfigured(t *testing.T) {
    a := New(Config{}, httpx.New(time.Second))
    points, err := a.History(context.Background(), "AAPL", finance.Period1Y)
    if points != nil || err != nil {
        t.Fatalf("want nil,nil, got %v, %v", points, err)
    }
}

func TestHistory_VendorError(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte(`{"status":"ERROR","error":"unknown ticker"}`))
    }))
    defer srv.Close()
    a := New(Config{APIKey: "test-key", BaseURL: srv.URL}, httpx.New(time.Second))
    if _, err := a.History(context.Background(), "NOPE", finance.Period1M); err == nil {
        t.Fatal("want error on vendor error payload")
    }
}

func TestHistory_NoResults(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte(`{"status":"OK","results":[]}`))
    }))
    defer srv.Close()
    a := New(Config{APIKey: "test-key", BaseURL: srv.URL}, httpx.New(time.Second))
    points, err := a.History(context.Background(), "AAPL", finance.Period1M)
    if err != nil || points != nil {
        t.Fatalf("want nil,nil, got %v, %v", points, err)
    }
}
