package main

import (
    "context"
    "log/slog"
    "net/http"
    "strings"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/google/uuid"

    "marketdata/internal/aggregate"
    "marketdata/internal/finance"
)

const maxOverviewSymbols = 50

// StockService is what the handlers need from the aggregation layer.
type StockService interface {
    FetchSnapshot(ctx context.Context, symbol string) (*finance.CompanySnapshot, []aggregate.Attempt)
    FetchHistory(ctx context.Context, symbol string, period finance.Period) ([]finance.HistoricalPoint, []aggregate.Attempt)
    FetchSnapshotBatch(ctx context.Context, symbols []string, concurrency int) map[string]*finance.CompanySnapshot
}

type api struct {
    svc         StockService
    concurrency int
    log         *slog.Logger
}

func newRouter(a *api) *gin.Engine {
    gin.SetMode(gin.ReleaseMode)
    r := gin.New()
    r.Use(gin.Recovery(), requestID(), requestLogger(a.log))

    r.GET("/healthz", func(c *gin.Context) {
        c.JSON(http.StatusOK, gin.H{"status": "ok"})
    })
    stocks := r.Group("/api/stocks")
    stocks.GET("/:ticker", a.getSnapshot)
    stocks.GET("/:ticker/history", a.getHistory)
    r.GET("/api/market/overview", a.getOverview)
    return r
}

func (a *api) getSnapshot(c *gin.Context) {
    ticker := strings.TrimSpace(c.Param("ticker"))
    if ticker == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "missing ticker"})
        return
    }
    snap, attempts := a.svc.FetchSnapshot(c.Request.Context(), ticker)
    if snap == nil {
        c.JSON(http.StatusNotFound, gin.H{
            "error":    "no provider returned data for " + strings.ToUpper(ticker),
            "attempts": attemptSummaries(attempts),
        })
        return
    }
    c.JSON(http.StatusOK, snap)
}

func (a *api) getHistory(c *gin.Context) {
    ticker := strings.TrimSpace(c.Param("ticker"))
    if ticker == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "missing ticker"})
        return
    }
    period, err := finance.ParsePeriod(c.Query("period"))
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    points, attempts := a.svc.FetchHistory(c.Request.Context(), ticker, period)
    if len(points) == 0 {
        c.JSON(http.StatusNotFound, gin.H{
            "error":    "no provider returned history for " + strings.ToUpper(ticker),
            "attempts": attemptSummaries(attempts),
        })
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "symbol":         strings.ToUpper(ticker),
        "period":         string(period),
        "historicalData": points,
    })
}

func (a *api) getOverview(c *gin.Context) {
    raw := strings.TrimSpace(c.Query("symbols"))
    if raw == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "missing symbols query param"})
        return
    }
    var symbols []string
    for _, s := range strings.Split(raw, ",") {
        if s = strings.TrimSpace(s); s != "" {
            symbols = append(symbols, s)
        }
    }
    if len(symbols) == 0 {
        c.JSON(http.StatusBadRequest, gin.H{"error": "missing symbols query param"})
        return
    }
    if len(symbols) > maxOverviewSymbols {
        c.JSON(http.StatusBadRequest, gin.H{"error": "too many symbols (max 50)"})
        return
    }
    snaps := a.svc.FetchSnapshotBatch(c.Request.Context(), symbols, a.concurrency)
    c.JSON(http.StatusOK, gin.H{"stocks": snaps})
}

// attemptSummaries strips internals down to a client-safe shape.
func attemptSummaries(attempts []aggregate.Attempt) []gin.H {
    out := make([]gin.H, 0, len(attempts))
    for _, at := range attempts {
        h := gin.H{"provider": at.Provider}
        if at.Skipped { h["skipped"] = true }
        if at.Error != "" { h["error"] = at.Error }
        out = append(out, h)
    }
    return out
}

func requestID() gin.HandlerFunc {
    return func(c *gin.Context) {
        id := c.GetHeader("X-Request-ID")
        if id == "" { id = uuid.NewString() }
        c.Set("request_id", id)
        c.Writer.Header().Set("X-Request-ID", id)
        c.Next()
    }
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
    return func(c *gin.Context) {
        start := time.Now()
        c.Next()
        log.Info("request",
            "method", c.Request.Method,
            "path", c.Request.URL.Path,
            "status", c.Writer.Status(),
            "duration", time.Since(start),
            "request_id", c.GetString("request_id"),
        )
    }
}
