package logging

import (
    "log/slog"
    "os"
    "strings"
)

// New builds the process logger. Unknown levels fall back to info.
func New(level string) *slog.Logger {
    handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
        Level: ParseLevel(level),
    })
    return slog.New(handler)
}

func ParseLevel(s string) slog.Level {
    switch strings.ToLower(s) {
    case "debug":
        return slog.LevelDebug
    case "warn", "warning":
        return slog.LevelWarn
    case "error":
        return slog.LevelError
    default:
        return slog.LevelInfo
    }
}
