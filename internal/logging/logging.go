// Package logging builds the service's slog loggers.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
)

type Format int

const (
	FormatConsole Format = iota + 1
	FormatJSON
)

func ParseLevel(value string) (slog.Level, error) {
	levels := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	level, ok := levels[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return slog.LevelInfo, goerr.New("invalid log level",
			goerr.V("level", value),
			goerr.V("valid_levels", []string{"debug", "info", "warn", "error"}),
		)
	}
	return level, nil
}

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "console", "":
		return FormatConsole, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatConsole, goerr.New("invalid log format",
			goerr.V("format", value),
			goerr.V("valid_formats", []string{"console", "json"}),
		)
	}
}

// New returns a logger writing to w. Credentials carried in logged values
// are masked in both formats.
func New(w io.Writer, level slog.Level, format Format) *slog.Logger {
	filter := newMasqFilter()

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: filter,
		})
	} else {
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithReplaceAttr(filter),
			clog.WithColorMap(colorMap()),
		)
	}
	return slog.New(handler)
}

func newMasqFilter() func([]string, slog.Attr) slog.Attr {
	return masq.New(
		masq.WithTag("secret"),
		masq.WithFieldPrefix("secret_"),
		masq.WithFieldName("Password"),
		masq.WithFieldName("PasswordHash"),
		masq.WithFieldName("AccessToken"),
		masq.WithFieldName("RefreshToken"),
		masq.WithFieldName("TokenHash"),
		masq.WithFieldName("Authorization"),
		masq.WithFieldName("JWTSecret"),
		masq.WithFieldName("RedisPassword"),
		masq.WithFieldName("ServiceAuthToken"),
		masq.WithFieldName("DatabaseURL"),
	)
}

func colorMap() *clog.ColorMap {
	return &clog.ColorMap{
		Level: map[slog.Level]*color.Color{
			slog.LevelDebug: color.New(color.FgGreen, color.Bold),
			slog.LevelInfo:  color.New(color.FgCyan, color.Bold),
			slog.LevelWarn:  color.New(color.FgYellow, color.Bold),
			slog.LevelError: color.New(color.FgRed, color.Bold),
		},
		LevelDefault: color.New(color.FgBlue, color.Bold),
		Time:         color.New(color.FgWhite),
		Message:      color.New(color.FgHiWhite),
		AttrKey:      color.New(color.FgHiCyan),
		AttrValue:    color.New(color.FgHiWhite),
	}
}

func Quiet() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}
