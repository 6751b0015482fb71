package logger

import (
	"go-portfolio-app/internal/config"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// appName is stamped on every entry.
const appName = "portfolio"

// Logger is the logging interface used across the application.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(err error, msg string)
	Fatal(err error, msg string)
	With(fields map[string]interface{}) Logger
}

type zerologLogger struct {
	zl zerolog.Logger
}

// New builds a Logger writing to w (stdout when nil). Format "console"
// gives human readable lines; anything else is JSON. An unknown level
// falls back to info and says so.
func New(cfg config.LogConfig, w io.Writer) Logger {
	if w == nil {
		w = os.Stdout
	}
	out := w
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: w, NoColor: w != os.Stdout, TimeFormat: "15:04:05"}
	}

	level := zerolog.InfoLevel
	badLevel := false
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			badLevel = true
		} else {
			level = parsed
		}
	}

	zl := zerolog.New(out).Level(level).With().Timestamp().Str("app", appName).Logger()
	if badLevel {
		zl.Warn().Str("level", cfg.Level).Msg("unknown log level, using info")
	}
	return &zerologLogger{zl: zl}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &zerologLogger{zl: zerolog.Nop()}
}

func (l *zerologLogger) Debug(msg string) { l.zl.Debug().Msg(msg) }
func (l *zerologLogger) Info(msg string)  { l.zl.Info().Msg(msg) }
func (l *zerologLogger) Warn(msg string)  { l.zl.Warn().Msg(msg) }

func (l *zerologLogger) Error(err error, msg string) { l.zl.Error().Err(err).Msg(msg) }
func (l *zerologLogger) Fatal(err error, msg string) { l.zl.Fatal().Err(err).Msg(msg) }

// With returns a child logger carrying fields on every entry.
func (l *zerologLogger) With(fields map[string]interface{}) Logger {
	return &zerologLogger{zl: l.zl.With().Fields(fields).Logger()}
}
