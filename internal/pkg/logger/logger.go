package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel is a configured level name
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

var levels = map[LogLevel]zerolog.Level{
	DebugLevel: zerolog.DebugLevel,
	InfoLevel:  zerolog.InfoLevel,
	WarnLevel:  zerolog.WarnLevel,
	ErrorLevel: zerolog.ErrorLevel,
}

// Config controls the process-wide logger
type Config struct {
	Level   LogLevel
	Pretty  bool      // console output instead of JSON lines
	Output  io.Writer // defaults to os.Stdout
	Service string    // added to every entry when set
}

var current zerolog.Logger

// ParseLevel maps a level name from config onto a LogLevel. Unknown names
// fall back to info.
func ParseLevel(s string) LogLevel {
	level := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := levels[level]; ok {
		return level
	}
	return InfoLevel
}

// Configure replaces the process-wide logger and returns it. The zerolog
// global logger is pointed at the same instance.
func Configure(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(levels[ParseLevel(string(cfg.Level))])

	ctx := zerolog.New(out).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	current = ctx.Logger()
	log.Logger = current
	return current
}

// Get returns the process-wide logger
func Get() zerolog.Logger { return current }

func Debug() *zerolog.Event { return current.Debug() }
func Info() *zerolog.Event  { return current.Info() }
func Warn() *zerolog.Event  { return current.Warn() }
func Error() *zerolog.Event { return current.Error() }

// WithField returns a child of the process-wide logger carrying key
func WithField(key string, value interface{}) zerolog.Logger {
	return current.With().Interface(key, value).Logger()
}

func init() {
	Configure(Config{Level: InfoLevel, Pretty: true})
}
