package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// FormatPretty is an alias of the console format.
const FormatPretty = "pretty"

// Logger is a zerolog logger bound to a service name.
type Logger struct {
	logger  zerolog.Logger
	service string
}

// Init builds the global logger from cfg. The level is set on each logger
// and never on zerolog's process-wide level, so other loggers keep theirs.
func Init(cfg *Config) {
	cfg.ApplyDefaults()
	name := cfg.ServiceName
	if name == "" {
		name = "default"
	}
	SetGlobalLogger(New(cfg, name))

	if isConsole(cfg.Format) {
		zl := consoleLogger(cfg, outputWriter(cfg.Output), name)
		if level, err := zerolog.ParseLevel(cfg.Level); err == nil {
			zl = zl.Level(level)
		}
		log.Logger = zl
	}
}

// New creates a logger writing to cfg.Output.
func New(cfg *Config, serviceName string) *Logger {
	return NewWithWriter(cfg, serviceName, outputWriter(cfg.Output))
}

// NewWithWriter creates a logger writing to w. An empty or unknown level
// means info.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	switch {
	case isConsole(cfg.Format):
		zl = consoleLogger(cfg, w, serviceName)
	case cfg.Timestamp:
		zl = zerolog.New(w).With().Timestamp().Logger()
	default:
		zl = zerolog.New(w)
	}
	zl = zl.Level(level)
	if cfg.Caller {
		zl = zl.With().Caller().Logger()
	}
	return &Logger{logger: zl, service: serviceName}
}

// NewDefault creates an info-level console logger on stdout.
func NewDefault(serviceName string) *Logger {
	return New(&Config{Level: "info", Format: "console", Output: "stdout", Timestamp: true}, serviceName)
}

func (l *Logger) with(zl zerolog.Logger) *Logger {
	return &Logger{logger: zl, service: l.service}
}

// WithContext adds the trace and span IDs of the active span in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.with(l.logger.With().
		Str(FieldTraceID, sc.TraceID().String()).
		Str(FieldSpanID, sc.SpanID().String()).
		Logger())
}

// WithComponent tags every entry with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.with(l.logger.With().Str(FieldComponent, name).Logger())
}

// WithError attaches err to every entry.
func (l *Logger) WithError(err error) *Logger {
	return l.with(l.logger.With().Err(err).Logger())
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Error(), msg, fields)
}

func emit(event *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, fm := range fields {
		for k, v := range fm {
			event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// SetGlobalLogger replaces the global logger.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// GetGlobalLogger returns the global logger, creating a default console
// logger on first use.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewDefault("default")
	}
	return globalLogger
}

func Debug(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Debug(msg, fields...) }
func Info(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Info(msg, fields...) }
func Warn(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Warn(msg, fields...) }

// WithComponent returns a component logger derived from the global logger.
func WithComponent(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

func isConsole(format string) bool {
	f := strings.ToLower(format)
	return f == "console" || f == FormatPretty
}

func outputWriter(output string) *os.File {
	if strings.EqualFold(output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

// Console level tags and their ANSI colors.
var levelTags = map[string]struct{ tag, color string }{
	"debug": {"[DBG]", "36"},
	"info":  {"[INF]", "32"},
	"warn":  {"[WRN]", "33"},
	"error": {"[ERR]", "31"},
	"fatal": {"[FTL]", "35"},
}

func paint(s, color string, noColor bool) string {
	if noColor || color == "" {
		return s
	}
	return "\033[" + color + "m" + s + "\033[0m"
}

// consoleLogger renders "HH:MM:SS [SVC][INF] message key:value", where SVC
// is the first three letters of the service name.
func consoleLogger(cfg *Config, out io.Writer, serviceName string) zerolog.Logger {
	prefix := ""
	if len(serviceName) >= 3 && serviceName != "default" {
		prefix = paint("["+strings.ToUpper(serviceName[:3])+"]", "34", cfg.NoColor)
	}
	text := func(i interface{}) string {
		if i == nil {
			return ""
		}
		return fmt.Sprint(i)
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
		NoColor:    cfg.NoColor,
		FormatLevel: func(i interface{}) string {
			lvl := text(i)
			t, ok := levelTags[lvl]
			if !ok {
				t.tag = "[" + strings.ToUpper(lvl) + "]"
			}
			return prefix + paint(t.tag, t.color, cfg.NoColor)
		},
		FormatMessage:    text,
		FormatFieldName:  func(i interface{}) string { return fmt.Sprintf("%s:", i) },
		FormatFieldValue: text,
	}).With().Timestamp().Logger()
}
