package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	FormatPretty  = "pretty"
	FormatConsole = "console"
)

// Logger is a zerolog logger tagged with the service name.
type Logger struct {
	zl      zerolog.Logger
	service string
}

// NewWithWriter builds a logger from cfg. A nil w writes to cfg.Output.
// An unknown level falls back to info.
func NewWithWriter(cfg *Config, service string, w io.Writer) *Logger {
	if w == nil {
		w = outputWriter(cfg.Output)
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var zc zerolog.Context
	if isConsole(cfg.Format) {
		zc = zerolog.New(consoleWriter(cfg, service, w)).With().Timestamp()
	} else {
		zc = zerolog.New(w).With().Str("service", service)
		if cfg.Timestamp {
			zc = zc.Timestamp()
		}
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	return &Logger{zl: zc.Logger().Level(level), service: service}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{zl: zerolog.Nop(), service: "nop"}
}

type requestIDKey struct{}

// ContextWithRequestID stores a request ID for later log enrichment.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithContext tags the logger with the request ID carried by ctx. Without
// one the receiver is returned unchanged.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return l.derive(l.zl.With().Str(FieldRequestID, id))
	}
	return l
}

// WithComponent tags the logger with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.derive(l.zl.With().Str(FieldComponent, name))
}

// DebugEnabled reports whether debug lines are written.
func (l *Logger) DebugEnabled() bool {
	return l.zl.GetLevel() <= zerolog.DebugLevel
}

func (l *Logger) derive(zc zerolog.Context) *Logger {
	return &Logger{zl: zc.Logger(), service: l.service}
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.write(zerolog.DebugLevel, msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.write(zerolog.InfoLevel, msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.write(zerolog.WarnLevel, msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.write(zerolog.ErrorLevel, msg, fields)
}

func (l *Logger) write(level zerolog.Level, msg string, fields []map[string]interface{}) {
	event := l.zl.WithLevel(level)
	if event == nil {
		return
	}
	for _, fm := range fields {
		for k, v := range fm {
			event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

var globalLogger *Logger

// Init replaces the global logger with one built from cfg.
func Init(cfg *Config) {
	cfg.ApplyDefaults()
	name := cfg.ServiceName
	if name == "" {
		name = "default"
	}
	globalLogger = NewWithWriter(cfg, name, nil)
}

// GetGlobalLogger returns the global logger, creating a console logger at
// info level on first use.
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		Init(&Config{})
	}
	return globalLogger
}

func Debug(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Debug(msg, fields...)
}

func Info(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Info(msg, fields...)
}

func Error(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Error(msg, fields...)
}

// WithComponent returns a component-tagged child of the global logger.
func WithComponent(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

func isConsole(format string) bool {
	f := strings.ToLower(format)
	return f == FormatConsole || f == FormatPretty
}

func outputWriter(output string) io.Writer {
	if strings.EqualFold(output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

// levelTags holds the colored and plain console tag per level.
var levelTags = map[string][2]string{
	"DEBUG": {"\033[36m[DBG]\033[0m", "[DBG]"},
	"INFO":  {"\033[32m[INF]\033[0m", "[INF]"},
	"WARN":  {"\033[33m[WRN]\033[0m", "[WRN]"},
	"ERROR": {"\033[31m[ERR]\033[0m", "[ERR]"},
}

// consoleWriter prints "[WHI][INF] message key:value" lines, the prefix
// being the first three letters of the service name.
func consoleWriter(cfg *Config, service string, w io.Writer) zerolog.ConsoleWriter {
	prefix := ""
	if len(service) >= 3 && service != "default" {
		prefix = "[" + strings.ToUpper(service[:3]) + "]"
		if !cfg.NoColor {
			prefix = "\033[34m" + prefix + "\033[0m"
		}
	}
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    cfg.NoColor,
		FormatLevel: func(i interface{}) string {
			lvl := strings.ToUpper(fmt.Sprint(i))
			tag := "[" + lvl + "]"
			if tags, ok := levelTags[lvl]; ok {
				tag = tags[1]
				if !cfg.NoColor {
					tag = tags[0]
				}
			}
			return prefix + tag
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprint(i) + ":"
		},
		FormatFieldValue: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprint(i)
		},
	}
}
