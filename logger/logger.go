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
	FormatConsole = "console"
	FormatPretty  = "pretty"
	FormatJSON    = "json"
)

// Logger is a zerolog logger plus the service name it reports for.
type Logger struct {
	zl      zerolog.Logger
	service string
}

// New writes to stdout, or stderr when cfg.Output says so.
func New(cfg *Config, service string) *Logger {
	var w io.Writer = os.Stdout
	if strings.EqualFold(cfg.Output, "stderr") {
		w = os.Stderr
	}
	return NewWithWriter(cfg, service, w)
}

// NewWithWriter renders console and pretty formats for humans and
// anything else as one JSON object per line. An unknown level means info.
func NewWithWriter(cfg *Config, service string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var ctx zerolog.Context
	switch strings.ToLower(cfg.Format) {
	case FormatConsole, FormatPretty:
		ctx = zerolog.New(newConsoleWriter(w, service, cfg.NoColor)).With()
	default:
		ctx = zerolog.New(w).With().Str("service", service)
	}
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return &Logger{zl: ctx.Logger().Level(level), service: service}
}

// Init builds the process logger from cfg and makes it zerolog's default
// context logger too.
func Init(cfg *Config, service string) *Logger {
	cfg.ApplyDefaults()
	l := New(cfg, service)
	zerolog.DefaultContextLogger = &l.zl
	return l
}

// Nop discards everything.
func Nop() *Logger { return &Logger{zl: zerolog.Nop()} }

type eventIDKey struct{}

// ContextWithEventID tags ctx with the id of the chat event or HTTP
// request being handled.
func ContextWithEventID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, eventIDKey{}, id)
}

func EventID(ctx context.Context) string {
	id, _ := ctx.Value(eventIDKey{}).(string)
	return id
}

// WithContext adds the event id from ctx, if there is one.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if id := EventID(ctx); id != "" {
		return l.with(func(c zerolog.Context) zerolog.Context { return c.Str(FieldEventID, id) })
	}
	return l
}

func (l *Logger) WithComponent(name string) *Logger {
	return l.with(func(c zerolog.Context) zerolog.Context { return c.Str(FieldComponent, name) })
}

func (l *Logger) with(add func(zerolog.Context) zerolog.Context) *Logger {
	return &Logger{zl: add(l.zl.With()).Logger(), service: l.service}
}

func (l *Logger) Debug(msg string, fields ...map[string]any) { write(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...map[string]any)  { write(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...map[string]any)  { write(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...map[string]any) { write(l.zl.Error(), msg, fields) }

func write(ev *zerolog.Event, msg string, fields []map[string]any) {
	// nil when the level is disabled
	if ev == nil {
		return
	}
	for _, m := range fields {
		ev.Fields(m)
	}
	ev.Msg(msg)
}

// Console lines look like "12:04:05 [QUO][INF] dispatch finished chat_id:42".
var levelStyle = map[string]struct{ tag, color string }{
	"trace": {"TRC", ""},
	"debug": {"DBG", "36"},
	"info":  {"INF", "32"},
	"warn":  {"WRN", "33"},
	"error": {"ERR", "31"},
	"fatal": {"FTL", "35"},
}

func newConsoleWriter(w io.Writer, service string, noColor bool) zerolog.ConsoleWriter {
	paint := func(color, s string) string {
		if noColor || color == "" {
			return s
		}
		return "\033[" + color + "m" + s + "\033[0m"
	}
	prefix := ""
	if len(service) >= 3 {
		prefix = paint("34", "["+strings.ToUpper(service[:3])+"]")
	}
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i any) string {
			name := strings.ToLower(fmt.Sprint(i))
			style, ok := levelStyle[name]
			if !ok {
				style.tag = strings.ToUpper(name)
			}
			return prefix + paint(style.color, "["+style.tag+"]")
		},
		FormatFieldName: func(i any) string { return fmt.Sprint(i) + ":" },
		FormatFieldValue: func(i any) string {
			if i == nil {
				return ""
			}
			return fmt.Sprint(i)
		},
	}
}
