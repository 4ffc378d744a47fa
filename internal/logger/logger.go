package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/journeyman/internal/ports"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
	Component     string
	Fields        map[string]any
}

// Logger wraps zerolog and implements ports.Logger.
type Logger struct {
	base zerolog.Logger
}

// New creates a configured Logger instance based on Options.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	var output io.Writer = writer
	if opts.HumanReadable {
		console := zerolog.NewConsoleWriter()
		console.Out = writer
		console.TimeFormat = time.RFC3339
		output = console
	}

	builder := zerolog.New(output).Level(level).With().Timestamp()
	if opts.Component != "" {
		builder = builder.Str(ports.FieldComponent, opts.Component)
	}
	for key, value := range opts.Fields {
		builder = builder.Interface(key, value)
	}
	return &Logger{base: builder.Logger()}, nil
}

// Debug implements ports.Logger.
func (l *Logger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, zerolog.DebugLevel, msg, fields)
}

// Info implements ports.Logger.
func (l *Logger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, zerolog.InfoLevel, msg, fields)
}

// Warn implements ports.Logger.
func (l *Logger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, zerolog.WarnLevel, msg, fields)
}

// Error implements ports.Logger. Error values are rendered through zerolog's
// error marshaller.
func (l *Logger) Error(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, zerolog.ErrorLevel, msg, fields)
}

// With returns a child logger that adds fields to every entry.
func (l *Logger) With(fields ...interface{}) ports.Logger {
	if l == nil {
		return NewNoOp()
	}
	child := l.base.With()
	eachField(fields, func(key string, value interface{}) {
		child = child.Interface(key, value)
	})
	return &Logger{base: child.Logger()}
}

func (l *Logger) log(ctx context.Context, level zerolog.Level, msg string, fields []interface{}) {
	if l == nil {
		return
	}
	l.write(ctx, l.base.WithLevel(level), msg, fields)
}

// eachField walks key/value pairs, skipping a trailing odd value and any
// non-string or empty key.
func eachField(fields []interface{}, fn func(key string, value interface{})) {
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok && key != "" {
			fn(key, fields[i+1])
		}
	}
}

func (l *Logger) write(ctx context.Context, event *zerolog.Event, msg string, fields []interface{}) {
	if event == nil {
		return
	}
	eachField(fields, func(key string, value interface{}) {
		switch v := value.(type) {
		case error:
			event = event.AnErr(key, v)
		case time.Duration:
			event = event.Dur(key, v)
		default:
			event = event.Interface(key, v)
		}
	})
	if id := ports.CorrelationIDFrom(ctx); id != "" {
		event = event.Str(ports.FieldCorrelationID, id)
	}
	event.Msg(msg)
}

var _ ports.Logger = (*Logger)(nil)
