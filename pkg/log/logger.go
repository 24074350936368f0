package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	zl zerolog.Logger
}

// newZerologLogger creates a Logger writing structured JSON to w.
func newZerologLogger(w io.Writer) *zerologLogger {
	zl := zerolog.New(w).With().Timestamp().Logger()
	return &zerologLogger{zl: zl}
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	l.emit(l.zl.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	e := l.zl.Error()
	// An error passed as the first field carries its stack trace into the log.
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			e = e.Err(err)
			if st := extractStacktrace(err); st != "" {
				e = e.Str(StacktraceKey, st)
			}
			fields = fields[1:]
		}
	}
	l.emit(e, msg, fields)
}

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", fields[i])
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= l.zl.GetLevel() && l.zl.GetLevel() != zerolog.Disabled
}

// emit attaches key-value pairs to the event and sends it.
func (l *zerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", fields[i])
		}
		e = e.Interface(key, fields[i+1])
	}
	e.Msg(msg)
}

// extractStacktrace pulls cockroachdb/errors safe details out of an error chain.
func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// defaultProvider is the zerolog-backed LoggerProvider used by the package
// level functions. Output and level can be swapped at runtime; library code
// only ever goes through GetLogger / GetLoggerWithName.
type defaultProvider struct {
	mu     sync.RWMutex
	logger *zerologLogger
}

func (p *defaultProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.logger
}

func (p *defaultProvider) GetLoggerWithName(name string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.logger.With(ComponentKey, name)
}

func (p *defaultProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger = &zerologLogger{zl: p.logger.zl.Level(toZerologLevel(level))}
}

func (p *defaultProvider) setOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger = newZerologLogger(w)
}

var provider = &defaultProvider{
	// Warn by default: a library should stay quiet unless asked.
	logger: &zerologLogger{zl: zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)},
}

// GetLogger returns the default logger instance.
func GetLogger() Logger {
	return provider.GetLogger()
}

// GetLoggerWithName returns a logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return provider.GetLoggerWithName(name)
}

// SetLevel sets the minimum log level for the default provider.
func SetLevel(level Level) {
	provider.SetLevel(level)
}

// SetOutput redirects the default provider's output. Mainly useful in tests
// and applications embedding the library.
func SetOutput(w io.Writer) {
	provider.setOutput(w)
}
