package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
)

// TestLogger is a Logger implementation that captures output into a buffer
// for assertions in tests.
//
// Example:
//
//	logger, buffer := log.NewTestLogger(log.LevelDebug)
//	logger.Info("Training completed", log.OperationKey, "fit")
//	if !logger.ContainsMessage("Training completed") {
//	    t.Error("expected completion message")
//	}
//	_ = buffer
type TestLogger struct {
	inner  Logger
	buffer *bytes.Buffer
	level  Level
}

// NewTestLogger creates a test logger capturing JSON log lines at or above level.
func NewTestLogger(level Level) (*TestLogger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	inner := newZerologLogger(buffer)
	inner.zl = inner.zl.Level(toZerologLevel(level))
	return &TestLogger{inner: inner, buffer: buffer, level: level}, buffer
}

func (t *TestLogger) Debug(msg string, fields ...any) { t.inner.Debug(msg, fields...) }
func (t *TestLogger) Info(msg string, fields ...any)  { t.inner.Info(msg, fields...) }
func (t *TestLogger) Warn(msg string, fields ...any)  { t.inner.Warn(msg, fields...) }
func (t *TestLogger) Error(msg string, fields ...any) { t.inner.Error(msg, fields...) }

func (t *TestLogger) With(fields ...any) Logger {
	return &TestLogger{inner: t.inner.With(fields...), buffer: t.buffer, level: t.level}
}

func (t *TestLogger) Enabled(ctx context.Context, level Level) bool {
	return t.inner.Enabled(ctx, level)
}

// GetLogEntries parses the captured output into one map per log line.
func (t *TestLogger) GetLogEntries() ([]map[string]any, error) {
	var entries []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(t.buffer.Bytes()))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

// ContainsMessage checks if the captured logs contain a message with the specified content.
func (t *TestLogger) ContainsMessage(message string) bool {
	return strings.Contains(t.buffer.String(), message)
}

// ContainsField checks if the captured logs contain an entry with the specified field and value.
func (t *TestLogger) ContainsField(key string, value any) bool {
	entries, err := t.GetLogEntries()
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if fieldValue, exists := entry[key]; exists && fieldValue == value {
			return true
		}
	}
	return false
}

// Clear clears all captured log content.
func (t *TestLogger) Clear() {
	t.buffer.Reset()
}

// TestLoggerProvider implements LoggerProvider for testing scenarios.
type TestLoggerProvider struct {
	logger *TestLogger
}

// NewTestLoggerProvider creates a new test logger provider.
func NewTestLoggerProvider(level Level) (*TestLoggerProvider, *bytes.Buffer) {
	logger, buffer := NewTestLogger(level)
	return &TestLoggerProvider{logger: logger}, buffer
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *TestLoggerProvider) GetLogger() Logger {
	return p.logger
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *TestLoggerProvider) GetLoggerWithName(name string) Logger {
	return p.logger.With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *TestLoggerProvider) SetLevel(level Level) {
	p.logger.level = level
}
