// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package logging provides structured logging for AleutianGraph components.
//
// The package is a construction layer over the standard library slog
// package: New returns a plain *slog.Logger wired for the house
// conventions rather than a wrapper type, so libraries accept
// *slog.Logger and stay decoupled from this package.
//
//   - Default: stderr output for CLI compatibility (follows Unix conventions)
//   - Every record carries a "service" attribute, making it easy to
//     filter logs by component in aggregated systems
//   - Optional: fan-out to a LogExporter for aggregation or test capture
//
// # Basic Usage
//
// For simple usage with stderr output:
//
//	logger := logging.New(logging.Config{Service: "schemamatch"})
//	logger.Info("schema published", "entities", 42)
//	logger.Error("match failed", "error", err)
//
// Libraries that must not log unless told to take NewNop:
//
//	logger := logging.NewNop()
//
// # Export
//
// A LogExporter receives every surviving record as a LogEntry.
// BufferedExporter collects entries for test assertions, WriterExporter
// redirects them to an io.Writer, and enterprise deployments implement
// the interface to forward logs to aggregation systems (GCS, Loki,
// Datadog, etc.):
//
//	exporter := logging.NewBufferedExporter()
//	logger := logging.New(logging.Config{Quiet: true, Exporter: exporter})
//
//	logger.Info("match completed", "score", 0.857)
//
//	entries := exporter.Entries()
//
// The logger never closes an exporter; whoever constructed it calls
// Flush and Close during shutdown.
//
// # Log Levels
//
// Four levels are supported, matching slog conventions:
//
//   - Debug: Development troubleshooting, verbose output
//   - Info: Normal operations (request start/end, state changes)
//   - Warn: Recoverable issues (retry attempts, degraded mode)
//   - Error: Operation failures (but system continues)
//
// # Thread Safety
//
// Loggers returned by New are safe for concurrent use. Handler state is
// immutable after construction, and exporters serialize access
// internally.
//
// # Security Considerations
//
// This package does NOT automatically redact sensitive data.
// Callers must ensure PII, tokens, and secrets are not logged:
//
//	// BAD: logs sensitive data
//	logger.Info("auth", "token", authToken)
//
//	// GOOD: log metadata only
//	logger.Info("auth", "token_present", authToken != "")
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// Log Levels
// =============================================================================

// Level represents log severity levels.
//
// Levels follow the slog convention and are ordered by severity:
// Debug < Info < Warn < Error
//
// Setting a minimum level filters out all logs below that level.
// For example, LevelWarn filters out Debug and Info messages.
type Level int

const (
	// LevelDebug is for development troubleshooting.
	// Example: "entering function", "loop iteration 5"
	LevelDebug Level = iota

	// LevelInfo is for normal operational messages.
	// Example: "schema published", "match completed"
	LevelInfo

	// LevelWarn is for potentially problematic situations.
	// Example: "cache read failed, recomputing", "using fallback value"
	LevelWarn

	// LevelError is for error conditions.
	// Example: "match failed", "connection lost", "invalid input"
	LevelError
)

// String returns the human-readable name of the level.
//
// Returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// toSlogLevel converts our Level to slog.Level.
//
// Unknown values default to Info.
func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fromSlogLevel converts a slog.Level back to our Level.
//
// slog levels between the named values (e.g. Info+2) map to the
// nearest named level below Error.
func fromSlogLevel(l slog.Level) Level {
	switch {
	case l < slog.LevelInfo:
		return LevelDebug
	case l < slog.LevelWarn:
		return LevelInfo
	case l < slog.LevelError:
		return LevelWarn
	default:
		return LevelError
	}
}

// =============================================================================
// Configuration
// =============================================================================

// Config configures logger construction.
//
// All fields have sensible defaults. A zero-value Config creates a
// logger that writes Info+ messages to stderr in text format, stamped
// with the default service name.
//
// Example configurations:
//
// Development:
//
//	Config{
//	    Level: LevelDebug,
//	    JSON:  false,  // Human-readable
//	}
//
// Production:
//
//	Config{
//	    Level:   LevelInfo,
//	    Service: "schemamatch",
//	    JSON:    true,
//	}
//
// Test capture:
//
//	Config{
//	    Quiet:    true,
//	    Exporter: logging.NewBufferedExporter(),
//	}
type Config struct {
	// Level sets the minimum log level.
	//
	// Messages below this level are discarded.
	// Default: LevelInfo
	Level Level

	// Service identifies the component generating logs.
	//
	// The value is attached to every record as the "service" attribute
	// and stamped on every exported LogEntry.
	//
	// Default: "schemamatch"
	Service string

	// JSON enables JSON output format.
	//
	// When true, records are formatted as JSON objects
	// (machine-parseable). When false, records are formatted as
	// human-readable text.
	//
	// Default: false (text format)
	JSON bool

	// Quiet disables writer output.
	//
	// When true, records are only sent to the Exporter (if configured).
	// With no Exporter either, the logger discards everything.
	//
	// Default: false (writer output enabled)
	Quiet bool

	// Output is the destination for formatted records.
	//
	// Default: os.Stderr
	Output io.Writer

	// Exporter is an optional extension for log export.
	//
	// When set, records at or above Level are also converted to
	// LogEntry values and handed to the exporter. Export failures are
	// silently ignored so they cannot disrupt normal logging.
	//
	// This is an extension point for AleutianEnterprise.
	// Default: nil (no export)
	Exporter LogExporter
}

// defaultService is stamped on records when Config.Service is empty.
const defaultService = "schemamatch"

// exportTimeout bounds a single Export call.
const exportTimeout = time.Second

// =============================================================================
// Construction
// =============================================================================

// New builds a *slog.Logger from the configuration.
//
// The logger writes formatted records to Config.Output (stderr by
// default) unless Quiet is set, and fans records out to the Exporter
// when one is configured. Every record carries the "service" attribute.
//
// The returned logger holds no resources of its own: there is nothing
// to close. If the configuration includes an Exporter, its owner is
// responsible for Flush and Close at shutdown.
//
// Parameters:
//   - cfg: Logger configuration (see Config for options)
//
// Returns:
//   - *slog.Logger: Configured logger ready for use
//
// Example:
//
//	logger := logging.New(logging.Config{
//	    Level:   logging.LevelInfo,
//	    Service: "schemamatch",
//	    JSON:    true,
//	})
func New(cfg Config) *slog.Logger {
	service := cfg.Service
	if service == "" {
		service = defaultService
	}

	opts := &slog.HandlerOptions{
		Level: cfg.Level.toSlogLevel(),
	}

	var handlers []slog.Handler

	if !cfg.Quiet {
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		var writerHandler slog.Handler
		if cfg.JSON {
			writerHandler = slog.NewJSONHandler(out, opts)
		} else {
			writerHandler = slog.NewTextHandler(out, opts)
		}
		writerHandler = writerHandler.WithAttrs([]slog.Attr{
			slog.String("service", service),
		})
		handlers = append(handlers, writerHandler)
	}

	if cfg.Exporter != nil {
		handlers = append(handlers, &exportHandler{
			exporter: cfg.Exporter,
			min:      cfg.Level.toSlogLevel(),
			service:  service,
		})
	}

	var handler slog.Handler
	switch len(handlers) {
	case 0:
		handler = slog.DiscardHandler
	case 1:
		handler = handlers[0]
	default:
		handler = &multiHandler{handlers: handlers}
	}

	return slog.New(handler)
}

// Default returns a logger with default settings: Info level, text
// format on stderr, service "schemamatch".
func Default() *slog.Logger {
	return New(Config{})
}

// NewNop returns a logger that discards every record.
//
// This is the logger libraries fall back to when the caller supplies
// none: logging stays an opt-in concern and silent components produce
// zero output.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// =============================================================================
// Enterprise Extension Interface
// =============================================================================

// LogExporter defines the interface for log export.
//
// Implementations can upload logs to cloud storage (GCS, S3), send to
// log aggregation systems (Loki, Datadog, Splunk), or forward to
// OpenTelemetry collectors.
//
// # Implementation Requirements
//
//  1. Export should be fast. It is called inline from the logging
//     path with a one-second timeout; buffer entries internally and
//     flush in batches for efficiency.
//
//  2. Handle backpressure gracefully. If the buffer is full, consider
//     dropping oldest entries rather than blocking.
//
//  3. Flush should send all buffered entries before returning. Callers
//     invoke it during graceful shutdown.
//
//  4. Close should release all resources (connections, files). It is
//     called after Flush during shutdown. The logger itself never
//     calls Flush or Close; the exporter's owner does.
//
// This is an extension point for AleutianEnterprise.
// The open source version ships NopExporter, BufferedExporter, and
// WriterExporter.
type LogExporter interface {
	// Export sends a log entry to the external system.
	//
	// Parameters:
	//   - ctx: Context for cancellation (with 1-second timeout)
	//   - entry: The log entry to export
	//
	// Returns:
	//   - error: Non-nil if export failed (dropped, never propagated)
	Export(ctx context.Context, entry LogEntry) error

	// Flush ensures all buffered entries are sent.
	//
	// It should block until all pending entries are uploaded.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//
	// Returns:
	//   - error: Non-nil if flush failed
	Flush(ctx context.Context) error

	// Close releases resources held by the exporter.
	//
	// Returns:
	//   - error: Non-nil if cleanup failed
	Close() error
}

// LogEntry represents a structured log entry for export.
//
// This struct is passed to LogExporter implementations. It contains all
// information needed to reconstruct the log in the destination system.
type LogEntry struct {
	// Timestamp when the log was generated (local time)
	Timestamp time.Time

	// Level of the log (Debug, Info, Warn, Error)
	Level Level

	// Message is the primary log message
	Message string

	// Service identifies the component (from Config.Service)
	Service string

	// Attrs contains all key-value attributes, including attributes
	// bound with Logger.With. Group names prefix their attribute keys
	// ("group.key").
	Attrs map[string]any
}

// =============================================================================
// Export Handler (Internal)
// =============================================================================

// exportHandler is the slog.Handler that bridges records to a
// LogExporter.
//
// Attributes bound via WithAttrs accumulate in base so child loggers
// created with With() reach the exporter intact. Group names collected
// via WithGroup prefix attribute keys, keeping the flat LogEntry.Attrs
// map unambiguous.
type exportHandler struct {
	exporter LogExporter
	min      slog.Level
	service  string
	base     map[string]any
	groups   []string
}

// Enabled reports whether the level passes the configured minimum.
func (h *exportHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.min
}

// Handle converts the record to a LogEntry and hands it to the
// exporter. Export errors are dropped so a failing exporter cannot
// disrupt the writer path.
func (h *exportHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.base)+r.NumAttrs())
	for k, v := range h.base {
		attrs[k] = v
	}
	prefix := h.prefix()
	r.Attrs(func(a slog.Attr) bool {
		attrs[prefix+a.Key] = a.Value.Resolve().Any()
		return true
	})

	entry := LogEntry{
		Timestamp: r.Time,
		Level:     fromSlogLevel(r.Level),
		Message:   r.Message,
		Service:   h.service,
		Attrs:     attrs,
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()
	_ = h.exporter.Export(ctx, entry)
	return nil
}

// WithAttrs returns a handler with the attributes folded into base,
// prefixed with any open groups.
func (h *exportHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	prefix := next.prefix()
	for _, a := range attrs {
		next.base[prefix+a.Key] = a.Value.Resolve().Any()
	}
	return next
}

// WithGroup returns a handler that prefixes subsequent attribute keys
// with the group name.
func (h *exportHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}

func (h *exportHandler) clone() *exportHandler {
	base := make(map[string]any, len(h.base))
	for k, v := range h.base {
		base[k] = v
	}
	groups := make([]string, len(h.groups))
	copy(groups, h.groups)
	return &exportHandler{
		exporter: h.exporter,
		min:      h.min,
		service:  h.service,
		base:     base,
		groups:   groups,
	}
}

func (h *exportHandler) prefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

// =============================================================================
// Multi-Handler (Internal)
// =============================================================================

// multiHandler fans out log records to multiple slog handlers.
//
// This enables simultaneous output to a writer and an exporter with
// independent level gates.
type multiHandler struct {
	handlers []slog.Handler
}

// Enabled returns true if any handler is enabled for the level.
func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle sends the record to all enabled handlers.
func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WithAttrs returns a new handler with additional attributes.
func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

// WithGroup returns a new handler with a group name.
func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// =============================================================================
// Built-in Exporters
// =============================================================================

// NopExporter is a no-op exporter that discards all entries.
//
// Useful for testing or when export is disabled.
type NopExporter struct{}

// Export discards the entry (no-op).
func (e *NopExporter) Export(ctx context.Context, entry LogEntry) error { return nil }

// Flush is a no-op.
func (e *NopExporter) Flush(ctx context.Context) error { return nil }

// Close is a no-op.
func (e *NopExporter) Close() error { return nil }

// Ensure NopExporter implements LogExporter
var _ LogExporter = (*NopExporter)(nil)

// BufferedExporter collects log entries in memory.
//
// Useful for testing to verify log output:
//
//	exporter := logging.NewBufferedExporter()
//	logger := logging.New(logging.Config{Quiet: true, Exporter: exporter})
//
//	logger.Info("test message", "key", "value")
//
//	entries := exporter.Entries()
type BufferedExporter struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewBufferedExporter creates a new BufferedExporter.
func NewBufferedExporter() *BufferedExporter {
	return &BufferedExporter{
		entries: make([]LogEntry, 0, 100),
	}
}

// Export adds the entry to the buffer.
func (e *BufferedExporter) Export(ctx context.Context, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
	return nil
}

// Flush is a no-op (entries are already in memory).
func (e *BufferedExporter) Flush(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (e *BufferedExporter) Close() error {
	return nil
}

// Entries returns a copy of all collected entries.
//
// The returned slice is a copy; modifications don't affect the
// exporter's internal buffer.
func (e *BufferedExporter) Entries() []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	result := make([]LogEntry, len(e.entries))
	copy(result, e.entries)
	return result
}

// WriterExporter writes log entries to an io.Writer.
//
// Useful for testing or directing logs to a custom destination:
//
//	var buf bytes.Buffer
//	exporter := logging.NewWriterExporter(&buf)
//	logger := logging.New(logging.Config{Quiet: true, Exporter: exporter})
//
//	logger.Info("hello")
//	fmt.Println(buf.String())  // Contains the log entry
type WriterExporter struct {
	w  io.Writer
	mu sync.Mutex
}

// NewWriterExporter creates a new WriterExporter.
func NewWriterExporter(w io.Writer) *WriterExporter {
	return &WriterExporter{w: w}
}

// Export writes the entry to the writer.
func (e *WriterExporter) Export(ctx context.Context, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := fmt.Fprintf(e.w, "[%s] %s: %s %v\n",
		entry.Timestamp.Format(time.RFC3339),
		entry.Level,
		entry.Message,
		entry.Attrs,
	)
	return err
}

// Flush is a no-op (writes are immediate).
func (e *WriterExporter) Flush(ctx context.Context) error { return nil }

// Close is a no-op (doesn't own the writer).
func (e *WriterExporter) Close() error { return nil }
