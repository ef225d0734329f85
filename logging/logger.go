// Package logging provides a tiny abstraction over slog so the turn-control
// core can depend on a minimal interface (Logger) while allowing users to
// plug any structured logger. It also offers a richer PipelineLogger with
// contextual helpers (conversation, component) and domain specific helpers
// for gate decisions and execution plans.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger defines the minimal logging interface for TurnMesh. Components
// accept a Logger and substitute NoOpLogger when given nil.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoOpLogger discards all log messages. Useful for testing or when logging
// is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// OrNoOp returns l, or a NoOpLogger when l is nil.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NoOpLogger{}
	}
	return l
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// NewJSONLogger creates a Logger writing JSON records to w (os.Stdout when
// nil) at the given level.
func NewJSONLogger(w io.Writer, level slog.Level) Logger {
	if w == nil {
		w = os.Stdout
	}
	return NewSlogAdapter(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}

// PipelineLogger wraps a Logger adding contextual cloning helpers and
// domain convenience methods. It is cheap to copy via the With* methods.
type PipelineLogger struct {
	logger         Logger
	component      string
	conversationID string
	turnID         string
}

// NewPipelineLogger wraps l (nil allowed) for contextual pipeline logging.
func NewPipelineLogger(l Logger) *PipelineLogger {
	return &PipelineLogger{logger: OrNoOp(l)}
}

// WithComponent sets the logical component (gate, planner, routing, mesh).
func (l *PipelineLogger) WithComponent(c string) *PipelineLogger {
	nl := *l
	nl.component = c
	return &nl
}

// WithConversation attaches conversation and turn identifiers.
func (l *PipelineLogger) WithConversation(conversationID, turnID string) *PipelineLogger {
	nl := *l
	nl.conversationID = conversationID
	nl.turnID = turnID
	return &nl
}

func (l *PipelineLogger) attrs(args []any) []any {
	out := make([]any, 0, len(args)+6)
	if l.component != "" {
		out = append(out, "component", l.component)
	}
	if l.conversationID != "" {
		out = append(out, "conversation_id", l.conversationID)
	}
	if l.turnID != "" {
		out = append(out, "turn_id", l.turnID)
	}
	return append(out, args...)
}

// Debug logs at debug level with the attached context.
func (l *PipelineLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, l.attrs(args)...) }

// Info logs at info level with the attached context.
func (l *PipelineLogger) Info(msg string, args ...any) { l.logger.Info(msg, l.attrs(args)...) }

// Warn logs at warn level with the attached context.
func (l *PipelineLogger) Warn(msg string, args ...any) { l.logger.Warn(msg, l.attrs(args)...) }

// Error logs at error level with the attached context.
func (l *PipelineLogger) Error(msg string, args ...any) { l.logger.Error(msg, l.attrs(args)...) }

// LogGateDecision records how an awaiting gate interpreted the user reply.
func (l *PipelineLogger) LogGateDecision(owner, decision string, handled bool) {
	l.Info("gate.decision", "owner", owner, "decision", decision, "handled", handled)
}

// LogPlan records the synthesized execution plan for a turn.
func (l *PipelineLogger) LogPlan(pattern, entryPoint string, agents []string, dur time.Duration) {
	l.Info("planner.plan",
		"pattern", pattern,
		"entry_point", entryPoint,
		"agent_count", len(agents),
		"duration", dur,
	)
}
