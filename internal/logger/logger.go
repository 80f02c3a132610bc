package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger est l'interface de log injectée dans les paquets du pipeline.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// SlogLogger enveloppe un *slog.Logger.
type SlogLogger struct {
	*slog.Logger
}

// ParseLevel convertit "debug", "info", "warn", "error" en niveau slog (info par défaut).
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New crée un logger sur w, en JSON si asJSON.
func New(w io.Writer, level string, asJSON bool) Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if asJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &SlogLogger{slog.New(h)}
}

// With retourne un logger enrichi d'attributs (ex: request_id).
func With(l Logger, args ...any) Logger {
	if s, ok := l.(*SlogLogger); ok {
		return &SlogLogger{s.Logger.With(args...)}
	}
	return l
}

func (l *SlogLogger) Debugf(format string, v ...any) {
	l.Debug(fmt.Sprintf(format, v...))
}

func (l *SlogLogger) Infof(format string, v ...any) {
	l.Info(fmt.Sprintf(format, v...))
}

func (l *SlogLogger) Warnf(format string, v ...any) {
	l.Warn(fmt.Sprintf(format, v...))
}

func (l *SlogLogger) Errorf(format string, v ...any) {
	l.Error(fmt.Sprintf(format, v...))
}

type nop struct{}

func (nop) Debugf(string, ...any) {}
func (nop) Infof(string, ...any)  {}
func (nop) Warnf(string, ...any)  {}
func (nop) Errorf(string, ...any) {}

// Nop retourne un logger qui ignore tout (tests, librairie).
func Nop() Logger { return nop{} }
