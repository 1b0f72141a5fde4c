package logger

import (
	"log"
	"os"
)

// Level controls which messages a Logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is a thin leveled wrapper around the standard logger.
type Logger struct {
	level Level
}

// New creates a Logger for the named level; unknown names default to info.
func New(level string) *Logger {
	return &Logger{level: parseLevel(level)}
}

func parseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) Debug(msg string) {
	if l.level <= LevelDebug {
		log.Printf("[DEBUG] %s", msg)
	}
}

func (l *Logger) Info(msg string) {
	if l.level <= LevelInfo {
		log.Printf("[INFO] %s", msg)
	}
}

func (l *Logger) Warn(msg string) {
	if l.level <= LevelWarn {
		log.Printf("[WARN] %s", msg)
	}
}

func (l *Logger) Error(msg string) {
	log.Printf("[ERROR] %s", msg)
}

// Fatal logs the message and exits.
func (l *Logger) Fatal(msg string) {
	log.Printf("[FATAL] %s", msg)
	os.Exit(1)
}
