// Package logger writes the debug log of the command line tools.
package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync/atomic"
	"time"
)

// maxLogSize 日志文件轮转阈值
const maxLogSize = 10 * 1024 * 1024

var (
	debugLog *os.File
	logPath  string
	verbose  atomic.Bool
)

// Init opens (or creates) debug.log under dir and sends the standard logger there.
// A log file larger than 10MB is renamed with a timestamp suffix first.
func Init(dir string) error {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".tennis")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// Create or append to debug.log
	path := filepath.Join(dir, "debug.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	// Rotate if file is too large
	if info, err := f.Stat(); err == nil && info.Size() > maxLogSize {
		_ = f.Close()
		backupPath := filepath.Join(dir, fmt.Sprintf("debug.log.%d", time.Now().UnixNano()))
		_ = os.Rename(path, backupPath)
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to create new log file: %w", err)
		}
	}

	Close()
	debugLog, logPath = f, path
	log.SetOutput(debugLog)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)

	LogInfo("Logger initialized, log file: %s", logPath)
	return nil
}

// Close closes the debug log file
func Close() {
	if debugLog != nil {
		log.SetOutput(os.Stderr)
		_ = debugLog.Close()
		debugLog = nil
	}
}

// SetDebug turns LogDebug output on or off.
func SetDebug(on bool) { verbose.Store(on) }

// LogInfo logs an info message
func LogInfo(format string, args ...any) {
	_ = log.Output(2, fmt.Sprintf("[INFO] "+format, args...))
}

// LogError logs an error message
func LogError(format string, args ...any) {
	_ = log.Output(2, fmt.Sprintf("[ERROR] "+format, args...))
}

// LogDebug logs a debug message when debug output is on
func LogDebug(format string, args ...any) {
	if verbose.Load() {
		_ = log.Output(2, fmt.Sprintf("[DEBUG] "+format, args...))
	}
}

// LogPanic logs a panic with stack trace
func LogPanic(r any) {
	log.Printf("[PANIC] %v\n%s", r, debug.Stack())
}

// GetLogPath returns the current log file path
func GetLogPath() string {
	return logPath
}

// Debug adapts LogDebug to the Printf interface of the round controller.
type Debug struct{}

func (Debug) Printf(format string, args ...any) { LogDebug(format, args...) }
