package logger

import (
	"fmt"
	"io"
	"os"
	"time"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// Logger handles all logging for the player
type Logger struct {
	level           LogLevel
	writer          io.Writer
	apuEnabled      bool
	vgmEnabled      bool
	mixerEnabled    bool
	resamplerEnabled bool
}

var globalLogger *Logger

// Initialize sets up the global logger
func Initialize(level LogLevel, filename string) error {
	var writer io.Writer = os.Stdout

	if filename != "" {
		file, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		writer = file
	}

	globalLogger = &Logger{
		level:      level,
		writer:     writer,
		apuEnabled: false,
		vgmEnabled: true,
	}

	return nil
}

// SetAPULogging enables or disables APU channel/register logging
func SetAPULogging(enabled bool) {
	if globalLogger != nil {
		globalLogger.apuEnabled = enabled
	}
}

// SetVGMLogging enables or disables VGM command-stream logging
func SetVGMLogging(enabled bool) {
	if globalLogger != nil {
		globalLogger.vgmEnabled = enabled
	}
}

// SetMixerLogging enables or disables mixer/fade logging
func SetMixerLogging(enabled bool) {
	if globalLogger != nil {
		globalLogger.mixerEnabled = enabled
	}
}

// SetResamplerLogging enables or disables resampler logging
func SetResamplerLogging(enabled bool) {
	if globalLogger != nil {
		globalLogger.resamplerEnabled = enabled
	}
}

// LogAPU logs APU register writes and channel state transitions
func LogAPU(format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.apuEnabled && globalLogger.level >= LogLevelDebug {
		emit(globalLogger, "APU", format, args...)
	}
}

// LogVGM logs VGM command dispatch
func LogVGM(format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.vgmEnabled && globalLogger.level >= LogLevelDebug {
		emit(globalLogger, "VGM", format, args...)
	}
}

// LogMixer logs mixer/fade state
func LogMixer(format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.mixerEnabled && globalLogger.level >= LogLevelTrace {
		emit(globalLogger, "MIXER", format, args...)
	}
}

// LogResampler logs resampler cycle accounting
func LogResampler(format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.resamplerEnabled && globalLogger.level >= LogLevelTrace {
		emit(globalLogger, "RESAMPLE", format, args...)
	}
}

// LogInfo logs general information
func LogInfo(format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.level >= LogLevelInfo {
		emit(globalLogger, "INFO", format, args...)
	}
}

// LogError logs errors
func LogError(format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.level >= LogLevelError {
		emit(globalLogger, "ERROR", format, args...)
	}
}

// LogDebug logs debug information
func LogDebug(format string, args ...interface{}) {
	if globalLogger != nil && globalLogger.level >= LogLevelDebug {
		emit(globalLogger, "DEBUG", format, args...)
	}
}

func emit(l *Logger, tag, format string, args ...interface{}) {
	timestamp := time.Now().Format("15:04:05.000")
	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.writer, "[%s] %s: %s\n", timestamp, tag, message)
}

// GetLogLevelFromString converts string to LogLevel
func GetLogLevelFromString(level string) LogLevel {
	switch level {
	case "off":
		return LogLevelOff
	case "error":
		return LogLevelError
	case "warn":
		return LogLevelWarn
	case "info":
		return LogLevelInfo
	case "debug":
		return LogLevelDebug
	case "trace":
		return LogLevelTrace
	default:
		return LogLevelInfo
	}
}

// Close closes the logger and any associated files
func Close() {
	if globalLogger != nil {
		if file, ok := globalLogger.writer.(*os.File); ok && file != os.Stdout && file != os.Stderr {
			file.Close()
		}
	}
}
