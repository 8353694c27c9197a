package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global logger instance
	Logger *zap.SugaredLogger
	// Flag to track if JSON output is enabled
	JSONOutput bool

	traceEnabled bool
)

func init() {
	// Safe no-op logger so packages can log before Initialize is called
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger at info level
func Initialize(jsonOutput bool) error {
	return InitializeWithLevel(zapcore.InfoLevel, jsonOutput)
}

// InitializeWithVerbosity sets up the global logger from a -v flag count
func InitializeWithVerbosity(verbosity int, jsonOutput bool) error {
	if err := InitializeWithLevel(VerbosityToLevel(verbosity), jsonOutput); err != nil {
		return err
	}
	traceEnabled = ShouldLogTrace(verbosity)
	Logger.Debugw("Logger initialized", "verbosity", LevelName(verbosity))
	return nil
}

// InitializeWithLevel sets up the global logger with an explicit minimum level.
// Console output goes to stderr so generated text on stdout stays clean.
func InitializeWithLevel(level zapcore.Level, jsonOutput bool) error {
	JSONOutput = jsonOutput
	traceEnabled = false

	var zapLogger *zap.Logger
	var err error

	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}
		zapLogger, err = config.Build()
	} else {
		zapLogger = zap.New(
			zapcore.NewCore(
				newMinimalEncoder(),
				zapcore.AddSync(os.Stderr),
				level,
			),
		)
	}

	if err != nil {
		return err
	}

	Logger = zapLogger.Sugar()
	return nil
}

// ComponentLogger returns a named logger for a specific component.
//
// Example:
//
//	log := logger.ComponentLogger("parsing.rust")
//	log.Debugw("skipping item", logger.FieldItem, name)
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Infow logs an info message with structured fields
func Infow(msg string, keysAndValues ...interface{}) {
	Logger.Infow(msg, keysAndValues...)
}

// Debugw logs a debug message with structured fields
func Debugw(msg string, keysAndValues ...interface{}) {
	Logger.Debugw(msg, keysAndValues...)
}

// Tracew logs per-node detail at debug level, only at -vvv
func Tracew(msg string, keysAndValues ...interface{}) {
	if traceEnabled {
		Logger.Debugw(msg, keysAndValues...)
	}
}

// Warnw logs a warning message with structured fields
func Warnw(msg string, keysAndValues ...interface{}) {
	Logger.Warnw(msg, keysAndValues...)
}

// Errorw logs an error message with structured fields
func Errorw(msg string, keysAndValues ...interface{}) {
	Logger.Errorw(msg, keysAndValues...)
}
