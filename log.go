package zipf

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevelType uint8

const (
	LevelVerbose LogLevelType = 50
	LevelDebug   LogLevelType = 40
	LevelInfo    LogLevelType = 30
	LevelWarn    LogLevelType = 20
	LevelError   LogLevelType = 10
	LevelQuiet   LogLevelType = 0
)

const (
	// zap has no level below debug, verbose sits one step under it.
	zapVerboseLevel = zapcore.DebugLevel - 1
	// above every level ever logged
	zapQuietLevel = zapcore.FatalLevel + 1
)

var (
	nameToLevels = map[string]LogLevelType{
		"verbose": LevelVerbose,
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"error":   LevelError,
		"quiet":   LevelQuiet,
	}
)

var (
	logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	// holds a *zap.Logger, swapped while client routines log
	logger atomic.Value
)

func init() {
	logger.Store(newLogger(os.Stderr))
}

func (self LogLevelType) zapLevel() zapcore.Level {
	switch {
	case self >= LevelVerbose:
		return zapVerboseLevel
	case self >= LevelDebug:
		return zapcore.DebugLevel
	case self >= LevelInfo:
		return zapcore.InfoLevel
	case self >= LevelWarn:
		return zapcore.WarnLevel
	case self >= LevelError:
		return zapcore.ErrorLevel
	default:
		return zapQuietLevel
	}
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l < zapcore.DebugLevel {
		enc.AppendString("VERBOSE")
		return
	}
	zapcore.CapitalLevelEncoder(l, enc)
}

func newLogger(w io.Writer) *zap.Logger {
	config := zap.NewDevelopmentEncoderConfig()
	config.EncodeLevel = encodeLevel
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(config),
		zapcore.Lock(zapcore.AddSync(w)),
		logLevel)
	return zap.New(core)
}

// ParseLogLevel maps a level name to its level.
func ParseLogLevel(name string) (LogLevelType, error) {
	level, ok := nameToLevels[name]
	if !ok {
		return LevelQuiet, errors.Errorf("unknown log level: %s", name)
	}
	return level, nil
}

func SetLogLevel(level LogLevelType) {
	logLevel.SetLevel(level.zapLevel())
}

func IsLogLevelEnabled(level LogLevelType) bool {
	return logLevel.Enabled(level.zapLevel())
}

// SetLogOutput sends log records to w.
func SetLogOutput(w io.Writer) {
	logger.Store(newLogger(w))
}

// SetLogger replaces the underlying logger. The level set by SetLogLevel
// still applies on top of whatever the logger's core enables.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

func Logf(level LogLevelType, format string, args ...interface{}) {
	zl := level.zapLevel()
	if zl >= zapQuietLevel || !logLevel.Enabled(zl) {
		return
	}
	if ce := logger.Load().(*zap.Logger).Check(zl, fmt.Sprintf(format, args...)); ce != nil {
		ce.Write()
	}
}

func Errorf(format string, args ...interface{}) {
	Logf(LevelError, format, args...)
}

func Warnf(format string, args ...interface{}) {
	Logf(LevelWarn, format, args...)
}

func Infof(format string, args ...interface{}) {
	Logf(LevelInfo, format, args...)
}

func Debugf(format string, args ...interface{}) {
	Logf(LevelDebug, format, args...)
}

func Verbosef(format string, args ...interface{}) {
	Logf(LevelVerbose, format, args...)
}
