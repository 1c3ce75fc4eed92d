package log

import (
	"encoding/json"
	//nolint:depguard
	"log"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

const rootName = "meet"

// for init only
func Fatal(v ...any) {
	log.Fatal(v...)
}

type Logger struct {
	*zap.Logger
	names      []string
	fields     []Field
	moduleFunc func(names []string) *zap.Logger
}

// Module returns a child logger named after the module path, e.g. "Shell.Persist".
func (l *Logger) Module(name string) *Logger {
	names := make([]string, len(l.names)+1)
	copy(names, l.names)
	names[len(l.names)] = name

	return &Logger{
		names:      names,
		fields:     l.fields,
		Logger:     l.moduleFunc(names).With(l.fields...),
		moduleFunc: l.moduleFunc,
	}
}

// With adds fields that child modules keep as well.
func (l *Logger) With(fields ...Field) *Logger {
	all := make([]Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)

	return &Logger{
		names:      l.names,
		fields:     all,
		Logger:     l.Logger.With(fields...),
		moduleFunc: l.moduleFunc,
	}
}

// NewLogger builds a logger from a zap JSON config file, or the env-driven
// default logger when configFile is empty.
func NewLogger(configFile string) (*Logger, error) {
	if configFile == "" {
		return newDefaultLogger(), nil
	}
	return loadLoggerFromFile(configFile)
}

func loadLoggerFromFile(configFile string) (*Logger, error) {
	bs, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	cfg := zap.Config{}
	if err := json.Unmarshal(bs, &cfg); err != nil {
		return nil, err
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger: zapLogger.Named(rootName),
		moduleFunc: func(names []string) *zap.Logger {
			return zapLogger.Named(strings.Join(names, "."))
		},
	}, nil
}

func newEncoder() zapcore.Encoder {
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if useJSONFormat() {
		encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(encCfg)
	}

	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encCfg.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + name + "]")
	}
	return zapcore.NewConsoleEncoder(encCfg)
}

func newDefaultLogger() *Logger {
	encoder := newEncoder()
	writer := zapcore.AddSync(os.Stdout)

	build := func(level zapcore.Level) *zap.Logger {
		core := zapcore.NewCore(encoder, writer, zap.NewAtomicLevelAt(level))
		return zap.New(core, zap.AddStacktrace(zapcore.FatalLevel))
	}

	rootLevel, _ := levelFromEnv(levelEnvKey)

	return &Logger{
		Logger: build(rootLevel).Named(rootName),
		moduleFunc: func(names []string) *zap.Logger {
			lv := moduleLevel(names)
			logger := build(lv).Named(strings.Join(names, "."))
			logger.Debug("use module log", zap.Stringer("level", lv))
			return logger
		},
	}
}

func NewTest(t *testing.T) *Logger {
	logger := zaptest.NewLogger(t)
	return &Logger{
		Logger: logger,
		moduleFunc: func(names []string) *zap.Logger {
			return logger.Named(strings.Join(names, "."))
		},
	}
}

func NewNop() *Logger {
	logger := zap.NewNop()
	return &Logger{
		Logger: logger,
		moduleFunc: func(_ []string) *zap.Logger {
			return logger
		},
	}
}
