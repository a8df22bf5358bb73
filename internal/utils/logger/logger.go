package logger

import (
	"sort"

	"go.uber.org/zap"

	"github.com/swaplens/analytics-backend/internal/types/environments"
)

type Logger struct {
	wrappedLogger *zap.Logger
}

func New(env environments.Environment) *Logger {
	var cfg zap.Config

	switch env {
	case environments.Development:
		cfg = newDevelopmentLoggerConfig()
	case environments.Test:
		cfg = newTestLoggerConfig()
	case environments.Staging:
		cfg = newStagingLoggerConfig()
	default:
		cfg = newProductionLoggerConfig()
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	return &Logger{wrappedLogger: zapLogger}
}

func (l *Logger) Debug(msg string, inputFields ...map[string]string) {
	l.wrappedLogger.Debug(msg, collectFields(inputFields)...)
}

func (l *Logger) Info(msg string, inputFields ...map[string]string) {
	l.wrappedLogger.Info(msg, collectFields(inputFields)...)
}

func (l *Logger) Warn(msg string, inputFields ...map[string]string) {
	l.wrappedLogger.Warn(msg, collectFields(inputFields)...)
}

func (l *Logger) Error(msg string, inputFields ...map[string]string) {
	l.wrappedLogger.Error(msg, collectFields(inputFields)...)
}

func (l *Logger) Fatal(msg string, inputFields ...map[string]string) {
	l.wrappedLogger.Fatal(msg, collectFields(inputFields)...)
}

// collectFields merges the optional field maps into zap fields in sorted key
// order, so repeated log lines carry their fields in a stable position.
func collectFields(inputFields []map[string]string) []zap.Field {
	n := 0
	for _, m := range inputFields {
		n += len(m)
	}

	fields := make([]zap.Field, 0, n)
	for _, m := range inputFields {
		for k, v := range m {
			fields = append(fields, zap.String(k, v))
		}
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })

	return fields
}
