package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "swap-analytics"

// jsonConfig is the base for every non-development tier: info-level JSON on
// stdout, caller and stacktrace enabled.
func jsonConfig() zap.Config {
	return zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.InfoLevel),
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
}

func newProductionLoggerConfig() zap.Config {
	cfg := jsonConfig()
	// The sync and backfill loops can emit the same resolver error for every
	// record in a bad batch; sampling keeps those floods bounded.
	cfg.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
	cfg.InitialFields = map[string]interface{}{"service": serviceName}
	return cfg
}

func newStagingLoggerConfig() zap.Config {
	cfg := jsonConfig()
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.InitialFields = map[string]interface{}{"service": serviceName}
	return cfg
}

func newDevelopmentLoggerConfig() zap.Config {
	return zap.Config{
		Level:             zap.NewAtomicLevelAt(zapcore.DebugLevel),
		Development:       true,
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          "console",
		EncoderConfig:     zap.NewDevelopmentEncoderConfig(),
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// newTestLoggerConfig drops all output so test runs stay quiet.
func newTestLoggerConfig() zap.Config {
	cfg := jsonConfig()
	cfg.OutputPaths = []string{}
	cfg.ErrorOutputPaths = []string{}
	return cfg
}
