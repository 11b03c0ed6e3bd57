// Package logger builds the structured zap logger shared by the server and commands.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppName is attached to every log line.
const AppName = "courseapi"

// New builds a JSON zap logger.
// Debug mode keeps JSON output but lowers the level to debug and adds caller stack traces on warnings.
func New(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.InitialFields = map[string]interface{}{"app": AppName}

	opts := []zap.Option{}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		opts = append(opts, zap.AddStacktrace(zap.WarnLevel))
	}
	return cfg.Build(opts...)
}
