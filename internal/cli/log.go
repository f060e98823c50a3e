package cli

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger logs to stderr; verbosity n enables logr V(n) and below
func newLogger(verbosity int) (logr.Logger, func(), error) {
	if verbosity <= 0 {
		return logr.Discard(), func() {}, nil
	}

	zCfg := zap.NewDevelopmentConfig()
	zCfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	zCfg.EncoderConfig.EncodeCaller = nil
	zCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zCfg.EncoderConfig.TimeKey = ""

	z, err := zCfg.Build()
	if err != nil {
		return logr.Discard(), func() {}, err
	}
	return zapr.NewLogger(z), func() { _ = z.Sync() }, nil
}
