package logger

import (
	"github.com/code19m/errx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	messageKey = "msg"
	levelKey   = "level"
	nameKey    = "logger"
	timeKey    = "time"

	// EncodingConsole produces colored human-readable output for local runs.
	EncodingConsole = "console"
	// EncodingJSON produces compact JSON logs for production.
	EncodingJSON = "json"
)

// Config defines configuration options for the logger.
type Config struct {
	// Level is the minimum log level to emit: debug, info, warn or error.
	Level string `yaml:"level" validate:"oneof=debug info warn error" default:"info"`

	// Encoding selects the log format: json or console.
	Encoding string `yaml:"encoding" validate:"oneof=json console" default:"json"`
}

func (c Config) getZapConfig() (zap.Config, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return zap.Config{}, errx.Wrap(err)
	}

	encodeLevel := zapcore.CapitalLevelEncoder
	if c.Encoding == EncodingConsole {
		encodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return zap.Config{
		Level:            level,
		Encoding:         c.Encoding,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     messageKey,
			LevelKey:       levelKey,
			NameKey:        nameKey,
			TimeKey:        timeKey,
			EncodeLevel:    encodeLevel,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
	}, nil
}
