// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Format modes available
const (
	Plain Format = iota
	JSON
)

var (
	termTimeEncoder = zapcore.TimeEncoderOfLayout("[01-02|15:04:05.000]")

	defaultEncoderConfig = zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		EncodeLevel:    levelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
)

// Format determines how log lines are encoded
type Format int

// ToFormat chooses a format from its name
func ToFormat(f string) (Format, error) {
	switch strings.ToUpper(f) {
	case "PLAIN", "AUTO":
		return Plain, nil
	case "JSON":
		return JSON, nil
	default:
		return Plain, fmt.Errorf("unknown log format: %q", f)
	}
}

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	default:
		return "plain"
	}
}

// ConsoleEncoder returns the encoder used for the display output
func (f Format) ConsoleEncoder() zapcore.Encoder {
	if f == JSON {
		return zapcore.NewJSONEncoder(defaultEncoderConfig)
	}
	config := defaultEncoderConfig
	config.EncodeTime = termTimeEncoder
	config.ConsoleSeparator = " "
	return zapcore.NewConsoleEncoder(config)
}

// FileEncoder returns the encoder used for the rotating file output
func (Format) FileEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(defaultEncoderConfig)
}
