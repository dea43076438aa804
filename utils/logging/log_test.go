// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bufferCloser struct {
	bytes.Buffer
}

func (*bufferCloser) Close() error {
	return nil
}

func TestLogWritesStructuredFields(t *testing.T) {
	require := require.New(t)

	buf := &bufferCloser{}
	log := NewLogger("blaze", NewWrappedCore(Info, buf, JSON.FileEncoder()))

	log.Debug("dropped")
	require.Zero(buf.Len())

	log.Info("session started", zap.Uint64("syncID", 7))

	var line map[string]any
	require.NoError(json.Unmarshal(buf.Bytes(), &line))
	require.Equal("session started", line["msg"])
	require.Equal("INFO", line["level"])
	require.Equal("blaze", line["logger"])
	require.InDelta(7, line["syncID"], 0)
}

func TestLogSetLevel(t *testing.T) {
	require := require.New(t)

	buf := &bufferCloser{}
	log := NewLogger("", NewWrappedCore(Warn, buf, JSON.FileEncoder()))
	require.False(log.Enabled(Info))

	log.SetLevel(Verbo)
	require.True(log.Enabled(Verbo))

	log.With(zap.String("component", "fetcher")).Verbo("visible")
	require.Contains(buf.String(), "fetcher")
}

func TestLogFatalDoesNotExit(t *testing.T) {
	buf := &bufferCloser{}
	log := NewLogger("", NewWrappedCore(Info, buf, JSON.FileEncoder()))
	log.Fatal("reported")
	require.Contains(t, buf.String(), "FATAL")
}

func TestNoLog(t *testing.T) {
	require := require.New(t)

	var log Logger = NoLog{}
	log = log.With(zap.String("k", "v"))
	require.False(log.Enabled(Fatal))

	n, err := log.Write([]byte("abc"))
	require.NoError(err)
	require.Equal(3, n)
}
