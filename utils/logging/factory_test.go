// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFactoryMake(t *testing.T) {
	require := require.New(t)

	f := NewFactory(Config{
		RotatingWriterConfig: RotatingWriterConfig{
			MaxSize:   1,
			MaxFiles:  1,
			Directory: t.TempDir(),
		},
		DisableWriterDisplaying: true,
		LogLevel:                Debug,
		DisplayLevel:            Off,
	})
	defer f.Close()

	log, err := f.Make("sync")
	require.NoError(err)
	require.True(log.Enabled(Debug))

	_, err = f.Make("sync")
	require.Error(err)

	require.NoError(f.SetLogLevel("sync", Error))
	require.False(log.Enabled(Debug))
	require.NoError(f.SetDisplayLevel("sync", Info))
	require.Error(f.SetLogLevel("missing", Info))

	require.Equal([]string{"sync"}, f.GetLoggerNames())
}
