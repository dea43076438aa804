// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/blazesync/database/leveldb"
	"github.com/ava-labs/blazesync/database/memdb"
	"github.com/ava-labs/blazesync/utils/logging"
)

const testServerURI = "https://lightwalletd.example.com:443"

func getConfig(t *testing.T, args ...string) (LightClientConfig, error) {
	v, err := BuildViper(BuildFlagSet(), args)
	require.NoError(t, err)
	return GetConfig(v)
}

func TestGetConfigDefaults(t *testing.T) {
	require := require.New(t)

	dataDir := t.TempDir()
	config, err := getConfig(t,
		"--"+ServerURIKey, testServerURI,
		"--"+DataDirKey, dataDir,
	)
	require.NoError(err)

	require.Equal(MainnetName, config.ChainName)
	require.Equal(testServerURI, config.ServerURI)
	require.Equal(uint64(defaultBatchSize), config.BatchSize)
	require.Equal(uint64(defaultAnchorOffset), config.AnchorOffset)
	require.Equal(leveldb.Name, config.DatabaseConfig.Name)
	require.Equal(filepath.Join(dataDir, dbDirName, MainnetName), config.DatabaseConfig.Path)
	require.Equal(logging.Info, config.LoggingConfig.LogLevel)
	require.Equal(logging.Info, config.LoggingConfig.DisplayLevel)
	require.Equal(logging.Plain, config.LoggingConfig.LogFormat)
	require.Equal(filepath.Join(dataDir, logDirName), config.LoggingConfig.Directory)
}

func TestGetConfigFromFlags(t *testing.T) {
	require := require.New(t)

	config, err := getConfig(t,
		"--"+ChainNameKey, TestnetName,
		"--"+ServerURIKey, testServerURI,
		"--"+DBTypeKey, memdb.Name,
		"--"+BatchSizeKey, "25",
		"--"+AnchorOffsetKey, "10",
		"--"+LogLevelKey, "debug",
		"--"+LogDisplayLevelKey, "warn",
		"--"+LogFormatKey, "json",
		"--"+LogDirKey, "/tmp/blazesync-logs",
	)
	require.NoError(err)

	require.Equal(TestnetName, config.ChainName)
	require.Equal(memdb.Name, config.DatabaseConfig.Name)
	require.Equal(uint64(25), config.BatchSize)
	require.Equal(uint64(10), config.AnchorOffset)
	require.Equal(logging.Debug, config.LoggingConfig.LogLevel)
	require.Equal(logging.Warn, config.LoggingConfig.DisplayLevel)
	require.Equal(logging.JSON, config.LoggingConfig.LogFormat)
	require.Equal("/tmp/blazesync-logs", config.LoggingConfig.Directory)
}

func TestGetConfigFromFile(t *testing.T) {
	require := require.New(t)

	configFilePath := filepath.Join(t.TempDir(), "config.json")
	configJSON := `{
		"chain-name": "regtest",
		"server-uri": "http://127.0.0.1:9067",
		"batch-size": 7
	}`
	require.NoError(os.WriteFile(configFilePath, []byte(configJSON), 0o600))

	config, err := getConfig(t,
		"--"+ConfigFileKey, configFilePath,
		// Flags override the config file.
		"--"+BatchSizeKey, "9",
	)
	require.NoError(err)
	require.Equal(RegtestName, config.ChainName)
	require.Equal("http://127.0.0.1:9067", config.ServerURI)
	require.Equal(uint64(9), config.BatchSize)
}

func TestGetConfigErrors(t *testing.T) {
	tests := map[string]struct {
		args        []string
		expectedErr error
	}{
		"unknown chain": {
			args:        []string{"--" + ServerURIKey, testServerURI, "--" + ChainNameKey, "nope"},
			expectedErr: errUnknownChain,
		},
		"missing server uri": {
			args:        nil,
			expectedErr: errMissingServerURI,
		},
		"zero batch size": {
			args:        []string{"--" + ServerURIKey, testServerURI, "--" + BatchSizeKey, "0"},
			expectedErr: errInvalidBatchSize,
		},
		"unknown log level": {
			args:        []string{"--" + ServerURIKey, testServerURI, "--" + LogLevelKey, "loud"},
			expectedErr: logging.ErrUnknownLevel,
		},
		"unknown display level": {
			args:        []string{"--" + ServerURIKey, testServerURI, "--" + LogDisplayLevelKey, "quiet"},
			expectedErr: logging.ErrUnknownLevel,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := getConfig(t, test.args...)
			require.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestGetConfigUnknownDBType(t *testing.T) {
	_, err := getConfig(t,
		"--"+ServerURIKey, testServerURI,
		"--"+DBTypeKey, "rocksdb",
	)
	require.ErrorContains(t, err, "rocksdb")
}

func TestBuildViperUnknownFlag(t *testing.T) {
	_, err := BuildViper(BuildFlagSet(), []string{"--not-a-flag"})
	require.Error(t, err)
}
