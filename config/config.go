// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ava-labs/blazesync/database/factory"
	"github.com/ava-labs/blazesync/database/leveldb"
	"github.com/ava-labs/blazesync/database/memdb"
	"github.com/ava-labs/blazesync/utils/logging"
)

const (
	ConfigFileKey      = "config-file"
	ChainNameKey       = "chain-name"
	ServerURIKey       = "server-uri"
	DataDirKey         = "data-dir"
	DBTypeKey          = "db-type"
	BatchSizeKey       = "batch-size"
	AnchorOffsetKey    = "anchor-offset"
	LogLevelKey        = "log-level"
	LogDisplayLevelKey = "log-display-level"
	LogFormatKey       = "log-format"
	LogDirKey          = "log-dir"
	LogMaxSizeKey      = "log-rotater-max-size"
	LogMaxFilesKey     = "log-rotater-max-files"
	LogMaxAgeKey       = "log-rotater-max-age"
	LogCompressKey     = "log-rotater-compress-enabled"

	MainnetName = "main"
	TestnetName = "test"
	RegtestName = "regtest"

	defaultBatchSize    = 100
	defaultAnchorOffset = 4
	dbDirName           = "db"
	logDirName          = "logs"
)

var (
	defaultDataDir = filepath.Join(os.ExpandEnv("$HOME"), ".blazesync")

	errUnknownChain     = errors.New("unknown chain name")
	errInvalidBatchSize = errors.New("batch size must be positive")
	errMissingServerURI = errors.New("server uri must be set")
)

// LightClientConfig is the configuration of a light wallet syncing against a
// single chain.
type LightClientConfig struct {
	ChainName string `json:"chainName"`
	ServerURI string `json:"serverURI"`
	DataDir   string `json:"dataDir"`

	// Maximum number of heights handed to a worker at once.
	BatchSize uint64 `json:"batchSize"`
	// Number of blocks below the start of a session whose commitment tree
	// state anchors new spends.
	AnchorOffset uint64 `json:"anchorOffset"`

	DatabaseConfig factory.DatabaseConfig `json:"databaseConfig"`
	LoggingConfig  logging.Config         `json:"loggingConfig"`
}

// BuildFlagSet returns the complete set of flags understood by GetConfig.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("blazesync", pflag.ContinueOnError)

	fs.String(ConfigFileKey, "", "Specifies a config file")
	fs.String(ChainNameKey, MainnetName, fmt.Sprintf("Chain to sync. Should be one of {%s, %s, %s}", MainnetName, TestnetName, RegtestName))
	fs.String(ServerURIKey, "", "URI of the light wallet server blocks are fetched from")
	fs.String(DataDirKey, defaultDataDir, "Directory holding the database and the logs")

	// Database
	fs.String(DBTypeKey, leveldb.Name, fmt.Sprintf("Database type to use. Should be one of {%s, %s}", leveldb.Name, memdb.Name))

	// Sync
	fs.Uint64(BatchSizeKey, defaultBatchSize, "Maximum number of blocks a worker fetches at once")
	fs.Uint64(AnchorOffsetKey, defaultAnchorOffset, "Number of blocks below the sync start used as the witness anchor")

	// Logging
	fs.String(LogDirKey, "", fmt.Sprintf("Logging directory. Defaults to [%s]/%s", DataDirKey, logDirName))
	fs.String(LogLevelKey, logging.Info.String(), "The log level. Should be one of {verbo, debug, trace, info, warn, error, fatal, off}")
	fs.String(LogDisplayLevelKey, "", "The log display level. If left blank, will inherit the value of log-level. Otherwise, should be one of {verbo, debug, trace, info, warn, error, fatal, off}")
	fs.String(LogFormatKey, logging.Plain.String(), "The structure of log format. Should be one of {plain, json}")
	fs.Int(LogMaxSizeKey, 8, "The maximum file size in megabytes of the log file before it gets rotated")
	fs.Int(LogMaxFilesKey, 7, "The maximum number of old log files to retain. 0 means retain all old log files")
	fs.Int(LogMaxAgeKey, 0, "The maximum number of days to retain old log files based on the timestamp encoded in their filename. 0 means retain all old log files")
	fs.Bool(LogCompressKey, false, "Enables the compression of rotated log files through gzip")

	return fs
}

// BuildViper parses [args] with [fs] and returns a viper instance bound to
// the parsed flags. If a config file was given it is read as well, with flags
// taking precedence over its values.
func BuildViper(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	if v.IsSet(ConfigFileKey) {
		v.SetConfigFile(os.ExpandEnv(v.GetString(ConfigFileKey)))
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// GetConfig reads and validates a LightClientConfig from [v].
func GetConfig(v *viper.Viper) (LightClientConfig, error) {
	config := LightClientConfig{
		ChainName:    v.GetString(ChainNameKey),
		ServerURI:    v.GetString(ServerURIKey),
		DataDir:      getExpandedString(v, DataDirKey),
		BatchSize:    v.GetUint64(BatchSizeKey),
		AnchorOffset: v.GetUint64(AnchorOffsetKey),
	}

	switch config.ChainName {
	case MainnetName, TestnetName, RegtestName:
	default:
		return LightClientConfig{}, fmt.Errorf("%w: %q", errUnknownChain, config.ChainName)
	}
	if config.ServerURI == "" {
		return LightClientConfig{}, errMissingServerURI
	}
	if config.BatchSize == 0 {
		return LightClientConfig{}, errInvalidBatchSize
	}

	config.DatabaseConfig = factory.DatabaseConfig{
		Name: v.GetString(DBTypeKey),
		Path: filepath.Join(config.DataDir, dbDirName, config.ChainName),
	}
	switch config.DatabaseConfig.Name {
	case leveldb.Name, memdb.Name:
	default:
		return LightClientConfig{}, fmt.Errorf(
			"db-type was %q but should have been one of {%s, %s}",
			config.DatabaseConfig.Name,
			leveldb.Name,
			memdb.Name,
		)
	}

	loggingConfig, err := getLoggingConfig(v, config.DataDir)
	if err != nil {
		return LightClientConfig{}, err
	}
	config.LoggingConfig = loggingConfig
	return config, nil
}

func getLoggingConfig(v *viper.Viper, dataDir string) (logging.Config, error) {
	loggingConfig := logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   v.GetInt(LogMaxSizeKey),
			MaxFiles:  v.GetInt(LogMaxFilesKey),
			MaxAge:    v.GetInt(LogMaxAgeKey),
			Directory: getExpandedString(v, LogDirKey),
			Compress:  v.GetBool(LogCompressKey),
		},
	}
	if loggingConfig.Directory == "" {
		loggingConfig.Directory = filepath.Join(dataDir, logDirName)
	}

	var err error
	loggingConfig.LogLevel, err = logging.ToLevel(v.GetString(LogLevelKey))
	if err != nil {
		return loggingConfig, err
	}

	logDisplayLevel := v.GetString(LogDisplayLevelKey)
	if logDisplayLevel == "" {
		logDisplayLevel = v.GetString(LogLevelKey)
	}
	loggingConfig.DisplayLevel, err = logging.ToLevel(logDisplayLevel)
	if err != nil {
		return loggingConfig, err
	}

	loggingConfig.LogFormat, err = logging.ToFormat(v.GetString(LogFormatKey))
	return loggingConfig, err
}

func getExpandedString(v *viper.Viper, key string) string {
	return os.ExpandEnv(v.GetString(key))
}
