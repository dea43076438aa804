// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blaze

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/blazesync/config"
	"github.com/ava-labs/blazesync/database"
	"github.com/ava-labs/blazesync/database/factory"
	"github.com/ava-labs/blazesync/utils/logging"
)

var _ io.Closer = (*resources)(nil)

type resources struct {
	logFactory logging.Factory
	db         database.Database
}

// Close closes the database, then the loggers.
func (r *resources) Close() error {
	err := r.db.Close()
	r.logFactory.Close()
	return err
}

// Open creates the logger and opens the database described by [config], and
// returns a coordinator using them. The returned closer releases both once
// the coordinator is no longer used.
func Open(config config.LightClientConfig, registerer prometheus.Registerer) (*SyncData, io.Closer, error) {
	logFactory := logging.NewFactory(config.LoggingConfig)
	log, err := logFactory.Make(config.ChainName)
	if err != nil {
		logFactory.Close()
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := factory.NewDatabase(config.DatabaseConfig, log)
	if err != nil {
		logFactory.Close()
		return nil, nil, err
	}

	s, err := New(config, log, db, registerer)
	if err != nil {
		_ = db.Close()
		logFactory.Close()
		return nil, nil, err
	}

	log.Info("opened sync coordinator",
		zap.String("chain", config.ChainName),
		zap.String("serverURI", config.ServerURI),
		zap.String("db", config.DatabaseConfig.Name),
		zap.Uint64("batchSize", config.BatchSize),
	)
	return s, &resources{
		logFactory: logFactory,
		db:         db,
	}, nil
}
