// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package factory

import (
	"fmt"

	"github.com/ava-labs/blazesync/database"
	"github.com/ava-labs/blazesync/database/leveldb"
	"github.com/ava-labs/blazesync/database/memdb"
	"github.com/ava-labs/blazesync/utils/logging"
)

type DatabaseConfig struct {
	// Path to database
	Path string `json:"path"`

	// Name of the database type to use
	Name string `json:"name"`
}

// NewDatabase creates a new database instance based on the provided
// configuration. It supports LevelDB and MemDB as database types.
func NewDatabase(dbConfig DatabaseConfig, log logging.Logger) (database.Database, error) {
	switch dbConfig.Name {
	case leveldb.Name:
		db, err := leveldb.New(dbConfig.Path, log)
		if err != nil {
			return nil, fmt.Errorf("couldn't create %s at %s: %w", leveldb.Name, dbConfig.Path, err)
		}
		return db, nil
	case memdb.Name:
		return memdb.New(), nil
	default:
		return nil, fmt.Errorf(
			"db-type was %q but should have been one of {%s, %s}",
			dbConfig.Name,
			leveldb.Name,
			memdb.Name,
		)
	}
}
