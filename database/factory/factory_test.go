// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package factory

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/blazesync/database/leveldb"
	"github.com/ava-labs/blazesync/database/memdb"
	"github.com/ava-labs/blazesync/utils/logging"
)

func TestNewDatabase(t *testing.T) {
	tests := []struct {
		name      string
		dbName    string
		expectErr bool
	}{
		{
			name:   "memdb",
			dbName: memdb.Name,
		},
		{
			name:   "leveldb",
			dbName: leveldb.Name,
		},
		{
			name:      "unknown",
			dbName:    "rocksdb",
			expectErr: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			db, err := NewDatabase(DatabaseConfig{
				Path: filepath.Join(t.TempDir(), "db"),
				Name: test.dbName,
			}, logging.NoLog{})
			if test.expectErr {
				require.Error(err)
				return
			}
			require.NoError(err)
			require.NoError(db.Put([]byte{1}, []byte{2}))
			require.NoError(db.Close())
		})
	}
}
