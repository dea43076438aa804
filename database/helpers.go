// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package database

import (
	"encoding/binary"
	"errors"
)

const Uint64Size = 8 // bytes

var errWrongSize = errors.New("value has unexpected size")

func PutUInt64(db KeyValueWriter, key []byte, val uint64) error {
	return db.Put(key, PackUInt64(val))
}

func PackUInt64(val uint64) []byte {
	bytes := make([]byte, Uint64Size)
	binary.BigEndian.PutUint64(bytes, val)
	return bytes
}

func ParseUInt64(b []byte) (uint64, error) {
	if len(b) != Uint64Size {
		return 0, errWrongSize
	}
	return binary.BigEndian.Uint64(b), nil
}

// WithDefault returns the value at [key] in [db]. If the key doesn't exist, it
// returns [def].
func WithDefault[V any](
	get func(KeyValueReader, []byte) (V, error),
	db KeyValueReader,
	key []byte,
	def V,
) (V, error) {
	v, err := get(db, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	return v, err
}

// ClearPrefix removes all keys in db with the given prefix, writing deletions
// in batches of roughly [writeSize] bytes.
func ClearPrefix(db Database, prefix []byte, writeSize int) error {
	it := db.NewIteratorWithPrefix(prefix)
	defer it.Release()

	batch := db.NewBatch()
	for it.Next() {
		if err := batch.Delete(it.Key()); err != nil {
			return err
		}

		// Avoid too much memory pressure by periodically writing to the
		// database.
		if batch.Size() < writeSize {
			continue
		}

		if err := batch.Write(); err != nil {
			return err
		}
		batch.Reset()
	}

	if err := it.Error(); err != nil {
		return err
	}
	return batch.Write()
}
