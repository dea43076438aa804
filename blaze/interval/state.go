// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package interval

import (
	"errors"

	"github.com/ava-labs/blazesync/database"
)

const prefixLen = 1

var (
	rangePrefix = []byte{0}

	errInvalidKeyLength = errors.New("invalid key length")
)

// GetIntervals returns the intervals persisted in [db], ordered by upper bound.
func GetIntervals(db database.Iteratee) ([]*Interval, error) {
	it := db.NewIteratorWithPrefix(rangePrefix)
	defer it.Release()

	var intervals []*Interval
	for it.Next() {
		dbKey := it.Key()
		if len(dbKey) < prefixLen {
			return nil, errInvalidKeyLength
		}

		upperBound, err := database.ParseUInt64(dbKey[prefixLen:])
		if err != nil {
			return nil, err
		}

		lowerBound, err := database.ParseUInt64(it.Value())
		if err != nil {
			return nil, err
		}

		intervals = append(intervals, &Interval{
			LowerBound: lowerBound,
			UpperBound: upperBound,
		})
	}
	return intervals, it.Error()
}

func PutInterval(db database.KeyValueWriter, upperBound uint64, lowerBound uint64) error {
	return database.PutUInt64(db, rangeKey(upperBound), lowerBound)
}

func DeleteInterval(db database.KeyValueDeleter, upperBound uint64) error {
	return db.Delete(rangeKey(upperBound))
}

// ClearIntervals removes every persisted interval from [db].
func ClearIntervals(db database.Database) error {
	return database.ClearPrefix(db, rangePrefix, clearWriteSize)
}

func rangeKey(upperBound uint64) []byte {
	return append(rangePrefix[:prefixLen:prefixLen], database.PackUInt64(upperBound)...)
}
