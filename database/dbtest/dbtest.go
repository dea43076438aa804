// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dbtest holds the conformance tests every database.Database
// implementation in this module must pass.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/blazesync/database"
)

// Tests is a list of all database tests
var Tests = map[string]func(t *testing.T, db database.Database){
	"SimpleKeyValue":        TestSimpleKeyValue,
	"KeyEmptyValue":         TestKeyEmptyValue,
	"SimpleKeyValueClosed":  TestSimpleKeyValueClosed,
	"BatchPut":              TestBatchPut,
	"BatchDelete":           TestBatchDelete,
	"BatchReset":            TestBatchReset,
	"IteratorPrefix":        TestIteratorPrefix,
	"IteratorStartAndOrder": TestIteratorStartAndOrder,
	"IteratorSnapshot":      TestIteratorSnapshot,
	"IteratorClosed":        TestIteratorClosed,
	"ClearPrefix":           TestClearPrefix,
	"MemorySafety":          TestMemorySafety,
}

// TestSimpleKeyValue tests to make sure that simple Put + Get + Delete + Has
// calls return the expected values.
func TestSimpleKeyValue(t *testing.T, db database.Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)

	_, err = db.Get(key)
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Delete(key))
	require.NoError(db.Put(key, value))

	has, err = db.Has(key)
	require.NoError(err)
	require.True(has)

	v, err := db.Get(key)
	require.NoError(err)
	require.Equal(value, v)

	require.NoError(db.Delete(key))

	has, err = db.Has(key)
	require.NoError(err)
	require.False(has)
}

func TestKeyEmptyValue(t *testing.T, db database.Database) {
	require := require.New(t)

	key := []byte("hello")
	val := []byte(nil)

	require.NoError(db.Put(key, val))

	value, err := db.Get(key)
	require.NoError(err)
	require.Empty(value)
}

func TestSimpleKeyValueClosed(t *testing.T, db database.Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	require.NoError(db.Put(key, value))
	require.NoError(db.Close())

	_, err := db.Has(key)
	require.ErrorIs(err, database.ErrClosed)

	_, err = db.Get(key)
	require.ErrorIs(err, database.ErrClosed)

	require.ErrorIs(db.Put(key, value), database.ErrClosed)
	require.ErrorIs(db.Delete(key), database.ErrClosed)
	require.ErrorIs(db.Close(), database.ErrClosed)
}

func TestBatchPut(t *testing.T, db database.Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	batch := db.NewBatch()
	require.NoError(batch.Put(key, value))
	require.Positive(batch.Size())

	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)

	require.NoError(batch.Write())

	v, err := db.Get(key)
	require.NoError(err)
	require.Equal(value, v)
}

func TestBatchDelete(t *testing.T, db database.Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	require.NoError(db.Put(key, value))

	batch := db.NewBatch()
	require.NoError(batch.Delete(key))
	require.NoError(batch.Write())

	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)
}

func TestBatchReset(t *testing.T, db database.Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	batch := db.NewBatch()
	require.NoError(batch.Put(key, value))
	batch.Reset()
	require.Zero(batch.Size())
	require.NoError(batch.Write())

	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)
}

func TestIteratorPrefix(t *testing.T, db database.Database) {
	require := require.New(t)

	require.NoError(db.Put([]byte("a1"), []byte("v1")))
	require.NoError(db.Put([]byte("b1"), []byte("v2")))
	require.NoError(db.Put([]byte("b2"), []byte("v3")))
	require.NoError(db.Put([]byte("c1"), []byte("v4")))

	it := db.NewIteratorWithPrefix([]byte("b"))
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(it.Error())
	require.Equal([]string{"b1", "b2"}, keys)
}

func TestIteratorStartAndOrder(t *testing.T, db database.Database) {
	require := require.New(t)

	for _, k := range []string{"3", "1", "4", "2"} {
		require.NoError(db.Put([]byte(k), []byte("v"+k)))
	}

	it := db.NewIteratorWithStart([]byte("2"))
	defer it.Release()

	var (
		keys   []string
		values []string
	)
	for it.Next() {
		keys = append(keys, string(it.Key()))
		values = append(values, string(it.Value()))
	}
	require.NoError(it.Error())
	require.Equal([]string{"2", "3", "4"}, keys)
	require.Equal([]string{"v2", "v3", "v4"}, values)
	require.False(it.Next())
	require.Nil(it.Key())
}

func TestIteratorSnapshot(t *testing.T, db database.Database) {
	require := require.New(t)

	require.NoError(db.Put([]byte("k1"), []byte("v1")))

	it := db.NewIterator()
	defer it.Release()

	require.NoError(db.Put([]byte("k2"), []byte("v2")))

	require.True(it.Next())
	require.Equal([]byte("k1"), it.Key())
	require.False(it.Next())
	require.NoError(it.Error())
}

func TestIteratorClosed(t *testing.T, db database.Database) {
	require := require.New(t)

	require.NoError(db.Put([]byte("k"), []byte("v")))
	require.NoError(db.Close())

	it := db.NewIterator()
	defer it.Release()

	require.False(it.Next())
	require.ErrorIs(it.Error(), database.ErrClosed)
}

func TestClearPrefix(t *testing.T, db database.Database) {
	require := require.New(t)

	for _, k := range []string{"p1", "p2", "p3", "q1"} {
		require.NoError(db.Put([]byte(k), []byte(k)))
	}

	// A write size of 1 forces a flush after every deletion.
	require.NoError(database.ClearPrefix(db, []byte("p"), 1))

	for _, k := range []string{"p1", "p2", "p3"} {
		has, err := db.Has([]byte(k))
		require.NoError(err)
		require.False(has)
	}
	has, err := db.Has([]byte("q1"))
	require.NoError(err)
	require.True(has)
}

func TestMemorySafety(t *testing.T, db database.Database) {
	require := require.New(t)

	key := []byte("1key")
	value := []byte("1value")
	require.NoError(db.Put(key, value))

	key[0] = '2'
	value[0] = '2'

	gotVal, err := db.Get([]byte("1key"))
	require.NoError(err)
	require.Equal([]byte("1value"), gotVal)

	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)
}
