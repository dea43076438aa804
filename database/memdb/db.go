// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package memdb

import (
	"bytes"
	"slices"
	"sync"

	"github.com/google/btree"

	"github.com/ava-labs/blazesync/database"
)

const (
	// Name is the name of this database for database switches
	Name = "memdb"

	treeDegree = 16
)

var (
	_ database.Database = (*Database)(nil)
	_ database.Batch    = (*batch)(nil)
	_ database.Iterator = (*iterator)(nil)
)

type entry struct {
	key   []byte
	value []byte
}

func lessEntry(a, b entry) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// Database is an ephemeral key-value store that implements the Database
// interface. Keys are kept ordered in a btree so iteration never sorts.
type Database struct {
	lock   sync.RWMutex
	closed bool
	tree   *btree.BTreeG[entry]
}

// New returns an empty in-memory database.
func New() *Database {
	return &Database{
		tree: btree.NewG(treeDegree, lessEntry),
	}
}

func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return database.ErrClosed
	}
	db.closed = true
	db.tree.Clear(false)
	return nil
}

func (db *Database) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return false, database.ErrClosed
	}
	return db.tree.Has(entry{key: key}), nil
}

func (db *Database) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}
	if e, ok := db.tree.Get(entry{key: key}); ok {
		return slices.Clone(e.value), nil
	}
	return nil, database.ErrNotFound
}

func (db *Database) Put(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return database.ErrClosed
	}
	db.tree.ReplaceOrInsert(entry{
		key:   slices.Clone(key),
		value: slices.Clone(value),
	})
	return nil
}

func (db *Database) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return database.ErrClosed
	}
	db.tree.Delete(entry{key: key})
	return nil
}

func (db *Database) NewBatch() database.Batch {
	return &batch{db: db}
}

func (db *Database) NewIterator() database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, nil)
}

func (db *Database) NewIteratorWithStart(start []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(start, nil)
}

func (db *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, prefix)
}

// NewIteratorWithStartAndPrefix snapshots the matching entries, so writes
// made after the iterator is created are not observed by it.
func (db *Database) NewIteratorWithStartAndPrefix(start, prefix []byte) database.Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return &database.IteratorError{
			Err: database.ErrClosed,
		}
	}

	from := start
	if bytes.Compare(prefix, from) > 0 {
		from = prefix
	}

	var entries []entry
	db.tree.AscendGreaterOrEqual(entry{key: from}, func(e entry) bool {
		if !bytes.HasPrefix(e.key, prefix) {
			return false
		}
		entries = append(entries, e)
		return true
	})
	return &iterator{entries: entries}
}

type batch struct {
	database.BatchOps

	db *Database
}

func (b *batch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()

	if b.db.closed {
		return database.ErrClosed
	}

	for _, op := range b.Ops {
		if op.Delete {
			b.db.tree.Delete(entry{key: op.Key})
			continue
		}
		b.db.tree.ReplaceOrInsert(entry{
			key:   op.Key,
			value: op.Value,
		})
	}
	return nil
}

type iterator struct {
	initialized bool
	entries     []entry
}

func (it *iterator) Next() bool {
	switch {
	case !it.initialized:
		it.initialized = true
	case len(it.entries) > 0:
		it.entries = it.entries[1:]
	}
	return len(it.entries) > 0
}

func (*iterator) Error() error {
	return nil
}

func (it *iterator) Key() []byte {
	if len(it.entries) > 0 {
		return slices.Clone(it.entries[0].key)
	}
	return nil
}

func (it *iterator) Value() []byte {
	if len(it.entries) > 0 {
		return slices.Clone(it.entries[0].value)
	}
	return nil
}

func (it *iterator) Release() {
	it.entries = nil
}
