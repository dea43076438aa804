// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package nullifier

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/blazesync/database"
	"github.com/ava-labs/blazesync/ids"
	"github.com/ava-labs/blazesync/utils/logging"
)

const spendLen = ids.IDLen + database.Uint64Size

var (
	spendPrefix = []byte{0x10}

	errInvalidSpend = errors.New("invalid spend encoding")
)

// Spend records where a nullifier was revealed on chain.
type Spend struct {
	TxID   ids.ID `json:"txID"`
	Height uint64 `json:"height"`
}

// Data collects the spent nullifiers observed while scanning blocks. During a
// session observations are held in memory; Finish flushes them to the
// database in a single batch.
type Data struct {
	log     logging.Logger
	db      database.Database
	metrics *metrics

	lock    sync.RWMutex
	pending map[ids.ID]Spend
}

func New(log logging.Logger, db database.Database, registerer prometheus.Registerer) (*Data, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Data{
		log:     log,
		db:      db,
		metrics: m,
		pending: make(map[ids.ID]Spend),
	}, nil
}

// SetupSync prepares the collector for a new session, dropping anything
// observed by a session that was never finished.
func (d *Data) SetupSync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	if len(d.pending) > 0 {
		d.log.Debug("dropping unflushed nullifiers",
			zap.Int("numNullifiers", len(d.pending)),
		)
	}
	d.pending = make(map[ids.ID]Spend)
	d.metrics.pending.Set(0)
	return nil
}

// Observe records that [nullifier] was spent by [txID] at [height]. The first
// observation of a nullifier wins.
func (d *Data) Observe(nullifier, txID ids.ID, height uint64) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if _, ok := d.pending[nullifier]; ok {
		return
	}
	d.pending[nullifier] = Spend{
		TxID:   txID,
		Height: height,
	}
	d.metrics.observed.Inc()
	d.metrics.pending.Inc()
}

// Lookup returns the spend of [nullifier], checking the current session
// before the database.
func (d *Data) Lookup(nullifier ids.ID) (Spend, bool, error) {
	d.lock.RLock()
	spend, ok := d.pending[nullifier]
	d.lock.RUnlock()
	if ok {
		return spend, true, nil
	}

	stored, err := database.WithDefault(getSpend, d.db, spendKey(nullifier), nil)
	if err != nil || stored == nil {
		return Spend{}, false, err
	}
	return *stored, true, nil
}

func getSpend(db database.KeyValueReader, key []byte) (*Spend, error) {
	b, err := db.Get(key)
	if err != nil {
		return nil, err
	}
	spend, err := parseSpend(b)
	if err != nil {
		return nil, err
	}
	return &spend, nil
}

// Pending returns the nullifiers observed in the current session that have
// not been flushed yet, sorted.
func (d *Data) Pending() []ids.ID {
	d.lock.RLock()
	defer d.lock.RUnlock()

	nullifiers := maps.Keys(d.pending)
	slices.SortFunc(nullifiers, ids.ID.Compare)
	return nullifiers
}

// Len returns the number of observations waiting to be flushed.
func (d *Data) Len() int {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return len(d.pending)
}

// Finish writes the session's observations to the database. If the write
// fails the observations are kept so a later Finish can retry.
func (d *Data) Finish(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	if len(d.pending) == 0 {
		return nil
	}

	batch := d.db.NewBatch()
	for nullifier, spend := range d.pending {
		if err := batch.Put(spendKey(nullifier), packSpend(spend)); err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to flush %d nullifiers: %w", len(d.pending), err)
	}

	d.log.Debug("flushed nullifiers",
		zap.Int("numNullifiers", len(d.pending)),
	)
	d.metrics.flushed.Add(float64(len(d.pending)))
	d.metrics.pending.Set(0)
	d.pending = make(map[ids.ID]Spend)
	return nil
}

func spendKey(nullifier ids.ID) []byte {
	key := make([]byte, 0, len(spendPrefix)+ids.IDLen)
	key = append(key, spendPrefix...)
	return append(key, nullifier[:]...)
}

func packSpend(spend Spend) []byte {
	b := make([]byte, 0, spendLen)
	b = append(b, spend.TxID[:]...)
	return append(b, database.PackUInt64(spend.Height)...)
}

func parseSpend(b []byte) (Spend, error) {
	if len(b) != spendLen {
		return Spend{}, fmt.Errorf("%w: expected %d bytes but got %d", errInvalidSpend, spendLen, len(b))
	}
	txID, err := ids.ToID(b[:ids.IDLen])
	if err != nil {
		return Spend{}, err
	}
	height, err := database.ParseUInt64(b[ids.IDLen:])
	if err != nil {
		return Spend{}, err
	}
	return Spend{
		TxID:   txID,
		Height: height,
	}, nil
}
