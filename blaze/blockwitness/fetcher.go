// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blockwitness

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/blazesync/blaze/interval"
	"github.com/ava-labs/blazesync/blaze/syncstatus"
	"github.com/ava-labs/blazesync/config"
	"github.com/ava-labs/blazesync/database"
	"github.com/ava-labs/blazesync/database/memdb"
	"github.com/ava-labs/blazesync/utils/logging"
)

var (
	ErrStaleSession    = errors.New("block belongs to a stale sync session")
	ErrSessionFinished = errors.New("sync session is finished")
	ErrOutOfRange      = errors.New("height is outside of the sync range")
	ErrChainMismatch   = errors.New("block does not build on its parent")

	errExistingBlocksOrder = errors.New("existing blocks must be ordered by descending height")
)

// Fetcher keeps track of the blocks, and the commitment tree states that
// witnesses are built from, of the current sync session. Workers hand it the
// blocks they download with AddBlock; MissingRanges and NextBatch tell them
// what is left to download.
type Fetcher struct {
	config  config.LightClientConfig
	log     logging.Logger
	status  *syncstatus.Shared
	db      database.Database
	metrics *metrics

	// lock guards the session the fetcher is set up for. AddBlock holds it
	// for reading while it persists a block, so SetupSync waits for in-flight
	// blocks before it resets the session.
	lock sync.RWMutex
	// sessionID is the SyncID the fetcher was last set up for.
	sessionID uint64
	// existing are the blocks handed over by the caller at setup, ordered by
	// descending height.
	existing []BlockData

	// knownLock guards the contents of known. It is only taken while holding
	// lock.
	knownLock sync.Mutex
	// known tracks the heights of the current session that have a block. It
	// is mirrored into knownDB and reset at every setup.
	known   *interval.Tree
	knownDB database.Database
}

func New(
	config config.LightClientConfig,
	log logging.Logger,
	status *syncstatus.Shared,
	db database.Database,
	registerer prometheus.Registerer,
) (*Fetcher, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	knownDB := memdb.New()
	known, err := interval.NewTree(knownDB)
	if err != nil {
		return nil, err
	}
	return &Fetcher{
		config:  config,
		log:     log,
		status:  status,
		db:      db,
		metrics: m,
		known:   known,
		knownDB: knownDB,
	}, nil
}

// SetupSync prepares the fetcher for the session currently held by the shared
// status. [existing] must be ordered by descending height. Heights of
// [existing] that fall within the session's range are treated as already
// fetched.
func (f *Fetcher) SetupSync(ctx context.Context, existing []BlockData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for i := 1; i < len(existing); i++ {
		if existing[i].Height > existing[i-1].Height {
			return fmt.Errorf("%w: height %d follows height %d",
				errExistingBlocksOrder,
				existing[i].Height,
				existing[i-1].Height,
			)
		}
	}

	f.lock.Lock()
	defer f.lock.Unlock()

	// Blocks of the previous session are rejected from here on, even if the
	// reset below fails.
	status := f.status.Get()
	f.sessionID = 0
	f.existing = nil
	if err := f.known.Reset(); err != nil {
		return fmt.Errorf("failed to reset known heights: %w", err)
	}
	for _, blk := range existing {
		if !status.Contains(blk.Height) {
			continue
		}
		if err := f.known.Add(blk.Height); err != nil {
			return err
		}
	}

	f.sessionID = status.SyncID
	f.existing = slices.Clone(existing)

	numKnown := f.known.Len()
	if numKnown > 0 {
		f.status.AddBlocksDone(status.SyncID, numKnown)
	}
	f.metrics.existing.Set(float64(len(existing)))
	f.metrics.known.Set(float64(numKnown))

	f.log.Debug("set up block fetcher",
		zap.Uint64("syncID", status.SyncID),
		zap.Uint64("startBlock", status.StartBlock),
		zap.Uint64("endBlock", status.EndBlock),
		zap.Int("numExisting", len(existing)),
		zap.Uint64("numKnown", numKnown),
	)
	return nil
}

// AddBlock stores [blk] fetched by a worker for session [syncID]. Adding a
// block for a height that is already known is a no-op.
func (f *Fetcher) AddBlock(ctx context.Context, syncID uint64, blk BlockData) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	status := f.status.Get()
	switch {
	case status.SyncID != syncID:
		return fmt.Errorf("%w: got %d but the current session is %d", ErrStaleSession, syncID, status.SyncID)
	case !status.InProgress:
		return fmt.Errorf("%w: session %d", ErrSessionFinished, syncID)
	case !status.Contains(blk.Height):
		return fmt.Errorf("%w: height %d is not in [%d, %d]",
			ErrOutOfRange,
			blk.Height,
			status.EndBlock,
			status.StartBlock,
		)
	}

	f.lock.RLock()
	defer f.lock.RUnlock()

	if f.sessionID != syncID {
		return fmt.Errorf("%w: fetcher is set up for session %d", ErrStaleSession, f.sessionID)
	}
	if f.isKnown(blk.Height) {
		f.metrics.duplicates.Inc()
		return nil
	}

	// Blocks are persisted without holding knownLock so workers can write in
	// parallel. Another worker may persist the same height meanwhile, which
	// is caught below.
	if err := f.db.Put(blockKey(blk.Height), packBlock(blk)); err != nil {
		err = fmt.Errorf("failed to persist block %d: %w", blk.Height, err)
		f.status.Fail(syncID, err)
		return err
	}

	f.knownLock.Lock()
	defer f.knownLock.Unlock()

	if f.known.Contains(blk.Height) {
		f.metrics.duplicates.Inc()
		return nil
	}
	if err := f.known.Add(blk.Height); err != nil {
		return err
	}

	f.status.AddBlocksDone(syncID, 1)
	f.metrics.fetched.Inc()
	f.metrics.known.Set(float64(f.known.Len()))

	f.log.Verbo("added block",
		zap.Uint64("syncID", syncID),
		zap.Uint64("height", blk.Height),
		zap.Stringer("hash", blk.Hash),
	)
	return nil
}

// GetBlock returns the block at [height], looking at the blocks handed over
// at setup before the database. database.ErrNotFound is returned if the
// block is unknown.
func (f *Fetcher) GetBlock(height uint64) (BlockData, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	return f.getBlock(height)
}

func (f *Fetcher) getBlock(height uint64) (BlockData, error) {
	if blk, ok := f.existingBlock(height); ok {
		return blk, nil
	}

	b, err := f.db.Get(blockKey(height))
	if err != nil {
		return BlockData{}, err
	}
	return parseBlock(b)
}

func (f *Fetcher) isKnown(height uint64) bool {
	f.knownLock.Lock()
	defer f.knownLock.Unlock()

	return f.known.Contains(height)
}

func (f *Fetcher) existingBlock(height uint64) (BlockData, bool) {
	i, found := slices.BinarySearchFunc(f.existing, height, func(blk BlockData, height uint64) int {
		switch {
		case blk.Height > height:
			return -1
		case blk.Height < height:
			return 1
		default:
			return 0
		}
	})
	if !found {
		return BlockData{}, false
	}
	return f.existing[i], true
}

// MissingRanges returns the heights of the current session that are not
// known yet, highest range first.
func (f *Fetcher) MissingRanges() ([]interval.Interval, error) {
	status := f.status.Get()
	if !status.InProgress {
		return nil, ErrSessionFinished
	}

	f.lock.RLock()
	defer f.lock.RUnlock()

	if f.sessionID != status.SyncID {
		return nil, fmt.Errorf("%w: fetcher is set up for session %d", ErrStaleSession, f.sessionID)
	}

	f.knownLock.Lock()
	defer f.knownLock.Unlock()

	return f.known.Missing(status.StartBlock, status.EndBlock), nil
}

// NextBatch returns the highest missing heights, at most BatchSize of them.
// false is returned once every height of the session is known.
func (f *Fetcher) NextBatch() (interval.Interval, bool, error) {
	missing, err := f.MissingRanges()
	if err != nil || len(missing) == 0 {
		return interval.Interval{}, false, err
	}

	batch := missing[0]
	if size := f.BatchSize(); size > 0 && batch.Len() > size {
		batch.LowerBound = batch.UpperBound - (size - 1)
	}
	return batch, true, nil
}

// Verify checks that every known block of the current session builds on the
// block below it, whenever that block is known as well.
func (f *Fetcher) Verify(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.lock.RLock()
	defer f.lock.RUnlock()

	f.knownLock.Lock()
	knownHeights := f.known.Flatten()
	f.knownLock.Unlock()

	for _, known := range knownHeights {
		child, err := f.getBlock(known.UpperBound)
		if err != nil {
			return err
		}
		for height := known.UpperBound; height > known.LowerBound; height-- {
			parent, err := f.getBlock(height - 1)
			if err != nil {
				return err
			}
			if err := checkParent(child, parent); err != nil {
				return err
			}
			child = parent
		}

		// The block below the lowest known height may have been handed over at
		// setup.
		if known.LowerBound == 0 {
			continue
		}
		if parent, ok := f.existingBlock(known.LowerBound - 1); ok {
			if err := checkParent(child, parent); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkParent(child, parent BlockData) error {
	if child.PrevHash == parent.Hash {
		return nil
	}
	return fmt.Errorf("%w: block %d expects parent %s but block %d is %s",
		ErrChainMismatch,
		child.Height,
		child.PrevHash,
		parent.Height,
		parent.Hash,
	)
}

// AnchorHeight returns the height whose tree state anchors spends created
// during the current session.
func (f *Fetcher) AnchorHeight() uint64 {
	status := f.status.Get()
	offset := min(f.config.AnchorOffset, status.StartBlock-status.EndBlock)
	return status.StartBlock - offset
}

// BatchSize is the maximum number of heights a worker should fetch at once.
func (f *Fetcher) BatchSize() uint64 {
	return f.config.BatchSize
}

// ExistingBlocks returns a copy of the blocks handed over at setup.
func (f *Fetcher) ExistingBlocks() []BlockData {
	f.lock.RLock()
	defer f.lock.RUnlock()

	return slices.Clone(f.existing)
}
