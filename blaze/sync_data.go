// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blaze

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/blazesync/blaze/blockwitness"
	"github.com/ava-labs/blazesync/blaze/nullifier"
	"github.com/ava-labs/blazesync/blaze/syncstatus"
	"github.com/ava-labs/blazesync/config"
	"github.com/ava-labs/blazesync/database"
	"github.com/ava-labs/blazesync/utils/logging"
)

// ErrInvalidRange is returned when a session is requested with a start height
// below its end height. Sessions always scan downwards.
var ErrInvalidRange = errors.New("sync range must not be ascending")

var (
	_ NullifierCollector = (*nullifier.Data)(nil)
	_ BlockFetcher       = (*blockwitness.Fetcher)(nil)
)

// NullifierCollector gathers the nullifiers spent during a session.
type NullifierCollector interface {
	SetupSync(ctx context.Context) error
	Finish(ctx context.Context) error
}

// BlockFetcher gathers the blocks and witnesses of a session.
type BlockFetcher interface {
	SetupSync(ctx context.Context, existing []blockwitness.BlockData) error
}

// SyncData coordinates the sync sessions of a light wallet. It owns the
// shared status and drives its collaborators through the start and the end
// of each session.
type SyncData struct {
	log     logging.Logger
	metrics *metrics

	status     *syncstatus.Shared
	nullifiers NullifierCollector
	blocks     BlockFetcher
}

// New returns a coordinator with no session started. The block fetcher is
// handed the same shared status as the coordinator.
func New(
	config config.LightClientConfig,
	log logging.Logger,
	db database.Database,
	registerer prometheus.Registerer,
) (*SyncData, error) {
	status := syncstatus.NewShared()
	nullifiers, err := nullifier.New(log, db, registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to create nullifier collector: %w", err)
	}
	blocks, err := blockwitness.New(config, log, status, db, registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to create block fetcher: %w", err)
	}
	return newSyncData(log, status, nullifiers, blocks, registerer)
}

func newSyncData(
	log logging.Logger,
	status *syncstatus.Shared,
	nullifiers NullifierCollector,
	blocks BlockFetcher,
	registerer prometheus.Registerer,
) (*SyncData, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &SyncData{
		log:        log,
		metrics:    m,
		status:     status,
		nullifiers: nullifiers,
		blocks:     blocks,
	}, nil
}

// SetupForSync starts a new session scanning from [start] down to [end]. The
// session gets the next SyncID, regardless of whether the previous session
// was finished. [existing] is handed to the block fetcher.
//
// If a collaborator fails, its error is returned and the new session is left
// in place.
func (s *SyncData) SetupForSync(
	ctx context.Context,
	start uint64,
	end uint64,
	existing []blockwitness.BlockData,
) error {
	if start < end {
		return fmt.Errorf("%w: start %d < end %d", ErrInvalidRange, start, end)
	}

	prev, next := s.status.StartSession(start, end)
	if prev.InProgress {
		s.log.Warn("overwriting unfinished sync session",
			zap.Uint64("syncID", prev.SyncID),
			zap.Uint64("startBlock", prev.StartBlock),
			zap.Uint64("endBlock", prev.EndBlock),
			zap.Uint64("blocksDone", prev.BlocksDone),
		)
		s.metrics.overwritten.Inc()
	}
	s.metrics.started.Inc()
	s.metrics.syncID.Set(float64(next.SyncID))
	s.metrics.inProgress.Set(1)

	s.log.Info("starting sync session",
		zap.Uint64("syncID", next.SyncID),
		zap.Uint64("startBlock", start),
		zap.Uint64("endBlock", end),
		zap.Int("numExisting", len(existing)),
	)

	if err := s.nullifiers.SetupSync(ctx); err != nil {
		return err
	}
	return s.blocks.SetupSync(ctx, existing)
}

// Finish flushes the nullifiers of the current session and marks it as
// finished. If the nullifiers can't be flushed the session is left running.
func (s *SyncData) Finish(ctx context.Context) error {
	if err := s.nullifiers.Finish(ctx); err != nil {
		return err
	}

	status, wasInProgress := s.status.Finish()
	s.metrics.inProgress.Set(0)
	if !wasInProgress {
		return nil
	}

	s.metrics.finished.Inc()
	s.log.Info("finished sync session",
		zap.Uint64("syncID", status.SyncID),
		zap.Uint64("blocksDone", status.BlocksDone),
		zap.Stringer("status", status),
	)
	return nil
}

// Status returns a snapshot of the current session.
func (s *SyncData) Status() syncstatus.Status {
	return s.status.Get()
}

// SharedStatus returns the handle workers use to report progress.
func (s *SyncData) SharedStatus() *syncstatus.Shared {
	return s.status
}

func (s *SyncData) Nullifiers() NullifierCollector {
	return s.nullifiers
}

func (s *SyncData) Blocks() BlockFetcher {
	return s.blocks
}
