// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blaze

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/blazesync/blaze/blockwitness"
	"github.com/ava-labs/blazesync/blaze/nullifier"
	"github.com/ava-labs/blazesync/blaze/syncstatus"
	"github.com/ava-labs/blazesync/config"
	"github.com/ava-labs/blazesync/database/factory"
	"github.com/ava-labs/blazesync/database/leveldb"
	"github.com/ava-labs/blazesync/database/memdb"
	"github.com/ava-labs/blazesync/ids"
	"github.com/ava-labs/blazesync/utils/logging"
)

var (
	errTest = errors.New("non-nil error")

	testConfig = config.LightClientConfig{
		ChainName:    config.RegtestName,
		BatchSize:    10,
		AnchorOffset: 4,
	}
)

func newTestSyncData(t *testing.T) *SyncData {
	s, err := New(testConfig, logging.NoLog{}, memdb.New(), prometheus.NewRegistry())
	require.NoError(t, err)
	return s
}

func newMockedSyncData(t *testing.T) (*SyncData, *MockNullifierCollector, *MockBlockFetcher) {
	ctrl := gomock.NewController(t)
	nullifiers := NewMockNullifierCollector(ctrl)
	blocks := NewMockBlockFetcher(ctrl)

	s, err := newSyncData(logging.NoLog{}, syncstatus.NewShared(), nullifiers, blocks, prometheus.NewRegistry())
	require.NoError(t, err)
	return s, nullifiers, blocks
}

func requireSession(t *testing.T, status syncstatus.Status, syncID, start, end uint64, inProgress bool) {
	t.Helper()

	require.Equal(t, syncID, status.SyncID)
	require.Equal(t, start, status.StartBlock)
	require.Equal(t, end, status.EndBlock)
	require.Equal(t, inProgress, status.InProgress)
}

func TestNewStartsFinished(t *testing.T) {
	require := require.New(t)

	s := newTestSyncData(t)
	status := s.Status()
	require.Equal(syncstatus.Default(), status)
	require.Zero(status.SyncID)
	require.True(status.Finished())
	require.Equal(status, s.SharedStatus().Get())
}

func TestSessionLifecycle(t *testing.T) {
	require := require.New(t)

	s := newTestSyncData(t)
	ctx := context.Background()

	require.NoError(s.SetupForSync(ctx, 100, 50, nil))
	requireSession(t, s.Status(), 1, 100, 50, true)
	require.Equal(uint64(51), s.Status().BlocksTotal)

	require.NoError(s.Finish(ctx))
	requireSession(t, s.Status(), 1, 100, 50, false)

	// Finishing twice is the same as finishing once.
	finished := s.Status()
	require.NoError(s.Finish(ctx))
	require.Equal(finished, s.Status())
	require.Equal(float64(1), testutil.ToFloat64(s.metrics.finished))

	require.NoError(s.SetupForSync(ctx, 200, 150, nil))
	requireSession(t, s.Status(), 2, 200, 150, true)

	require.Equal(float64(2), testutil.ToFloat64(s.metrics.started))
	require.Equal(float64(2), testutil.ToFloat64(s.metrics.syncID))
	require.Equal(float64(1), testutil.ToFloat64(s.metrics.inProgress))
	require.Zero(testutil.ToFloat64(s.metrics.overwritten))
}

func TestSetupForSyncSingleHeight(t *testing.T) {
	s := newTestSyncData(t)
	require.NoError(t, s.SetupForSync(context.Background(), 7, 7, nil))
	requireSession(t, s.Status(), 1, 7, 7, true)
	require.Equal(t, uint64(1), s.Status().BlocksTotal)
}

func TestSetupForSyncInvalidRange(t *testing.T) {
	tests := []struct {
		name  string
		start uint64
		end   uint64
	}{
		{
			name:  "ascending",
			start: 50,
			end:   100,
		},
		{
			name:  "off by one",
			start: 9,
			end:   10,
		},
		{
			name:  "from zero",
			start: 0,
			end:   1,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			// Neither collaborator may be touched.
			s, _, _ := newMockedSyncData(t)
			before := s.Status()

			err := s.SetupForSync(context.Background(), test.start, test.end, nil)
			require.ErrorIs(err, ErrInvalidRange)
			require.Equal(before, s.Status())
			require.Zero(testutil.ToFloat64(s.metrics.started))
		})
	}
}

func TestSetupForSyncInvalidRangeKeepsSession(t *testing.T) {
	require := require.New(t)

	s := newTestSyncData(t)
	require.NoError(s.SetupForSync(context.Background(), 100, 50, nil))
	before := s.Status()

	err := s.SetupForSync(context.Background(), 10, 20, nil)
	require.ErrorIs(err, ErrInvalidRange)
	require.Equal(before, s.Status())
}

func TestSetupForSyncOrder(t *testing.T) {
	require := require.New(t)

	s, nullifiers, blocks := newMockedSyncData(t)
	existing := []blockwitness.BlockData{
		{Height: 49, Hash: ids.GenerateTestID()},
	}

	ctx := context.Background()
	gomock.InOrder(
		nullifiers.EXPECT().SetupSync(ctx).Return(nil),
		blocks.EXPECT().SetupSync(ctx, existing).Return(nil),
	)
	require.NoError(s.SetupForSync(ctx, 100, 50, existing))

	nullifiers.EXPECT().Finish(ctx).Return(nil)
	require.NoError(s.Finish(ctx))
}

func TestSetupForSyncCollaboratorErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(ctx context.Context, nullifiers *MockNullifierCollector, blocks *MockBlockFetcher)
	}{
		{
			name: "nullifier collector fails",
			setup: func(ctx context.Context, nullifiers *MockNullifierCollector, _ *MockBlockFetcher) {
				nullifiers.EXPECT().SetupSync(ctx).Return(errTest)
			},
		},
		{
			name: "block fetcher fails",
			setup: func(ctx context.Context, nullifiers *MockNullifierCollector, blocks *MockBlockFetcher) {
				gomock.InOrder(
					nullifiers.EXPECT().SetupSync(ctx).Return(nil),
					blocks.EXPECT().SetupSync(ctx, gomock.Any()).Return(errTest),
				)
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			s, nullifiers, blocks := newMockedSyncData(t)
			ctx := context.Background()
			test.setup(ctx, nullifiers, blocks)

			err := s.SetupForSync(ctx, 100, 50, nil)
			require.ErrorIs(err, errTest)

			// The new session is not rolled back.
			requireSession(t, s.Status(), 1, 100, 50, true)
		})
	}
}

func TestFinishCollectorError(t *testing.T) {
	require := require.New(t)

	s, nullifiers, blocks := newMockedSyncData(t)
	ctx := context.Background()

	nullifiers.EXPECT().SetupSync(ctx).Return(nil)
	blocks.EXPECT().SetupSync(ctx, gomock.Any()).Return(nil)
	require.NoError(s.SetupForSync(ctx, 100, 50, nil))

	nullifiers.EXPECT().Finish(ctx).Return(errTest)
	require.ErrorIs(s.Finish(ctx), errTest)
	requireSession(t, s.Status(), 1, 100, 50, true)

	nullifiers.EXPECT().Finish(ctx).Return(nil)
	require.NoError(s.Finish(ctx))
	requireSession(t, s.Status(), 1, 100, 50, false)
}

func TestSetupForSyncOverwritesActiveSession(t *testing.T) {
	require := require.New(t)

	s := newTestSyncData(t)
	ctx := context.Background()

	require.NoError(s.SetupForSync(ctx, 100, 50, nil))
	require.NoError(s.SetupForSync(ctx, 300, 250, nil))
	requireSession(t, s.Status(), 2, 300, 250, true)
	require.Equal(float64(1), testutil.ToFloat64(s.metrics.overwritten))

	require.NoError(s.Finish(ctx))
	require.NoError(s.SetupForSync(ctx, 400, 350, nil))
	require.Equal(float64(1), testutil.ToFloat64(s.metrics.overwritten))
}

func TestSetupForSyncResetsProgress(t *testing.T) {
	require := require.New(t)

	s := newTestSyncData(t)
	ctx := context.Background()

	require.NoError(s.SetupForSync(ctx, 100, 50, nil))
	syncID := s.Status().SyncID
	require.True(s.SharedStatus().AddBlocksDone(syncID, 10))
	require.True(s.SharedStatus().AddTrialDecryptions(syncID, 5))
	s.SharedStatus().Fail(syncID, errTest)
	require.Equal(errTest.Error(), s.Status().LastError)

	require.NoError(s.SetupForSync(ctx, 100, 50, nil))
	status := s.Status()
	require.Zero(status.BlocksDone)
	require.Zero(status.TrialDecryptionsDone)
	require.Empty(status.LastError)
}

func TestSyncSession(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	s, err := New(testConfig, logging.NoLog{}, db, prometheus.NewRegistry())
	require.NoError(err)
	ctx := context.Background()

	require.NoError(s.SetupForSync(ctx, 20, 11, nil))
	syncID := s.Status().SyncID

	fetcher, ok := s.Blocks().(*blockwitness.Fetcher)
	require.True(ok)
	collector, ok := s.Nullifiers().(*nullifier.Data)
	require.True(ok)

	prevHash := ids.GenerateTestID()
	for height := uint64(11); height <= 20; height++ {
		blk := blockwitness.BlockData{
			Height:   height,
			Hash:     ids.GenerateTestID(),
			PrevHash: prevHash,
		}
		require.NoError(fetcher.AddBlock(ctx, syncID, blk))
		prevHash = blk.Hash
	}
	require.NoError(fetcher.Verify(ctx))
	require.Equal(uint64(10), s.Status().BlocksDone)
	require.Equal(uint64(16), fetcher.AnchorHeight())

	spent := ids.GenerateTestID()
	collector.Observe(spent, ids.GenerateTestID(), 15)

	require.NoError(s.Finish(ctx))
	require.True(s.Status().Finished())
	require.Zero(collector.Len())

	// A finished session no longer accepts blocks.
	err = fetcher.AddBlock(ctx, syncID, blockwitness.BlockData{Height: 12})
	require.ErrorIs(err, blockwitness.ErrSessionFinished)

	// The spend was flushed to the database.
	reopened, err := nullifier.New(logging.NoLog{}, db, prometheus.NewRegistry())
	require.NoError(err)
	spend, ok, err := reopened.Lookup(spent)
	require.NoError(err)
	require.True(ok)
	require.Equal(uint64(15), spend.Height)
}

func TestNewDuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := New(testConfig, logging.NoLog{}, memdb.New(), registry)
	require.NoError(t, err)

	_, err = New(testConfig, logging.NoLog{}, memdb.New(), registry)
	require.Error(t, err)
}

func TestConcurrentStatusReaders(t *testing.T) {
	const (
		numSessions = 200
		numReaders  = 4
	)

	s := newTestSyncData(t)
	ctx := context.Background()

	done := make(chan struct{})
	var eg errgroup.Group
	for i := 0; i < numReaders; i++ {
		eg.Go(func() error {
			for {
				select {
				case <-done:
					return nil
				default:
				}

				// Session n always covers [10n, 10n+100].
				status := s.Status()
				if status.SyncID == 0 {
					continue
				}
				if status.StartBlock != 10*status.SyncID+100 || status.EndBlock != 10*status.SyncID {
					return errors.New("observed a torn status")
				}
			}
		})
	}

	for n := uint64(1); n <= numSessions; n++ {
		require.NoError(t, s.SetupForSync(ctx, 10*n+100, 10*n, nil))
		if n%2 == 0 {
			require.NoError(t, s.Finish(ctx))
		}
	}
	close(done)
	require.NoError(t, eg.Wait())
	requireSession(t, s.Status(), numSessions, 10*numSessions+100, 10*numSessions, false)
}

func TestBlocksOutliveProcess(t *testing.T) {
	require := require.New(t)

	dbConfig := factory.DatabaseConfig{
		Name: leveldb.Name,
		Path: t.TempDir(),
	}
	db, err := factory.NewDatabase(dbConfig, logging.NoLog{})
	require.NoError(err)

	s, err := New(testConfig, logging.NoLog{}, db, prometheus.NewRegistry())
	require.NoError(err)
	ctx := context.Background()

	require.NoError(s.SetupForSync(ctx, 5, 1, nil))
	fetcher := s.Blocks().(*blockwitness.Fetcher)
	blk := blockwitness.BlockData{
		Height:       3,
		Hash:         ids.GenerateTestID(),
		TreeState:    []byte("tree"),
		CompactBlock: []byte("block"),
	}
	require.NoError(fetcher.AddBlock(ctx, s.Status().SyncID, blk))
	require.NoError(s.Finish(ctx))
	require.NoError(db.Close())

	db, err = factory.NewDatabase(dbConfig, logging.NoLog{})
	require.NoError(err)
	defer db.Close()

	s, err = New(testConfig, logging.NoLog{}, db, prometheus.NewRegistry())
	require.NoError(err)
	got, err := s.Blocks().(*blockwitness.Fetcher).GetBlock(3)
	require.NoError(err)
	require.Equal(blk, got)
}
