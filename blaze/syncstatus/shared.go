// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package syncstatus

import "sync"

// Shared is the lock-guarded handle to the current Status. The coordinator
// and the block fetcher hold the same *Shared; workers read and update the
// session through it. The guarded value never escapes: every accessor
// returns a copy, and workers can only bump the progress counters of the
// session they belong to.
type Shared struct {
	lock   sync.RWMutex
	status Status
}

// NewShared returns a handle holding Default().
func NewShared() *Shared {
	return &Shared{
		status: Default(),
	}
}

// Get returns a snapshot of the current status.
func (s *Shared) Get() Status {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.status
}

// StartSession replaces the whole status with a new session whose SyncID is
// one more than the previous one. Both the previous and the new status are
// returned.
func (s *Shared) StartSession(start, end uint64) (Status, Status) {
	s.lock.Lock()
	defer s.lock.Unlock()

	prev := s.status
	s.status = NewSession(prev.SyncID+1, start, end)
	return prev, s.status
}

// Finish marks the current session as complete. The returned bool reports
// whether the session was still in progress.
func (s *Shared) Finish() (Status, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	wasInProgress := s.status.InProgress
	s.status.Finish()
	return s.status, wasInProgress
}

// AddBlocksDone records [n] more fetched blocks for session [syncID]. Nothing
// is recorded, and false is returned, if [syncID] is not the current session.
func (s *Shared) AddBlocksDone(syncID, n uint64) bool {
	return s.add(syncID, n, &s.status.BlocksDone)
}

// AddTrialDecryptions records [n] more trial decrypted blocks for session
// [syncID].
func (s *Shared) AddTrialDecryptions(syncID, n uint64) bool {
	return s.add(syncID, n, &s.status.TrialDecryptionsDone)
}

// AddTxnScans records [n] more blocks whose transactions were scanned for
// session [syncID].
func (s *Shared) AddTxnScans(syncID, n uint64) bool {
	return s.add(syncID, n, &s.status.TxnScanDone)
}

func (s *Shared) add(syncID, n uint64, counter *uint64) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.status.SyncID != syncID {
		return false
	}
	*counter += n
	return true
}

// Fail records [err] as the last error of session [syncID]. Errors of other
// sessions are dropped.
func (s *Shared) Fail(syncID uint64, err error) {
	if err == nil {
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.status.SyncID == syncID {
		s.status.LastError = err.Error()
	}
}
