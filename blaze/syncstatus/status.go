// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package syncstatus

import (
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// Status describes the current, or most recently completed, sync session.
//
// A Status is a plain value: copying it produces an independent snapshot.
type Status struct {
	// SyncID identifies the session. It starts at 0 and is bumped by exactly
	// one every time a new session is started.
	SyncID uint64 `json:"syncID"`

	// The session scans from StartBlock down to EndBlock, both inclusive.
	// StartBlock >= EndBlock whenever InProgress is set.
	StartBlock uint64 `json:"startBlock"`
	EndBlock   uint64 `json:"endBlock"`

	// InProgress is false once the session has been finished.
	InProgress bool `json:"inProgress"`

	BlocksTotal          uint64 `json:"blocksTotal"`
	BlocksDone           uint64 `json:"blocksDone"`
	TrialDecryptionsDone uint64 `json:"trialDecryptionsDone"`
	TxnScanDone          uint64 `json:"txnScanDone"`

	LastError string `json:"lastError,omitempty"`
}

// Default returns the status of a coordinator that never ran a session.
func Default() Status {
	return Status{}
}

// NewSession returns the status of a freshly started session. The caller
// guarantees start >= end.
func NewSession(syncID, start, end uint64) Status {
	return Status{
		SyncID:      syncID,
		StartBlock:  start,
		EndBlock:    end,
		InProgress:  true,
		BlocksTotal: numBlocks(start, end),
	}
}

// numBlocks returns the number of heights in [end, start], saturating at
// MaxUint64 for the full range.
func numBlocks(start, end uint64) uint64 {
	if span := start - end; span < math.MaxUint64 {
		return span + 1
	}
	return math.MaxUint64
}

// Finish marks the session as complete. Calling it more than once has no
// additional effect.
func (s *Status) Finish() {
	s.InProgress = false
}

// Finished reports whether no session is currently in progress.
func (s Status) Finished() bool {
	return !s.InProgress
}

// Contains reports whether [height] is in the session's range.
func (s Status) Contains(height uint64) bool {
	return s.InProgress && s.EndBlock <= height && height <= s.StartBlock
}

// Percent returns how far along the session is, from 0 to 100. Every block
// goes through fetching, trial decryption and transaction scanning, so each
// stage contributes a third.
func (s Status) Percent() uint64 {
	return (percent(s.BlocksDone, s.BlocksTotal) +
		percent(s.TrialDecryptionsDone, s.BlocksTotal) +
		percent(s.TxnScanDone, s.BlocksTotal)) / 3
}

func (s Status) String() string {
	var sb strings.Builder
	if s.InProgress {
		fmt.Fprintf(&sb, "id: %d, blocks: %d%% (%d), decryptions: %d%% (%d), tx_scan: %d%% (%d)",
			s.SyncID,
			percent(s.BlocksDone, s.BlocksTotal), s.BlocksDone,
			percent(s.TrialDecryptionsDone, s.BlocksTotal), s.TrialDecryptionsDone,
			percent(s.TxnScanDone, s.BlocksTotal), s.TxnScanDone,
		)
	} else {
		fmt.Fprintf(&sb, "id: %d, in_progress: false", s.SyncID)
	}
	if s.LastError != "" {
		fmt.Fprintf(&sb, ", errors: %s", s.LastError)
	}
	return sb.String()
}

func percent(num, total uint64) uint64 {
	if total == 0 {
		return 0
	}
	// The 128 bit product keeps huge ranges from overflowing. The quotient
	// is at most 100, so Div64 can't panic.
	hi, lo := bits.Mul64(min(num, total), 100)
	quo, _ := bits.Div64(hi, lo, total)
	return quo
}
