// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blockwitness

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/blazesync/database"
	"github.com/ava-labs/blazesync/ids"
)

const (
	treeStateLenSize = 4
	blockHeaderLen   = database.Uint64Size + 2*ids.IDLen + treeStateLenSize
)

var (
	blockPrefix = []byte{0x20}

	errInvalidBlock = errors.New("invalid block encoding")
)

// BlockData is a compact block together with the commitment tree state after
// it was applied.
type BlockData struct {
	Height   uint64 `json:"height"`
	Hash     ids.ID `json:"hash"`
	PrevHash ids.ID `json:"prevHash"`

	// Serialized commitment tree state after this block. Witnesses of notes
	// received in later blocks are built on top of it.
	TreeState []byte `json:"treeState"`
	// Serialized compact block as served by the light wallet server.
	CompactBlock []byte `json:"compactBlock"`
}

func blockKey(height uint64) []byte {
	key := make([]byte, 0, len(blockPrefix)+database.Uint64Size)
	key = append(key, blockPrefix...)
	return append(key, database.PackUInt64(height)...)
}

// The layout is:
//   - height (8 bytes, big endian)
//   - hash (32 bytes)
//   - prev hash (32 bytes)
//   - tree state length (4 bytes, big endian)
//   - tree state
//   - compact block (the remaining bytes)
func packBlock(blk BlockData) []byte {
	b := make([]byte, blockHeaderLen, blockHeaderLen+len(blk.TreeState)+len(blk.CompactBlock))
	binary.BigEndian.PutUint64(b, blk.Height)
	copy(b[database.Uint64Size:], blk.Hash[:])
	copy(b[database.Uint64Size+ids.IDLen:], blk.PrevHash[:])
	binary.BigEndian.PutUint32(b[database.Uint64Size+2*ids.IDLen:], uint32(len(blk.TreeState)))
	b = append(b, blk.TreeState...)
	return append(b, blk.CompactBlock...)
}

func parseBlock(b []byte) (BlockData, error) {
	if len(b) < blockHeaderLen {
		return BlockData{}, fmt.Errorf("%w: expected at least %d bytes but got %d", errInvalidBlock, blockHeaderLen, len(b))
	}

	var (
		offset = database.Uint64Size
		blk    = BlockData{
			Height: binary.BigEndian.Uint64(b),
		}
	)
	copy(blk.Hash[:], b[offset:])
	offset += ids.IDLen
	copy(blk.PrevHash[:], b[offset:])
	offset += ids.IDLen

	treeStateLen := uint64(binary.BigEndian.Uint32(b[offset:]))
	offset += treeStateLenSize
	if treeStateLen > uint64(len(b)-offset) {
		return BlockData{}, fmt.Errorf("%w: tree state of %d bytes overflows %d remaining bytes", errInvalidBlock, treeStateLen, len(b)-offset)
	}

	end := offset + int(treeStateLen)
	if treeStateLen > 0 {
		blk.TreeState = b[offset:end:end]
	}
	if end < len(b) {
		blk.CompactBlock = b[end:]
	}
	return blk, nil
}
