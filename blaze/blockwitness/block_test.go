// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blockwitness

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/blazesync/ids"
)

func TestParseBlock(t *testing.T) {
	tests := []struct {
		name string
		blk  BlockData
	}{
		{
			name: "empty payloads",
			blk: BlockData{
				Height:   1,
				Hash:     ids.GenerateTestID(),
				PrevHash: ids.GenerateTestID(),
			},
		},
		{
			name: "tree state only",
			blk: BlockData{
				Height:    2,
				Hash:      ids.GenerateTestID(),
				TreeState: []byte{1, 2, 3},
			},
		},
		{
			name: "compact block only",
			blk: BlockData{
				Height:       3,
				Hash:         ids.GenerateTestID(),
				CompactBlock: []byte{4, 5},
			},
		},
		{
			name: "both payloads",
			blk: BlockData{
				Height:       4,
				Hash:         ids.GenerateTestID(),
				PrevHash:     ids.GenerateTestID(),
				TreeState:    []byte("tree"),
				CompactBlock: []byte("block"),
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			b := packBlock(test.blk)
			require.Len(b, blockHeaderLen+len(test.blk.TreeState)+len(test.blk.CompactBlock))

			parsed, err := parseBlock(b)
			require.NoError(err)
			require.Equal(test.blk, parsed)
		})
	}
}

func TestParseBlockInvalid(t *testing.T) {
	tests := []struct {
		name  string
		bytes []byte
	}{
		{
			name:  "too short",
			bytes: make([]byte, blockHeaderLen-1),
		},
		{
			name: "tree state overflows",
			bytes: func() []byte {
				b := packBlock(BlockData{
					TreeState: []byte{1, 2, 3},
				})
				return b[:len(b)-1]
			}(),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := parseBlock(test.bytes)
			require.ErrorIs(t, err, errInvalidBlock)
		})
	}
}

func TestBlockKeyOrdering(t *testing.T) {
	require := require.New(t)

	require.Less(string(blockKey(9)), string(blockKey(10)))
	require.Less(string(blockKey(255)), string(blockKey(256)))
}
