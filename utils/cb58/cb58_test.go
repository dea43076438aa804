// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cb58

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{name: "nil", in: nil},
		{name: "single byte", in: []byte{0x7f}},
		{name: "32 bytes", in: make([]byte, 32)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			str, err := Encode(test.in)
			require.NoError(err)

			out, err := Decode(str)
			require.NoError(err)
			require.Len(out, len(test.in))
			if len(test.in) > 0 {
				require.Equal(test.in, out)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	require := require.New(t)

	_, err := Decode("0OIl")
	require.ErrorIs(err, ErrBase58Decoding)

	_, err = Decode("1")
	require.ErrorIs(err, ErrMissingChecksum)

	_, err = Decode("11111111")
	require.ErrorIs(err, ErrBadChecksum)
}
