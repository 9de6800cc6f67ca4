package testing

import (
	"io"
	"testing"

	"github.com/dargueta/rle3/utilities/compression"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// LoadTransformed takes a transformed payload and returns a stream to access
// the original data.
//
//   - Writes to the stream do not affect `encoded`.
//   - While the stream can be written to, its size is fixed to `expectedSize`.
//     Attempting to write past the end of this buffer will trigger an error.
func LoadTransformed(t *testing.T, encoded []byte, expectedSize uint) io.ReadWriteSeeker {
	require.GreaterOrEqual(
		t, len(encoded), compression.HeaderSize, "transformed payload has no header")

	original, err := compression.InvertBytes(encoded)
	require.NoError(t, err)
	require.EqualValues(t, expectedSize, len(original), "inverted payload is wrong size")
	return bytesextra.NewReadWriteSeeker(original)
}

// MustTransform transforms `raw`, failing the test if anything goes wrong.
func MustTransform(t *testing.T, raw []byte) []byte {
	encoded, err := compression.TransformBytes(raw)
	require.NoError(t, err, "failed to transform %d bytes", len(raw))
	return encoded
}
