package testing

import (
	"crypto/rand"
	mathrand "math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateRandomPayload returns `size` bytes of random data. It is guaranteed to
// either return a valid slice or fail the test and abort.
func CreateRandomPayload(size uint, t *testing.T) []byte {
	payload := make([]byte, size)

	_, err := rand.Read(payload)
	require.NoErrorf(t, err, "failed to initialize %d random bytes", size)
	return payload
}

// CreateRunPayload returns `size` bytes made up of runs of random bytes with
// random lengths between 1 and `maxRunLength` inclusive. The final run is
// truncated if needed. The same seed always gives the same payload.
//
// Adjacent runs may use the same byte value, in which case they merge into a
// single longer run.
func CreateRunPayload(size uint, maxRunLength int, seed int64, t *testing.T) []byte {
	require.Greater(t, maxRunLength, 0, "maximum run length must be positive")

	generator := mathrand.New(mathrand.NewSource(seed))
	payload := make([]byte, 0, size)
	for uint(len(payload)) < size {
		value := byte(generator.Intn(256))
		runLength := 1 + generator.Intn(maxRunLength)
		for i := 0; i < runLength && uint(len(payload)) < size; i++ {
			payload = append(payload, value)
		}
	}
	return payload
}
