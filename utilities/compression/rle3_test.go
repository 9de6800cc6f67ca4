package compression_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/dargueta/rle3"
	rtesting "github.com/dargueta/rle3/testing"
	c "github.com/dargueta/rle3/utilities/compression"
	"github.com/dargueta/rle3/utilities/varint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RLE3TestCase struct {
	Input    []byte
	Expected c.Channels
	Name     string
}

var rle3EncodeTestCases = []RLE3TestCase{
	{[]byte{}, c.Channels{}, "empty"},
	{[]byte{5}, c.Channels{Tokens: []byte{5}}, "single byte"},
	{[]byte{5, 5}, c.Channels{Tokens: []byte{5, 0}}, "run with two only"},
	{
		[]byte{5, 5, 5},
		c.Channels{Short: []byte{0}, Tokens: []byte{5, 0, 0}},
		"run of three",
	},
	{
		[]byte{5, 5, 5, 5},
		c.Channels{Short: []byte{1}, Tokens: []byte{5, 0, 0}},
		"run of four",
	},
	{[]byte{1, 2, 3, 4}, c.Channels{Tokens: []byte{1, 2, 3, 4}}, "no runs"},
	{[]byte{6, 1, 3, 0, 0}, c.Channels{Tokens: []byte{6, 2, 4, 3, 0}}, "two at end"},
	{
		[]byte{9, 5, 5, 5, 5, 5, 3, 7},
		c.Channels{Short: []byte{2}, Tokens: []byte{9, 6, 0, 0, 5, 8}},
		"short run",
	},
	{
		[]byte{9, 5, 5, 5, 5, 5, 5, 3, 3, 3, 3, 7, 2, 6},
		c.Channels{
			Short:  []byte{3, 1},
			Tokens: []byte{9, 6, 0, 0, 5, 0, 0, 8, 6, 8},
		},
		"adjacent runs",
	},
	{
		bytes.Repeat([]byte{8}, 257),
		c.Channels{Short: []byte{254}, Tokens: []byte{8, 0, 0}},
		"largest short count",
	},
	{
		bytes.Repeat([]byte{8}, 258),
		c.Channels{Short: []byte{255}, Continuation: []byte{1}, Tokens: []byte{8, 0, 0}},
		"smallest overflowed count",
	},
	{
		bytes.Repeat([]byte{0}, 385),
		c.Channels{
			Short:        []byte{255},
			Continuation: []byte{0x80, 0x01},
			Tokens:       []byte{0, 0, 0},
		},
		"two continuation groups",
	},
}

func TestEncodeRLE3__Basic(t *testing.T) {
	for _, test := range rle3EncodeTestCases {
		t.Run(
			test.Name,
			func(t *testing.T) {
				channels, _ := c.EncodeRLE3(test.Input)
				assert.EqualValues(t, len(test.Expected.Tokens), len(channels.Tokens))
				assert.True(
					t,
					bytes.Equal(test.Expected.Tokens, channels.Tokens),
					"tokens are wrong: expected %v, got %v",
					test.Expected.Tokens,
					channels.Tokens,
				)
				assert.True(
					t,
					bytes.Equal(test.Expected.Short, channels.Short),
					"short channel is wrong: expected %v, got %v",
					test.Expected.Short,
					channels.Short,
				)
				assert.True(
					t,
					bytes.Equal(test.Expected.Continuation, channels.Continuation),
					"continuation channel is wrong: expected %v, got %v",
					test.Expected.Continuation,
					channels.Continuation,
				)
			},
		)
	}
}

func TestDecodeRLE3__Basic(t *testing.T) {
	for _, test := range rle3EncodeTestCases {
		t.Run(
			test.Name,
			func(t *testing.T) {
				decoded, err := c.DecodeRLE3(test.Expected)
				require.NoError(t, err)
				assert.True(
					t,
					bytes.Equal(test.Input, decoded),
					"expected %v, got %v",
					test.Input,
					decoded,
				)

				decoded, err = c.DecodeRLE3WithLength(test.Expected, len(test.Input))
				require.NoError(t, err)
				assert.True(t, bytes.Equal(test.Input, decoded))
			},
		)
	}
}

func TestEncodeRLE3__RunLengths(t *testing.T) {
	// A run of L >= 3 bytes is always three tokens and a count of L - 3,
	// regardless of what surrounds it.
	for runLength := 1; runLength <= 600; runLength++ {
		input := append([]byte{1}, bytes.Repeat([]byte{200}, runLength)...)
		input = append(input, 2)

		channels, stats := c.EncodeRLE3(input)
		if runLength < c.MinEncodedRunLength {
			require.Len(t, channels.Tokens, runLength+2, "run of %d", runLength)
			require.Empty(t, channels.Short, "run of %d", runLength)
			require.Zero(t, stats.Runs)
			continue
		}

		require.Len(t, channels.Tokens, 5, "run of %d", runLength)
		require.Equal(t, []byte{0, 0}, channels.Tokens[2:4], "run of %d", runLength)
		require.Equal(t, 1, stats.Runs)
		require.Equal(t, runLength, stats.LongestRun)

		decoded, err := c.DecodeRLE3(channels)
		require.NoError(t, err, "run of %d", runLength)
		require.Equal(t, input, decoded, "run of %d", runLength)
	}
}

func TestEncodeRLE3__Stats(t *testing.T) {
	input := []byte{1, 2, 2}
	input = append(input, bytes.Repeat([]byte{3}, 3)...)
	input = append(input, bytes.Repeat([]byte{4}, 1000)...)
	input = append(input, bytes.Repeat([]byte{5}, 300)...)
	input = append(input, 6)

	_, stats := c.EncodeRLE3(input)
	assert.Equal(
		t,
		c.Stats{RawLength: len(input), Runs: 3, OverflowRuns: 2, LongestRun: 1000},
		stats,
	)
}

func TestRLE3RoundTrip__CompletelyRandom(t *testing.T) {
	runRLE3RoundTripTestCase(t, rtesting.CreateRandomPayload(18520, t))
}

func TestRLE3RoundTrip__EntirelyNulls(t *testing.T) {
	runRLE3RoundTripTestCase(t, make([]byte, 571))
}

func TestRLE3RoundTrip__EntirelyNonNullRun(t *testing.T) {
	runRLE3RoundTripTestCase(t, bytes.Repeat([]byte{182}, 934))
}

func TestRLE3RoundTrip__VeryLongRun(t *testing.T) {
	runRLE3RoundTripTestCase(t, bytes.Repeat([]byte{7}, 3<<20))
}

func TestRLE3RoundTrip__ManyRuns(t *testing.T) {
	for seed := int64(0); seed < 16; seed++ {
		runRLE3RoundTripTestCase(t, rtesting.CreateRunPayload(20000, 40, seed, t))
	}
}

func TestRLE3RoundTrip__ShortInputs(t *testing.T) {
	// Every input of up to four bytes drawn from a three-symbol alphabet, which
	// covers all run boundaries at the start and end of the stream.
	alphabet := []byte{0, 1, 255}
	inputs := [][]byte{{}}
	for length := 1; length <= 4; length++ {
		var next [][]byte
		for _, prefix := range inputs {
			if len(prefix) != length-1 {
				continue
			}
			for _, value := range alphabet {
				extended := append(append([]byte{}, prefix...), value)
				next = append(next, extended)
			}
		}
		inputs = append(inputs, next...)
	}

	for _, input := range inputs {
		runRLE3RoundTripTestCase(t, input)
	}
}

func TestRLE3__ConcurrentCallsDontInterfere(t *testing.T) {
	payloads := make([][]byte, 8)
	for i := range payloads {
		payloads[i] = rtesting.CreateRunPayload(50000, 10, int64(i), t)
	}

	var wg sync.WaitGroup
	for _, payload := range payloads {
		wg.Add(1)
		go func(original []byte) {
			defer wg.Done()
			channels, _ := c.EncodeRLE3(original)
			decoded, err := c.DecodeRLE3(channels)
			assert.NoError(t, err)
			assert.True(t, bytes.Equal(original, decoded), "round trip failed")
		}(payload)
	}
	wg.Wait()
}

func TestDecodeRLE3__MissingRepeatCount(t *testing.T) {
	channels := c.Channels{Tokens: []byte{9, 1, 4, 0, 0}}

	_, err := c.DecodeRLE3(channels)
	assert.ErrorIs(t, err, rle3.ErrTruncatedStream)
}

func TestDecodeRLE3__MissingContinuation(t *testing.T) {
	channels := c.Channels{Short: []byte{255}, Tokens: []byte{4, 0, 0}}

	_, err := c.DecodeRLE3(channels)
	assert.ErrorIs(t, err, rle3.ErrTruncatedStream)
}

func TestDecodeRLE3__UnreadCounts(t *testing.T) {
	channels := c.Channels{Short: []byte{0}, Tokens: []byte{1, 2}}

	_, err := c.DecodeRLE3(channels)
	assert.ErrorIs(t, err, rle3.ErrCorruptStream)
}

func TestDecodeRLE3WithLength__RunTooLong(t *testing.T) {
	channels := c.Channels{Short: []byte{10}, Tokens: []byte{5, 0, 0}}

	_, err := c.DecodeRLE3WithLength(channels, 5)
	assert.ErrorIs(t, err, rle3.ErrCorruptStream)
}

func TestDecodeRLE3WithLength__WrongLength(t *testing.T) {
	channels := c.Channels{Tokens: []byte{1, 2}}

	_, err := c.DecodeRLE3WithLength(channels, 3)
	assert.ErrorIs(t, err, rle3.ErrCorruptStream)

	_, err = c.DecodeRLE3WithLength(channels, 1)
	assert.ErrorIs(t, err, rle3.ErrCorruptStream)
}

func TestDecodeRLE3WithLength__NegativeLength(t *testing.T) {
	_, err := c.DecodeRLE3WithLength(c.Channels{}, -1)
	assert.ErrorIs(t, err, rle3.ErrInvalidArgument)
}

func TestDecodeRLE3__HugeRepeatCount(t *testing.T) {
	// 2^62 - 1 extra repetitions, far past anything we could allocate.
	channels := c.Channels{
		Short:        []byte{255},
		Continuation: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x3f},
		Tokens:       []byte{5, 0, 0},
	}

	var err error
	require.NotPanics(t, func() { _, err = c.DecodeRLE3(channels) })
	assert.ErrorIs(t, err, rle3.ErrValueOutOfRange)
}

func TestInvertBytes__HugeRawLength(t *testing.T) {
	short, continuation := varint.Append(nil, nil, 1<<62-3)
	container := c.Container{
		RawLength: 1 << 62,
		Channels: c.Channels{
			Short:        short,
			Continuation: continuation,
			Tokens:       []byte{5, 0, 0},
		},
	}
	encoded, err := container.MarshalBinary()
	require.NoError(t, err)

	require.NotPanics(t, func() { _, err = c.InvertBytes(encoded) })
	assert.ErrorIs(t, err, rle3.ErrCorruptHeader)
}

func TestInvertBytes__RunPastRawLength(t *testing.T) {
	short, continuation := varint.Append(nil, nil, 1<<62-3)
	container := c.Container{
		RawLength: 1 << 20,
		Channels: c.Channels{
			Short:        short,
			Continuation: continuation,
			Tokens:       []byte{5, 0, 0},
		},
	}
	encoded, err := container.MarshalBinary()
	require.NoError(t, err)

	require.NotPanics(t, func() { _, err = c.InvertBytes(encoded) })
	assert.ErrorIs(t, err, rle3.ErrCorruptStream)
}

func TestDecodeRLE3__MaxDecodedSize(t *testing.T) {
	originalLimit := c.MaxDecodedSize
	c.MaxDecodedSize = 16
	defer func() { c.MaxDecodedSize = originalLimit }()

	// 3 + 13 = 16 bytes fits exactly.
	decoded, err := c.DecodeRLE3(c.Channels{Short: []byte{13}, Tokens: []byte{5, 0, 0}})
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{5}, 16), decoded)

	_, err = c.DecodeRLE3(c.Channels{Short: []byte{14}, Tokens: []byte{5, 0, 0}})
	assert.ErrorIs(t, err, rle3.ErrValueOutOfRange)

	_, err = c.DecodeRLE3WithLength(c.Channels{Tokens: []byte{1, 2}}, 17)
	assert.ErrorIs(t, err, rle3.ErrValueOutOfRange)
}

func TestDecodeRLE3__RunLargerThanPreallocation(t *testing.T) {
	const runLength = 70 << 20
	short, continuation := varint.Append(nil, nil, runLength-3)
	channels := c.Channels{
		Short:        short,
		Continuation: continuation,
		Tokens:       []byte{6, 7, 0, 0, 8},
	}

	decoded, err := c.DecodeRLE3WithLength(channels, runLength+2)
	require.NoError(t, err)
	require.Len(t, decoded, runLength+2)
	assert.EqualValues(t, 6, decoded[0])
	assert.Equal(t, runLength, bytes.Count(decoded, []byte{7}))
	assert.EqualValues(t, 8, decoded[len(decoded)-1])
}

////////////////////////////////////////////////////////////////////////////////
// Helper functions

func runRLE3RoundTripTestCase(t *testing.T, originalData []byte) {
	channels, stats := c.EncodeRLE3(originalData)
	require.Equal(t, len(originalData), stats.RawLength)
	require.LessOrEqual(
		t, len(channels.Tokens), len(originalData), "more tokens than input bytes")

	decoded, err := c.DecodeRLE3WithLength(channels, len(originalData))
	require.NoError(t, err, "unexpected error while decoding")
	if !bytes.Equal(originalData, decoded) {
		t.Fatalf("decoded data doesn't match original data (input %v)", originalData)
	}
}
