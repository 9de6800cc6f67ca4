package compression

import (
	"bytes"
	"fmt"

	"github.com/dargueta/rle3"
	"github.com/dargueta/rle3/utilities/mtf"
	"github.com/dargueta/rle3/utilities/varint"
)

// MinEncodedRunLength is the shortest run that gets a run marker. Shorter runs
// are written out as ordinary tokens.
const MinEncodedRunLength = 3

// maxPreallocation caps how much output buffer we reserve up front based on a
// length we read from the input, so a corrupt header can't make us allocate
// gigabytes before we've decoded a single token.
const maxPreallocation = 64 << 20

const maxInt = int(^uint(0) >> 1)

// defaultMaxDecodedSize is 16 GiB, clamped to maxInt on 32-bit platforms.
const defaultMaxDecodedSize = 1 << 34

// MaxDecodedSize is the largest output the decoder will produce. A container
// header, or a run count when no length is known, that claims more than this
// fails with [rle3.ErrValueOutOfRange] or [rle3.ErrCorruptHeader] instead of
// trying to allocate it.
var MaxDecodedSize = clampToInt(defaultMaxDecodedSize)

func clampToInt(size uint64) int {
	if size > uint64(maxInt) {
		return maxInt
	}
	return int(size)
}

// Channels holds the three byte streams produced by [EncodeRLE3].
type Channels struct {
	// Short holds one byte per encoded run: the number of extra repetitions if
	// it's 254 or less, or 255 if the count continues in Continuation.
	Short []byte
	// Continuation holds the ULEB128 tails of run counts too big for Short.
	Continuation []byte
	// Tokens holds one move-to-front index per literal byte.
	Tokens []byte
}

// Stats describes the runs found while encoding.
type Stats struct {
	// RawLength is the size of the input in bytes.
	RawLength int
	// Runs is the number of runs of at least [MinEncodedRunLength] bytes.
	Runs int
	// OverflowRuns is the number of runs whose count needed the continuation
	// channel.
	OverflowRuns int
	// LongestRun is the length of the longest run of any byte, 0 for empty input.
	LongestRun int
}

// EncodeRLE3 applies the move-to-front and run-length transforms to `raw`.
//
// Every byte of the input goes through the move-to-front table. When a byte
// occurs three or more times in a row, it's written as three tokens (the index
// of the byte followed by two zeros, since the byte is now at the front of the
// table) and the number of repetitions past the third is appended to the short
// and continuation channels. For example:
//
//	raw:     61 62 62 62 62 62 63 63
//	tokens:  61 62 00 00 63 00
//	short:   02
//
// The table is created fresh for every call, so concurrent calls on different
// inputs are safe.
func EncodeRLE3(raw []byte) (Channels, Stats) {
	table := mtf.New()
	grouper := NewRLEGrouper(raw)
	channels := Channels{Tokens: make([]byte, 0, len(raw))}
	stats := Stats{RawLength: len(raw)}

	for {
		run, err := grouper.GetNextRun()
		if err != nil {
			// The grouper works on a slice so the only possible error is EOF.
			return channels, stats
		}

		if run.RunLength > stats.LongestRun {
			stats.LongestRun = run.RunLength
		}

		channels.Tokens = append(channels.Tokens, table.Encode(run.Byte))
		if run.RunLength < MinEncodedRunLength {
			// A pair isn't worth a marker. The second byte is already at the front
			// of the table so it encodes to 0.
			for i := 1; i < run.RunLength; i++ {
				channels.Tokens = append(channels.Tokens, table.Encode(run.Byte))
			}
			continue
		}

		channels.Tokens = append(channels.Tokens, 0, 0)
		extra := uint64(run.RunLength - MinEncodedRunLength)
		channels.Short, channels.Continuation = varint.Append(
			channels.Short, channels.Continuation, extra)

		stats.Runs++
		if extra > varint.MaxShortValue {
			stats.OverflowRuns++
		}
	}
}

// DecodeRLE3 reverses [EncodeRLE3]. The output length is determined by the
// channels themselves; use [DecodeRLE3WithLength] if the expected length is
// known.
func DecodeRLE3(channels Channels) ([]byte, error) {
	return decodeRLE3(channels, -1)
}

// DecodeRLE3WithLength reverses [EncodeRLE3], failing with
// [rle3.ErrCorruptStream] if the output would not be exactly `expectedLength`
// bytes.
func DecodeRLE3WithLength(channels Channels, expectedLength int) ([]byte, error) {
	if expectedLength < 0 {
		return nil, rle3.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("expected length can't be negative, got %d", expectedLength))
	}
	return decodeRLE3(channels, expectedLength)
}

// decodeRLE3 does the actual decoding. If `limit` is negative the output size
// is unbounded.
func decodeRLE3(channels Channels, limit int) ([]byte, error) {
	if limit > MaxDecodedSize {
		return nil, rle3.ErrValueOutOfRange.WithMessage(
			fmt.Sprintf(
				"expected length %d exceeds the %d byte decoding limit",
				limit,
				MaxDecodedSize,
			),
		)
	}

	table := mtf.New()
	short := bytes.NewReader(channels.Short)
	continuation := bytes.NewReader(channels.Continuation)

	capacity := len(channels.Tokens)
	if limit >= 0 {
		capacity = limit
	}
	if capacity > maxPreallocation {
		capacity = maxPreallocation
	}
	output := make([]byte, 0, capacity)

	for tokenIndex, token := range channels.Tokens {
		value := table.Decode(token)
		output = append(output, value)

		// The first two tokens are always literals; a run marker needs three
		// identical bytes in a row, and the encoder never emits three identical
		// bytes in a row outside of a run.
		if tokenIndex < 2 {
			continue
		}
		end := len(output)
		if output[end-2] != value || output[end-3] != value {
			continue
		}

		count, err := varint.Decode(short, continuation)
		if err != nil {
			return output, fmt.Errorf(
				"failed to read repeat count for run of %02x ending at token %d: %w",
				value,
				tokenIndex,
				err,
			)
		}

		if limit < 0 {
			available := MaxDecodedSize - len(output)
			if available < 0 || count > uint64(available) {
				return output, rle3.ErrValueOutOfRange.WithMessage(
					fmt.Sprintf(
						"run of %02x at token %d repeats %d more times, past the %d byte decoding limit",
						value,
						tokenIndex,
						count,
						MaxDecodedSize,
					),
				)
			}
		} else {
			available := limit - len(output)
			if available < 0 || count > uint64(available) {
				return output, rle3.ErrCorruptStream.WithMessage(
					fmt.Sprintf(
						"run of %02x at token %d repeats %d more times, only %d bytes left",
						value,
						tokenIndex,
						count,
						limit-len(output),
					),
				)
			}
		}
		output = appendRepeated(output, value, int(count))
	}

	if short.Len() != 0 || continuation.Len() != 0 {
		return output, rle3.ErrCorruptStream.WithMessage(
			fmt.Sprintf(
				"tokens exhausted with %d short and %d continuation bytes unread",
				short.Len(),
				continuation.Len(),
			),
		)
	}
	if limit >= 0 && len(output) != limit {
		return output, rle3.ErrCorruptStream.WithMessage(
			fmt.Sprintf("decoded %d bytes, expected %d", len(output), limit))
	}
	return output, nil
}

// appendRepeated appends `count` copies of `value` to `output`, growing the
// buffer at most maxPreallocation bytes at a time.
func appendRepeated(output []byte, value byte, count int) []byte {
	var chunk []byte
	for count > 0 {
		size := count
		if size > maxPreallocation {
			size = maxPreallocation
		}
		if len(chunk) < size {
			chunk = bytes.Repeat([]byte{value}, size)
		}
		output = append(output, chunk[:size]...)
		count -= size
	}
	return output
}
