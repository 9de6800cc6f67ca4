// Package varint implements a split variable-length integer encoding.
//
// Small values (0 through 254) take up exactly one byte in the "short" channel.
// Anything larger writes the marker byte 255 to the short channel, subtracts
// 254, and writes the remainder in ULEB128 form (seven bits per byte, least
// significant group first, high bit set on every byte but the last) to the
// "continuation" channel.
//
// Keeping the rare continuation bytes out of the short channel leaves the short
// channel dense and homogenous, which a downstream compressor handles better
// than a mix of the two.
//
//	value  short  continuation
//	0      00
//	254    FE
//	255    FF     01
//	382    FF     80 01
package varint

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/dargueta/rle3"
)

// MaxShortValue is the largest value stored directly in the short channel.
const MaxShortValue = 254

// OverflowMarker is written to the short channel when the value continues in
// the continuation channel.
const OverflowMarker = 255

const (
	groupBits    = 7
	groupMask    = 0x7f
	continuedBit = 0x80
)

// Append encodes `value` and returns the extended short and continuation
// channels, like the built-in append.
func Append(short, continuation []byte, value uint64) ([]byte, []byte) {
	if value <= MaxShortValue {
		return append(short, byte(value)), continuation
	}

	short = append(short, OverflowMarker)
	value -= MaxShortValue
	for {
		group := byte(value & groupMask)
		value >>= groupBits
		if value == 0 {
			return short, append(continuation, group)
		}
		continuation = append(continuation, group|continuedBit)
	}
}

// EncodedSize returns the number of bytes [Append] writes to each channel for
// the given value.
func EncodedSize(value uint64) (shortBytes, continuationBytes int) {
	if value <= MaxShortValue {
		return 1, 0
	}

	value -= MaxShortValue
	continuationBytes = 1
	for value >>= groupBits; value != 0; value >>= groupBits {
		continuationBytes++
	}
	return 1, continuationBytes
}

// Decode reads one value from the two channels.
//
// Running out of either channel fails with [rle3.ErrTruncatedStream]. A
// continuation sequence too long to fit in 64 bits fails with
// [rle3.ErrValueOutOfRange].
func Decode(short, continuation io.ByteReader) (uint64, error) {
	first, err := short.ReadByte()
	if err != nil {
		return 0, readError("short", err)
	}
	if first <= MaxShortValue {
		return uint64(first), nil
	}

	var result uint64
	for shift := uint(0); ; shift += groupBits {
		group, err := continuation.ReadByte()
		if err != nil {
			return 0, readError("continuation", err)
		}

		bits := uint64(group & groupMask)
		if shift >= 64 || (shift > 0 && bits > uint64(math.MaxUint64)>>shift) {
			return 0, rle3.ErrValueOutOfRange.WithMessage(
				fmt.Sprintf("continuation sequence exceeds 64 bits after %d bytes", shift/groupBits))
		}
		result |= bits << shift

		if group&continuedBit == 0 {
			break
		}
	}

	if result > math.MaxUint64-MaxShortValue {
		return 0, rle3.ErrValueOutOfRange.WithMessage(
			fmt.Sprintf("decoded value %d + %d overflows", result, MaxShortValue))
	}
	return result + MaxShortValue, nil
}

func readError(channel string, err error) error {
	if errors.Is(err, io.EOF) {
		return rle3.ErrTruncatedStream.WithMessage(channel + " channel exhausted")
	}
	return rle3.ErrIOFailed.Wrap(err)
}
