// Package compression implements the RLE3 transform, a lossless
// pre-processing step that makes data easier for a general-purpose compressor
// to squeeze. It doesn't compress anything by itself.
//
// Every byte of the input is passed through a move-to-front table (see package
// mtf), which turns recently seen bytes into small indices. Runs of three or
// more identical bytes are special-cased: the byte is written three times, and
// the number of additional repetitions is stored out of line. Because the byte
// is at the front of the table after the first occurrence, the second and third
// tokens are always zero:
//
//	raw:     W X X X X X X X X X X X X X X X Y Z Z
//	tokens:  W X 0 0 Y Z 0
//	counts:  12
//
// A pair (ZZ above) is not special-cased at all: it costs two tokens, the same
// as two unrelated bytes, and nothing in the count channels. The decoder recognizes a run purely by
// seeing the same byte three times in a row in its own output, which can't
// happen anywhere except at a run marker.
//
// Run counts are stored with the split varint encoding from package varint,
// which produces two channels: one byte per run for counts up to 254, and a
// separate ULEB128 channel for the overflow. Together with the tokens this
// gives three channels, kept apart so a downstream compressor can model each on
// its own statistics.
//
// A [Container] serializes the channels with a fixed-width header recording
// the length of each channel and of the original data, so the decoder doesn't
// need to know anything about the input in advance.
//
// Everything operates on whole buffers in memory. Each call creates its own
// move-to-front table, so separate calls can run concurrently.

package compression
