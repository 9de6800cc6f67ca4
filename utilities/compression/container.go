package compression

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dargueta/rle3"
	"github.com/noxer/bytewriter"
)

// Magic identifies a transformed file.
const Magic = "RLE3"

// FormatVersion is the only container version we know how to read.
const FormatVersion = 1

// HeaderSize is the size of the fixed-width container header, in bytes.
const HeaderSize = 37

// containerHeader is the on-disk layout of the header. All integers are
// little-endian. The channels follow immediately, in the order short,
// continuation, tokens.
//
//	offset  size  field
//	0       4     magic "RLE3"
//	4       1     format version
//	5       8     length of the original data
//	13      8     length of the short channel
//	21      8     length of the continuation channel
//	29      8     length of the token channel
type containerHeader struct {
	Magic              [4]byte
	Version            uint8
	RawLength          uint64
	ShortLength        uint64
	ContinuationLength uint64
	TokenLength        uint64
}

// Container is a transformed payload together with the information needed to
// invert it.
type Container struct {
	// RawLength is the size of the original data.
	RawLength uint64
	Channels  Channels
}

// NewContainer transforms `raw` and wraps the result in a [Container].
func NewContainer(raw []byte) (Container, Stats) {
	channels, stats := EncodeRLE3(raw)
	return Container{RawLength: uint64(len(raw)), Channels: channels}, stats
}

// Size returns the number of bytes [Container.MarshalBinary] produces.
func (container Container) Size() int {
	return HeaderSize +
		len(container.Channels.Short) +
		len(container.Channels.Continuation) +
		len(container.Channels.Tokens)
}

// MarshalBinary serializes the container. It implements
// [encoding.BinaryMarshaler].
func (container Container) MarshalBinary() ([]byte, error) {
	output := make([]byte, container.Size())
	writer := bytewriter.New(output)

	header := containerHeader{
		Version:            FormatVersion,
		RawLength:          container.RawLength,
		ShortLength:        uint64(len(container.Channels.Short)),
		ContinuationLength: uint64(len(container.Channels.Continuation)),
		TokenLength:        uint64(len(container.Channels.Tokens)),
	}
	copy(header.Magic[:], Magic)

	err := binary.Write(writer, binary.LittleEndian, &header)
	if err != nil {
		return nil, rle3.ErrIOFailed.Wrap(err)
	}

	channels := [][]byte{
		container.Channels.Short,
		container.Channels.Continuation,
		container.Channels.Tokens,
	}
	for _, channel := range channels {
		_, err = writer.Write(channel)
		if err != nil {
			return nil, rle3.ErrIOFailed.Wrap(err)
		}
	}
	return output, nil
}

// UnmarshalBinary parses a serialized container. It implements
// [encoding.BinaryUnmarshaler].
//
// The channels in the resulting container share memory with `data`.
func (container *Container) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return rle3.ErrTruncatedStream.WithMessage(
			fmt.Sprintf("need %d bytes for the header, got %d", HeaderSize, len(data)))
	}

	var header containerHeader
	err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &header)
	if err != nil {
		return rle3.ErrCorruptHeader.Wrap(err)
	}

	if string(header.Magic[:]) != Magic {
		return rle3.ErrCorruptHeader.WithMessage(
			fmt.Sprintf("bad magic %q, expected %q", header.Magic[:], Magic))
	}
	if header.Version != FormatVersion {
		return rle3.ErrCorruptHeader.WithMessage(
			fmt.Sprintf("unsupported format version %d", header.Version))
	}

	// Every token decodes to at least one byte of output.
	if header.TokenLength > header.RawLength {
		return rle3.ErrCorruptHeader.WithMessage(
			fmt.Sprintf(
				"%d tokens can't decode to %d bytes",
				header.TokenLength,
				header.RawLength,
			),
		)
	}
	if header.RawLength > uint64(MaxDecodedSize) {
		return rle3.ErrCorruptHeader.WithMessage(
			fmt.Sprintf(
				"original length %d is over the %d byte decoding limit",
				header.RawLength,
				MaxDecodedSize,
			),
		)
	}

	payload := data[HeaderSize:]
	offset := uint64(0)
	lengths := []uint64{header.ShortLength, header.ContinuationLength, header.TokenLength}
	channels := make([][]byte, len(lengths))
	for i, length := range lengths {
		remaining := uint64(len(payload)) - offset
		if length > remaining {
			return rle3.ErrTruncatedStream.WithMessage(
				fmt.Sprintf(
					"channel %d needs %d bytes, only %d left",
					i,
					length,
					remaining,
				),
			)
		}
		channels[i] = payload[offset : offset+length]
		offset += length
	}

	if offset != uint64(len(payload)) {
		return rle3.ErrCorruptHeader.WithMessage(
			fmt.Sprintf("%d trailing bytes after token channel", uint64(len(payload))-offset))
	}

	container.RawLength = header.RawLength
	container.Channels = Channels{
		Short:        channels[0],
		Continuation: channels[1],
		Tokens:       channels[2],
	}
	return nil
}

// Decode inverts the transform, checking the result against the recorded
// length.
func (container Container) Decode() ([]byte, error) {
	return DecodeRLE3WithLength(container.Channels, int(container.RawLength))
}

// ReadContainer reads and parses an entire container from a stream.
func ReadContainer(input io.Reader) (Container, error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return Container{}, rle3.ErrIOFailed.Wrap(err)
	}

	var container Container
	err = container.UnmarshalBinary(data)
	return container, err
}
