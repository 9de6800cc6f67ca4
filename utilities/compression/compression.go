package compression

import (
	"io"

	"github.com/dargueta/rle3"
)

// Transform reads all of `input`, applies the RLE3 transform, and writes the
// resulting container to `output`.
//
// The returned int64 gives the number of bytes written to the output stream. If
// an error occurred, the value is undefined and should not be used.
func Transform(input io.Reader, output io.Writer) (int64, error) {
	raw, err := io.ReadAll(input)
	if err != nil {
		return 0, rle3.ErrIOFailed.Wrap(err)
	}

	encoded, err := TransformBytes(raw)
	if err != nil {
		return 0, err
	}

	n, err := output.Write(encoded)
	if err != nil {
		return int64(n), rle3.ErrIOFailed.Wrap(err)
	}
	return int64(n), nil
}

// TransformBytes is like [Transform] but works on byte slices.
func TransformBytes(raw []byte) ([]byte, error) {
	container, _ := NewContainer(raw)
	return container.MarshalBinary()
}

// Invert reads a container produced by [Transform] from `input` and writes the
// original data to `output`.
//
// The returned int64 gives the number of bytes written to the output (i.e. the
// size of the original data). If an error occurred, the value is undefined and
// should not be used. Nothing is written if the container fails to decode.
func Invert(input io.Reader, output io.Writer) (int64, error) {
	container, err := ReadContainer(input)
	if err != nil {
		return 0, err
	}

	raw, err := container.Decode()
	if err != nil {
		return 0, err
	}

	n, err := output.Write(raw)
	if err != nil {
		return int64(n), rle3.ErrIOFailed.Wrap(err)
	}
	return int64(n), nil
}

// InvertBytes is like [Invert] but works on byte slices.
func InvertBytes(encoded []byte) ([]byte, error) {
	var container Container
	err := container.UnmarshalBinary(encoded)
	if err != nil {
		return nil, err
	}
	return container.Decode()
}
