package volume

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedSuffix marks zstd-compressed raw files.
const CompressedSuffix = ".zst"

// ReadRaw8 reads exactly dims.Count() bytes.
func ReadRaw8(r io.Reader, dims Dims) ([]byte, error) {
	if !dims.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDimensions, dims)
	}
	return readExact(r, int64(dims.Count()))
}

// ReadFloat32 reads dims.Count() little-endian IEEE-754 floats.
func ReadFloat32(r io.Reader, dims Dims) (*RawSample, error) {
	if !dims.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDimensions, dims)
	}
	buf, err := readExact(r, int64(dims.Count())*4)
	if err != nil {
		return nil, err
	}
	out := make([]float32, dims.Count())
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return &RawSample{Dims: dims, Samples: out}, nil
}

// WriteFloat32 writes samples x-fastest as little-endian floats, the layout
// ReadFloat32 expects.
func WriteFloat32(w io.Writer, samples []float32) error {
	bw := bufio.NewWriter(w)
	var b [4]byte
	for _, v := range samples {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		if _, err := bw.Write(b[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteCompressed wraps w in a zstd encoder for the duration of fn.
func WriteCompressed(w io.Writer, fn func(io.Writer) error) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if err := fn(enc); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// IsCompressed reports whether name carries the zstd suffix.
func IsCompressed(name string) bool {
	return strings.HasSuffix(name, CompressedSuffix)
}

// readExact reads n bytes. The buffer grows with the data actually read, so
// a header that overstates the size costs no more than the stream holds.
func readExact(r io.Reader, n int64) ([]byte, error) {
	var buf bytes.Buffer
	got, err := io.CopyN(&buf, r, n)
	switch {
	case err == nil:
		return buf.Bytes(), nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrTruncatedRead, got, n)
	default:
		return nil, fmt.Errorf("read: %w", err)
	}
}

// expectEOF fails with ErrDimensionMismatch when r still has data.
func expectEOF(r io.Reader) error {
	var one [1]byte
	n, err := r.Read(one[:])
	if n > 0 {
		return fmt.Errorf("%w: trailing data after declared volume", ErrDimensionMismatch)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read: %w", err)
	}
	return nil
}
