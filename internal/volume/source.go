package volume

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/logger"
)

// Format identifies the on-disk sample encoding.
type Format string

const (
	FormatRaw8    Format = "raw8"
	FormatFloat32 Format = "float32"
)

// BytesPerSample returns the sample width of f.
func (f Format) BytesPerSample() int {
	if f == FormatFloat32 {
		return 4
	}
	return 1
}

// Opener opens a named file and reports its size, or -1 when unknown.
// assets.Manager satisfies it.
type Opener interface {
	Open(name string) (io.ReadCloser, int64, error)
}

// FS is what LoadFile needs from a file provider.
type FS interface {
	Opener
}

// maxMetaBytes bounds the sidecar read; a valid line is a few dozen bytes.
const maxMetaBytes = 256

// Source describes a volume file on disk.
type Source struct {
	Path   string
	Format Format
	// Dims is required for raw8. For float32 a zero Dims means "read the
	// .meta sidecar".
	Dims Dims
}

// LoadFile reads and normalizes the volume described by src.
func LoadFile(fs FS, src Source) (*DensityField, error) {
	dims := src.Dims
	if src.Format == FormatFloat32 && dims == (Dims{}) {
		var err error
		if dims, err = readMeta(fs, MetaPath(src.Path)); err != nil {
			return nil, fmt.Errorf("loading meta for %s: %w", src.Path, err)
		}
	}
	if !dims.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDimensions, dims)
	}

	rc, size, err := fs.Open(src.Path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	compressed := IsCompressed(src.Path)
	if compressed {
		dec, err := zstd.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	} else if size >= 0 {
		want := int64(dims.Count()) * int64(src.Format.BytesPerSample())
		if size != want {
			return nil, fmt.Errorf("%w: %s is %d bytes, %s %s needs %d",
				ErrDimensionMismatch, src.Path, size, dims, src.Format, want)
		}
	}

	var field *DensityField
	switch src.Format {
	case FormatRaw8:
		data, err := ReadRaw8(r, dims)
		if err != nil {
			return nil, err
		}
		if field, err = LoadDiscrete(data, dims); err != nil {
			return nil, err
		}
	case FormatFloat32:
		raw, err := ReadFloat32(r, dims)
		if err != nil {
			return nil, err
		}
		if field, err = raw.Normalize(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("volume: unknown format %q", src.Format)
	}

	if compressed {
		if err := expectEOF(r); err != nil {
			return nil, err
		}
	}

	logger.Log.Info("volume loaded",
		zap.String("path", src.Path),
		zap.String("format", string(src.Format)),
		zap.Stringer("dims", dims),
		zap.Bool("zstd", compressed))
	return field, nil
}

// readMeta opens the sidecar on every call. Converters rewrite it in place,
// so a cached copy would pin stale dimensions.
func readMeta(fs Opener, name string) (Dims, error) {
	rc, _, err := fs.Open(name)
	if err != nil {
		return Dims{}, err
	}
	defer rc.Close()

	text, err := io.ReadAll(io.LimitReader(rc, maxMetaBytes))
	if err != nil {
		return Dims{}, err
	}
	return ParseMeta(string(text))
}
