package volume

import (
	"fmt"
	"io"
	"strings"
)

// MetaSuffix is appended to a float32 raw path to name its dimension sidecar.
const MetaSuffix = ".meta"

// MetaPath returns the sidecar path for a raw file. A trailing .zst is
// stripped first so cloud.raw and cloud.raw.zst share cloud.raw.meta.
func MetaPath(rawPath string) string {
	return strings.TrimSuffix(rawPath, CompressedSuffix) + MetaSuffix
}

// ParseMeta parses "w h d".
func ParseMeta(text string) (Dims, error) {
	var d Dims
	n, err := fmt.Sscan(text, &d.Width, &d.Height, &d.Depth)
	if err != nil || n != 3 {
		return Dims{}, fmt.Errorf("%w: malformed meta %q", ErrInvalidDimensions, strings.TrimSpace(text))
	}
	if !d.Valid() {
		return Dims{}, fmt.Errorf("%w: %s", ErrInvalidDimensions, d)
	}
	return d, nil
}

// WriteMeta writes the sidecar line.
func WriteMeta(w io.Writer, d Dims) error {
	_, err := fmt.Fprintf(w, "%d %d %d\n", d.Width, d.Height, d.Depth)
	return err
}
