package scene

import (
	"github.com/Faultbox/nimbus/internal/synth"
	"github.com/Faultbox/nimbus/internal/volume"
)

// FieldSource says where a density field comes from: a raw file when File
// is set, otherwise a procedural cloud of edge Size.
type FieldSource struct {
	File *volume.Source
	Size int
}

// Procedural returns a source for a generated cube.
func Procedural(size int) FieldSource { return FieldSource{Size: size} }

// FromFile returns a source for a raw volume.
func FromFile(src volume.Source) FieldSource { return FieldSource{File: &src} }

// Load builds the field. fs resolves file sources.
func (fs FieldSource) Load(files volume.FS) (*volume.DensityField, error) {
	if fs.File != nil {
		return volume.LoadFile(files, *fs.File)
	}
	size := fs.Size
	if size <= 0 {
		size = synth.DefaultSize
	}
	return synth.GenerateCube(size)
}

// Loader adapts fs for Store.Reload.
func (fs FieldSource) Loader(files volume.FS) func() (*volume.DensityField, error) {
	return func() (*volume.DensityField, error) { return fs.Load(files) }
}

// String names the source for logs.
func (fs FieldSource) String() string {
	if fs.File != nil {
		return fs.File.Path
	}
	return "procedural"
}
