// Package texture uploads density fields and transfer tables to the GPU.
package texture

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/engine/resource"
	"github.com/Faultbox/nimbus/internal/logger"
	"github.com/Faultbox/nimbus/internal/transfer"
	"github.com/Faultbox/nimbus/internal/volume"
)

// Volume is the 3D texture holding the current density field.
type Volume struct {
	arena *resource.Arena
	id    resource.ID
	tex   uint32
}

// NewVolume creates an empty slot.
func NewVolume(arena *resource.Arena) *Volume {
	return &Volume{arena: arena}
}

// Upload replaces the texture with f. The previous texture is released
// first, so at most one volume is resident.
func (v *Volume) Upload(f *volume.DensityField) error {
	id, err := v.arena.Replace(v.id, resource.KindTexture3D, func() (uint32, func(), error) {
		var tex uint32
		gl.GenTextures(1, &tex)
		gl.BindTexture(gl.TEXTURE_3D, tex)
		gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
		gl.TexImage3D(gl.TEXTURE_3D, 0, gl.R32F,
			int32(f.Width), int32(f.Height), int32(f.Depth), 0,
			gl.RED, gl.FLOAT, gl.Ptr(f.Samples))
		gl.BindTexture(gl.TEXTURE_3D, 0)

		if e := gl.GetError(); e != gl.NO_ERROR {
			gl.DeleteTextures(1, &tex)
			return 0, nil, fmt.Errorf("uploading %s volume: gl error 0x%x", f.Dims, e)
		}
		return tex, func() { gl.DeleteTextures(1, &tex) }, nil
	})
	v.id = id
	if err != nil {
		v.tex = 0
		return err
	}
	v.tex, _ = v.arena.Handle(id)

	logger.Log.Info("volume texture uploaded",
		zap.Stringer("dims", f.Dims),
		zap.Int("bytes", len(f.Samples)*4))
	return nil
}

// Bind binds the texture to a unit.
func (v *Volume) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_3D, v.tex)
}

// Ready reports whether a volume is resident.
func (v *Volume) Ready() bool { return v.tex != 0 }

// Release frees the texture.
func (v *Volume) Release() {
	if v.id != resource.Nil {
		_ = v.arena.Release(v.id)
		v.id, v.tex = resource.Nil, 0
	}
}

// Transfer is the 1D RGBA lookup texture.
type Transfer struct {
	arena *resource.Arena
	id    resource.ID
	tex   uint32
}

// NewTransfer creates an empty slot.
func NewTransfer(arena *resource.Arena) *Transfer {
	return &Transfer{arena: arena}
}

// Upload replaces the table texture.
func (t *Transfer) Upload(tf *transfer.TransferFunction) error {
	texels := tf.RGBA()
	id, err := t.arena.Replace(t.id, resource.KindTexture1D, func() (uint32, func(), error) {
		var tex uint32
		gl.GenTextures(1, &tex)
		gl.BindTexture(gl.TEXTURE_1D, tex)
		gl.TexParameteri(gl.TEXTURE_1D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_1D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_1D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexImage1D(gl.TEXTURE_1D, 0, gl.RGBA32F, int32(tf.Len()), 0, gl.RGBA, gl.FLOAT, gl.Ptr(texels))
		gl.BindTexture(gl.TEXTURE_1D, 0)

		if e := gl.GetError(); e != gl.NO_ERROR {
			gl.DeleteTextures(1, &tex)
			return 0, nil, fmt.Errorf("uploading transfer table: gl error 0x%x", e)
		}
		return tex, func() { gl.DeleteTextures(1, &tex) }, nil
	})
	t.id = id
	if err != nil {
		t.tex = 0
		return err
	}
	t.tex, _ = t.arena.Handle(id)
	return nil
}

// Bind binds the texture to a unit.
func (t *Transfer) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_1D, t.tex)
}

// Release frees the texture.
func (t *Transfer) Release() {
	if t.id != resource.Nil {
		_ = t.arena.Release(t.id)
		t.id, t.tex = resource.Nil, 0
	}
}
