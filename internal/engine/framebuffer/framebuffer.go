// Package framebuffer provides the offscreen colour target the volume is
// rendered into before it is shown or captured.
package framebuffer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/nimbus/internal/engine/resource"
)

// Framebuffer is a colour-only render target. The volume pass needs no
// depth attachment.
type Framebuffer struct {
	arena  *resource.Arena
	fboID  resource.ID
	texID  resource.ID
	fbo    uint32
	tex    uint32
	width  int32
	height int32
}

// New creates a framebuffer tracked by arena.
func New(arena *resource.Arena, width, height int32) (*Framebuffer, error) {
	fb := &Framebuffer{arena: arena}
	if err := fb.allocate(max(width, 1), max(height, 1)); err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	return fb, nil
}

func (fb *Framebuffer) allocate(width, height int32) error {
	fb.width, fb.height = width, height

	var err error
	fb.texID, err = fb.arena.Replace(fb.texID, resource.KindTexture2D, func() (uint32, func(), error) {
		var tex uint32
		gl.GenTextures(1, &tex)
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		return tex, func() { gl.DeleteTextures(1, &tex) }, nil
	})
	if err != nil {
		return err
	}
	fb.tex, _ = fb.arena.Handle(fb.texID)

	fb.fboID, err = fb.arena.Replace(fb.fboID, resource.KindFramebuffer, func() (uint32, func(), error) {
		var fbo uint32
		gl.GenFramebuffers(1, &fbo)
		gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fb.tex, 0)

		status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		if status != gl.FRAMEBUFFER_COMPLETE {
			gl.DeleteFramebuffers(1, &fbo)
			return 0, nil, fmt.Errorf("framebuffer incomplete: 0x%x", status)
		}
		return fbo, func() { gl.DeleteFramebuffers(1, &fbo) }, nil
	})
	if err != nil {
		return err
	}
	fb.fbo, _ = fb.arena.Handle(fb.fboID)
	return nil
}

// Bind makes this framebuffer the current render target.
func (fb *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.Viewport(0, 0, fb.width, fb.height)
}

// Unbind restores the default framebuffer.
func (fb *Framebuffer) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Clear fills the colour attachment.
func (fb *Framebuffer) Clear(r, g, b float32) {
	gl.ClearColor(r, g, b, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// BlitToScreen copies the colour attachment to the default framebuffer,
// scaling to the given window size.
func (fb *Framebuffer) BlitToScreen(dstWidth, dstHeight int32) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, fb.width, fb.height, 0, 0, dstWidth, dstHeight, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// Resize reallocates the attachments when the size changed. The old
// texture and FBO are released before the new ones are created.
func (fb *Framebuffer) Resize(width, height int32) error {
	width, height = max(width, 1), max(height, 1)
	if width == fb.width && height == fb.height {
		return nil
	}
	return fb.allocate(width, height)
}

// ReadImage reads the colour attachment top-down into an image.
func (fb *Framebuffer) ReadImage() *image.RGBA {
	w, h := int(fb.width), int(fb.height)
	raw := make([]byte, w*h*4)

	var prev int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prev)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, fb.width, fb.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(raw))
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prev))

	return FlipRows(raw, w, h)
}

// FlipRows converts bottom-up GL rows into a top-down image.
func FlipRows(raw []byte, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stride := w * 4
	for y := 0; y < h; y++ {
		src := (h - 1 - y) * stride
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], raw[src:src+stride])
	}
	return img
}

// Destroy releases the GL objects.
func (fb *Framebuffer) Destroy() {
	if fb.fboID != resource.Nil {
		_ = fb.arena.Release(fb.fboID)
		fb.fboID, fb.fbo = resource.Nil, 0
	}
	if fb.texID != resource.Nil {
		_ = fb.arena.Release(fb.texID)
		fb.texID, fb.tex = resource.Nil, 0
	}
}
