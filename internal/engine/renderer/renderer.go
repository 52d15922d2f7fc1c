// Package renderer draws the density field with the GPU ray-march program.
package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/engine/framebuffer"
	"github.com/Faultbox/nimbus/internal/engine/resource"
	"github.com/Faultbox/nimbus/internal/engine/shader"
	"github.com/Faultbox/nimbus/internal/engine/texture"
	"github.com/Faultbox/nimbus/internal/logger"
	"github.com/Faultbox/nimbus/internal/raymarch"
	"github.com/Faultbox/nimbus/internal/scene"
	"github.com/Faultbox/nimbus/internal/view"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer owns every GL object of the volume pass.
type Renderer struct {
	config Config
	arena  *resource.Arena

	program  *shader.Program
	quadVAO  uint32
	volume   *texture.Volume
	transfer *texture.Transfer
	target   *framebuffer.Framebuffer

	fieldGen    uint64
	transferGen uint64

	timer *FrameTimer
}

// New creates the renderer. Must be called after the GL context exists.
// A program that fails to build is fatal to startup and returned as an error.
func New(cfg Config, arena *resource.Arena, sources shader.SourceLoader) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	r := &Renderer{
		config:   cfg,
		arena:    arena,
		volume:   texture.NewVolume(arena),
		transfer: texture.NewTransfer(arena),
		timer:    NewFrameTimer(time.Now()),
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.ClearColor(raymarch.ClearColor[0], raymarch.ClearColor[1], raymarch.ClearColor[2], 1)

	prog, err := shader.Load(sources, shader.RaymarchVertex, shader.RaymarchFragment)
	if err != nil {
		return nil, fmt.Errorf("ray-march program: %w", err)
	}
	r.program = prog
	arena.Acquire(resource.KindProgram, prog.ID(), prog.Destroy)

	if err := r.createQuad(); err != nil {
		r.Close()
		return nil, err
	}

	r.target, err = framebuffer.New(arena, int32(cfg.Width), int32(cfg.Height))
	if err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// createQuad builds the two-triangle full-screen strip.
func (r *Renderer) createQuad() error {
	vertices := []float32{
		-1, -1,
		1, -1,
		-1, 1,
		1, 1,
	}

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	r.arena.Acquire(resource.KindBuffer, vbo, func() { gl.DeleteBuffers(1, &vbo) })

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	r.arena.Acquire(resource.KindVertexArray, vao, func() { gl.DeleteVertexArrays(1, &vao) })
	r.quadVAO = vao

	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("creating quad: gl error 0x%x", e)
	}
	return nil
}

// Sync uploads whatever changed in snap since the last call. An upload
// failure leaves the previous texture state and is returned.
func (r *Renderer) Sync(snap *scene.Snapshot) error {
	if snap.FieldGeneration != r.fieldGen {
		if err := r.volume.Upload(snap.Field); err != nil {
			return err
		}
		r.fieldGen = snap.FieldGeneration
	}
	if snap.TransferGeneration != r.transferGen {
		if err := r.transfer.Upload(snap.Transfer); err != nil {
			return err
		}
		r.transferGen = snap.TransferGeneration
	}
	return nil
}

// Draw renders one frame into the offscreen target and shows it.
func (r *Renderer) Draw(snap *scene.Snapshot, vs view.State, elapsed float32) {
	r.target.Bind()
	r.target.Clear(raymarch.ClearColor[0], raymarch.ClearColor[1], raymarch.ClearColor[2])

	if r.volume.Ready() {
		r.program.Use()
		raymarch.BindUniforms(r.program, snap.Params, vs, elapsed, r.config.Width, r.config.Height)
		r.volume.Bind(raymarch.VolumeTextureUnit)
		r.transfer.Bind(raymarch.TransferTextureUnit)

		gl.BindVertexArray(r.quadVAO)
		gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
		gl.BindVertexArray(0)
	}

	r.target.BlitToScreen(int32(r.config.Width), int32(r.config.Height))

	if r.timer.Tick(time.Now()) {
		st := r.timer.Stats()
		logger.Debug("frame stats",
			zap.Float64("fps", st.FPS),
			zap.Float64("frame_ms", st.FrameTimeMs))
	}
}

// Stats returns the advisory frame-rate readout.
func (r *Renderer) Stats() Stats { return r.timer.Stats() }

// Capture reads the last rendered frame.
func (r *Renderer) Capture() *image.RGBA {
	return r.target.ReadImage()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	if err := r.target.Resize(int32(width), int32(height)); err != nil {
		logger.Error("resizing render target", zap.Error(err))
	}
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Close releases every GL object the renderer created.
func (r *Renderer) Close() {
	logger.Info("closing renderer", zap.Int("resources", r.arena.Len()))
	r.arena.ReleaseAll()
}
