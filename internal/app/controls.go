package app

import (
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/engine/input"
	"github.com/Faultbox/nimbus/internal/raymarch"
	"github.com/Faultbox/nimbus/internal/scene"
	"github.com/Faultbox/nimbus/internal/view"
)

// Action is a side effect the loop performs after an event.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionResize
	ActionScreenshot
	ActionOpenVolume
	ActionRegenerate
	ActionLookStart
	ActionLookEnd
	ActionFullscreen
)

const (
	translucencyStep = 0.05
	densityStep      = 0.1
)

// paramKeys edit the published render parameters.
var paramKeys = map[sdl.Scancode]struct {
	name  string
	apply func(*raymarch.Params)
}{
	sdl.SCANCODE_L: {"lighting", func(p *raymarch.Params) { p.EnableLighting = !p.EnableLighting }},
	sdl.SCANCODE_J: {"jitter", func(p *raymarch.Params) { p.EnableJittering = !p.EnableJittering }},
	sdl.SCANCODE_M: {"multiple_scattering", func(p *raymarch.Params) {
		p.EnableMultipleScattering = !p.EnableMultipleScattering
	}},
	sdl.SCANCODE_LEFTBRACKET: {"translucency", func(p *raymarch.Params) {
		p.Translucency = max(p.Translucency-translucencyStep, 0)
	}},
	sdl.SCANCODE_RIGHTBRACKET: {"translucency", func(p *raymarch.Params) {
		p.Translucency = min(p.Translucency+translucencyStep, 1)
	}},
	sdl.SCANCODE_MINUS: {"density", func(p *raymarch.Params) {
		p.Density = max(p.Density-densityStep, 0)
	}},
	sdl.SCANCODE_EQUALS: {"density", func(p *raymarch.Params) { p.Density += densityStep }},
}

var actionKeys = map[sdl.Scancode]Action{
	sdl.SCANCODE_ESCAPE: ActionQuit,
	sdl.SCANCODE_F11:    ActionFullscreen,
	sdl.SCANCODE_F12:    ActionScreenshot,
	sdl.SCANCODE_O:      ActionOpenVolume,
	sdl.SCANCODE_R:      ActionRegenerate,
}

var moveKeys = []struct {
	key sdl.Scancode
	dir view.Movement
}{
	{sdl.SCANCODE_W, view.Forward},
	{sdl.SCANCODE_S, view.Backward},
	{sdl.SCANCODE_A, view.Left},
	{sdl.SCANCODE_D, view.Right},
	{sdl.SCANCODE_SPACE, view.Up},
	{sdl.SCANCODE_LCTRL, view.Down},
}

// Controls maps input to camera motion and parameter edits.
type Controls struct {
	Camera  *view.Camera
	store   *scene.Store
	looking bool
	log     *zap.Logger
}

// NewControls binds a camera and a store.
func NewControls(cam *view.Camera, store *scene.Store, log *zap.Logger) *Controls {
	return &Controls{Camera: cam, store: store, log: log}
}

// Looking reports whether the right button is held.
func (c *Controls) Looking() bool { return c.looking }

// HandleEvent applies ev and returns what the loop must do next.
func (c *Controls) HandleEvent(ev input.Event) Action {
	switch ev.Type {
	case input.EventQuit:
		return ActionQuit

	case input.EventWindowResize:
		c.Camera.SetAspectRatio(ev.Width, ev.Height)
		return ActionResize

	case input.EventKeyDown:
		if ev.Repeat {
			return ActionNone
		}
		if a, ok := actionKeys[ev.Key]; ok {
			return a
		}
		if k, ok := paramKeys[ev.Key]; ok {
			p := c.store.UpdateParams(k.apply)
			c.log.Info("parameter changed",
				zap.String("param", k.name),
				zap.Bool("lighting", p.EnableLighting),
				zap.Bool("jitter", p.EnableJittering),
				zap.Bool("multiple_scattering", p.EnableMultipleScattering),
				zap.Float32("translucency", p.Translucency),
				zap.Float32("density", p.Density),
			)
		}

	case input.EventMouseDown:
		if ev.Button == sdl.BUTTON_RIGHT {
			c.looking = true
			return ActionLookStart
		}

	case input.EventMouseUp:
		if ev.Button == sdl.BUTTON_RIGHT && c.looking {
			c.looking = false
			return ActionLookEnd
		}

	case input.EventMouseMove:
		if c.looking {
			c.Camera.HandleDrag(float32(ev.DeltaX), float32(-ev.DeltaY), true)
		}

	case input.EventMouseWheel:
		c.Camera.HandleZoom(ev.Wheel)
	}
	return ActionNone
}

// Move applies held movement keys for dt seconds.
func (c *Controls) Move(dt float32, held func(sdl.Scancode) bool) {
	for _, m := range moveKeys {
		if held(m.key) {
			c.Camera.HandleMovement(m.dir, dt)
		}
	}
}
