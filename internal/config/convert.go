package config

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/nimbus/internal/engine/lighting"
	"github.com/Faultbox/nimbus/internal/logger"
	"github.com/Faultbox/nimbus/internal/raymarch"
	"github.com/Faultbox/nimbus/internal/transfer"
	"github.com/Faultbox/nimbus/internal/view"
	"github.com/Faultbox/nimbus/internal/volume"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Offline.Width <= 0 || c.Offline.Height <= 0:
		return fmt.Errorf("%w: offline size %dx%d", ErrInvalid, c.Offline.Width, c.Offline.Height)
	case c.Transfer.Entries <= 0:
		return fmt.Errorf("%w: transfer.entries must be positive", ErrInvalid)
	}

	switch c.Volume.Source {
	case SourceProcedural:
		if c.Volume.ProceduralSize <= 0 {
			return fmt.Errorf("%w: volume.procedural_size must be positive", ErrInvalid)
		}
	case SourceFile:
		if c.Volume.Path == "" {
			return fmt.Errorf("%w: volume.path is required for file sources", ErrInvalid)
		}
		if _, err := c.VolumeSource(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown volume.source %q", ErrInvalid, c.Volume.Source)
	}
	return nil
}

// Params converts the render and sun sections.
func (c *Config) Params() raymarch.Params {
	r := c.Render
	p := raymarch.Params{
		StepSize:                 r.StepSize,
		Density:                  r.Density,
		Threshold:                r.Threshold,
		MaxSteps:                 r.MaxSteps,
		EnableLighting:           r.Lighting,
		AbsorptionCoeff:          r.Absorption,
		ScatteringCoeff:          r.Scattering,
		LightDir:                 mgl32.Vec3(r.LightDir),
		EnableJittering:          r.Jitter,
		MSAASamples:              r.MSAASamples,
		MSAARadius:               r.MSAARadius,
		EnableMultipleScattering: r.MultipleScattering,
		MultiScatterSteps:        r.MultiScatterSteps,
		MultiScatterStrength:     r.MultiScatterStrength,
		Translucency:             r.Translucency,
	}
	if c.Sun.Enabled {
		p.LightDir = lighting.TravelDirection(c.Sun.Azimuth, c.Sun.Elevation)
	}
	return p.Sanitized()
}

// TransferFunction builds the configured table, or the default cloud table
// when no stops are given.
func (c *Config) TransferFunction() (*transfer.TransferFunction, error) {
	if len(c.Transfer.Stops) == 0 {
		if c.Transfer.Entries == transfer.DefaultEntries {
			return transfer.Default(), nil
		}
		// Resample the default table at the requested size.
		def := transfer.Default().Entries()
		stops := make([]transfer.Stop, len(def))
		for i, e := range def {
			stops[i] = transfer.Stop{
				At:      float64(i) / float64(len(def)-1),
				Color:   e.Color,
				Opacity: e.Opacity,
			}
		}
		return transfer.FromStops(stops, c.Transfer.Entries)
	}

	stops := make([]transfer.Stop, 0, len(c.Transfer.Stops))
	for _, s := range c.Transfer.Stops {
		st, err := transfer.ParseStop(s.At, s.Color, s.Opacity)
		if err != nil {
			return nil, err
		}
		stops = append(stops, st)
	}
	return transfer.FromStops(stops, c.Transfer.Entries)
}

// NewCamera returns a camera placed per the camera section.
func (c *Config) NewCamera() *view.Camera {
	cam := view.NewCamera()
	cc := c.Camera
	cam.Position = mgl32.Vec3(cc.Position)
	cam.Yaw = cc.Yaw
	cam.Pitch = cc.Pitch
	if cc.Fov > 0 {
		cam.Fov = mgl32.Clamp(cc.Fov, cam.MinFov, cam.MaxFov)
	}
	if cc.Near > 0 {
		cam.NearPlane = cc.Near
	}
	if cc.Far > cam.NearPlane {
		cam.FarPlane = cc.Far
	}
	if cc.Speed > 0 {
		cam.MovementSpeed = cc.Speed
	}
	if cc.Sensitivity > 0 {
		cam.MouseSensitivity = cc.Sensitivity
	}
	cam.UpdateVectors()
	return cam
}

// VolumeSource describes the file volume. Only meaningful when
// Volume.Source is SourceFile.
func (c *Config) VolumeSource() (volume.Source, error) {
	format := volume.Format(c.Volume.Format)
	if format != volume.FormatRaw8 && format != volume.FormatFloat32 {
		return volume.Source{}, fmt.Errorf("%w: unknown volume.format %q", ErrInvalid, c.Volume.Format)
	}
	d := c.Volume.Dims
	dims := volume.Dims{Width: d[0], Height: d[1], Depth: d[2]}
	if format == volume.FormatRaw8 && !dims.Valid() {
		return volume.Source{}, fmt.Errorf("%w: raw8 volumes need volume.dims", ErrInvalid)
	}
	return volume.Source{Path: c.Volume.Path, Format: format, Dims: dims}, nil
}

// LoggerOptions converts the logging section.
func (c *Config) LoggerOptions() logger.Options {
	opts := logger.Options{Level: c.Logging.Level, Console: true, JSON: c.Logging.JSON}
	if c.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(c.Logging.LogFile)
	}
	return opts
}
