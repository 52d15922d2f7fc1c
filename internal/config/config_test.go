package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/nimbus/internal/transfer"
	"github.com/Faultbox/nimbus/internal/volume"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("expected window 1280x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if cfg.Volume.Source != SourceProcedural {
		t.Errorf("expected procedural source, got %s", cfg.Volume.Source)
	}
	if cfg.Volume.ProceduralSize != 128 {
		t.Errorf("expected procedural size 128, got %d", cfg.Volume.ProceduralSize)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestDefaultParamsMatchRenderer(t *testing.T) {
	cfg := Default()
	got := cfg.Params()

	// Sanitized normalizes the light direction, so compare that way.
	if got.StepSize != 0.01 || got.Threshold != 0.1 || got.MaxSteps != 256 {
		t.Errorf("unexpected march settings: %+v", got)
	}
	if got.MSAASamples != 2 || got.Translucency != 0.8 {
		t.Errorf("unexpected quality settings: %+v", got)
	}
	if l := got.LightDir.Len(); l < 0.999 || l > 1.001 {
		t.Errorf("expected unit light direction, got length %f", l)
	}
}

func TestSunOverridesLightDir(t *testing.T) {
	cfg := Default()
	cfg.Sun.Enabled = true
	cfg.Sun.Azimuth = 0
	cfg.Sun.Elevation = 90

	p := cfg.Params()
	// Sun straight overhead: light travels down.
	if p.LightDir.Y() > -0.999 {
		t.Errorf("expected light travelling down, got %v", p.LightDir)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

render:
  step_size: 0.005
  threshold: 0.2
  multiple_scattering: true
  light_dir: [0, -1, 0]

volume:
  source: file
  path: "data/cloud.raw"
  format: raw8
  dims: [64, 32, 16]

transfer:
  entries: 64
  stops:
    - {at: 0, color: "#000000", opacity: 0}
    - {at: 1, color: "#ffffff", opacity: 1}

logging:
  level: "debug"
  log_file: "nimbus.log"
`)

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Render.StepSize != 0.005 {
		t.Errorf("expected step size 0.005, got %f", cfg.Render.StepSize)
	}
	if !cfg.Render.MultipleScattering {
		t.Error("expected multiple scattering to be enabled")
	}
	// Untouched keys keep their defaults.
	if cfg.Render.MaxSteps != 256 {
		t.Errorf("expected default max steps, got %d", cfg.Render.MaxSteps)
	}
	if cfg.Volume.Dims != [3]int{64, 32, 16} {
		t.Errorf("expected dims 64x32x16, got %v", cfg.Volume.Dims)
	}
	if cfg.Logging.LogFile != "nimbus.log" {
		t.Errorf("expected log file 'nimbus.log', got %s", cfg.Logging.LogFile)
	}

	src, err := cfg.VolumeSource()
	if err != nil {
		t.Fatalf("VolumeSource: %v", err)
	}
	if src.Format != volume.FormatRaw8 || src.Dims != (volume.Dims{Width: 64, Height: 32, Depth: 16}) {
		t.Errorf("unexpected source %+v", src)
	}

	tf, err := cfg.TransferFunction()
	if err != nil {
		t.Fatalf("TransferFunction: %v", err)
	}
	if tf.Len() != 64 {
		t.Errorf("expected 64 entries, got %d", tf.Len())
	}
	if _, a := tf.Lookup(1); a < 0.999 {
		t.Errorf("expected opaque top entry, got %f", a)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	path := writeConfig(t, `
window:
  width: not a number
  invalid syntax here
`)

	cfg := Default()
	if err := loadFromFile(cfg, path); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	path := writeConfig(t, "render:\n  stepsize: 0.5\n")

	cfg := Default()
	if err := loadFromFile(cfg, path); err == nil {
		t.Error("expected error for unknown key, got nil")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	path := writeConfig(t, "")

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Errorf("empty file should leave defaults, got %v", err)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFileEmptyPath(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Offline.Width != 640 {
		t.Errorf("expected default offline width, got %d", cfg.Offline.Width)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero window", func(c *Config) { c.Window.Width = 0 }},
		{"zero offline", func(c *Config) { c.Offline.Height = -1 }},
		{"zero entries", func(c *Config) { c.Transfer.Entries = 0 }},
		{"unknown source", func(c *Config) { c.Volume.Source = "network" }},
		{"file without path", func(c *Config) { c.Volume.Source = SourceFile }},
		{"bad format", func(c *Config) {
			c.Volume.Source = SourceFile
			c.Volume.Path = "a.raw"
			c.Volume.Format = "int16"
		}},
		{"raw8 without dims", func(c *Config) {
			c.Volume.Source = SourceFile
			c.Volume.Path = "a.raw"
			c.Volume.Format = "raw8"
		}},
		{"zero procedural", func(c *Config) { c.Volume.ProceduralSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestFloat32SourceWithoutDims(t *testing.T) {
	cfg := Default()
	cfg.Volume.Source = SourceFile
	cfg.Volume.Path = "cloud.raw"
	cfg.Volume.Format = "float32"

	src, err := cfg.VolumeSource()
	if err != nil {
		t.Fatalf("float32 without dims should defer to meta: %v", err)
	}
	if src.Dims != (volume.Dims{}) {
		t.Errorf("expected zero dims, got %v", src.Dims)
	}
}

func TestTransferFunctionDefault(t *testing.T) {
	cfg := Default()
	tf, err := cfg.TransferFunction()
	if err != nil {
		t.Fatalf("TransferFunction: %v", err)
	}
	if tf.Len() != transfer.DefaultEntries {
		t.Errorf("expected %d entries, got %d", transfer.DefaultEntries, tf.Len())
	}

	cfg.Transfer.Entries = 16
	small, err := cfg.TransferFunction()
	if err != nil {
		t.Fatalf("TransferFunction: %v", err)
	}
	if small.Len() != 16 {
		t.Errorf("expected 16 entries, got %d", small.Len())
	}
	_, a0 := small.Lookup(0)
	_, a1 := small.Lookup(1)
	if a0 != 0 || a1 < 0.69 {
		t.Errorf("resampled table should keep the ramp ends, got %f..%f", a0, a1)
	}
}

func TestTransferFunctionBadColor(t *testing.T) {
	cfg := Default()
	cfg.Transfer.Stops = []StopConfig{{At: 0, Color: "blue", Opacity: 1}}
	if _, err := cfg.TransferFunction(); err == nil {
		t.Error("expected error for bad colour, got nil")
	}
}

func TestNewCamera(t *testing.T) {
	cfg := Default()
	cfg.Camera.Position = [3]float32{1, 2, 5}
	cfg.Camera.Fov = 200

	cam := cfg.NewCamera()
	if cam.Position.X() != 1 || cam.Position.Z() != 5 {
		t.Errorf("unexpected position %v", cam.Position)
	}
	if cam.Fov != cam.MaxFov {
		t.Errorf("expected fov clamped to %f, got %f", cam.MaxFov, cam.Fov)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "nimbus.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find nimbus.yaml in current directory")
	}
}

func TestParseDims(t *testing.T) {
	d, err := ParseDims("64x32x16")
	if err != nil {
		t.Fatalf("ParseDims: %v", err)
	}
	if d != [3]int{64, 32, 16} {
		t.Errorf("unexpected dims %v", d)
	}

	for _, bad := range []string{"", "64x32", "0x1x1", "axbxc", "1x2x3x4"} {
		if _, err := ParseDims(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Window.ShowStats {
					t.Error("expected stats overlay with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "volume flags",
			setup: func() {
				*flagVolume = "cloud.raw"
				*flagFormat = "raw8"
				*flagDims = "8x8x8"
			},
			verify: func(cfg *Config) {
				if cfg.Volume.Source != SourceFile || cfg.Volume.Path != "cloud.raw" {
					t.Errorf("expected file source cloud.raw, got %s %s", cfg.Volume.Source, cfg.Volume.Path)
				}
				if cfg.Volume.Dims != [3]int{8, 8, 8} {
					t.Errorf("expected dims 8x8x8, got %v", cfg.Volume.Dims)
				}
			},
			teardown: func() {
				*flagVolume = ""
				*flagFormat = ""
				*flagDims = ""
			},
		},
		{
			name:  "procedural size",
			setup: func() { *flagProcedural = 64 },
			verify: func(cfg *Config) {
				if cfg.Volume.ProceduralSize != 64 {
					t.Errorf("expected procedural size 64, got %d", cfg.Volume.ProceduralSize)
				}
			},
			teardown: func() { *flagProcedural = 0 },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	path := writeConfig(t, `
window:
  width: 1600
  height: 900
`)

	*flagConfig = path
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Render.Translucency = 0.3
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Render.Translucency != 0.3 {
		t.Errorf("expected translucency 0.3, got %f", loaded.Render.Translucency)
	}
}
