// Package config handles viewer and renderer configuration.
package config

// Config holds all settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Render   RenderConfig   `yaml:"render"`
	Sun      SunConfig      `yaml:"sun"`
	Camera   CameraConfig   `yaml:"camera"`
	Volume   VolumeConfig   `yaml:"volume"`
	Transfer TransferConfig `yaml:"transfer"`
	Offline  OfflineConfig  `yaml:"offline"`
	Data     DataConfig     `yaml:"data"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings for the interactive viewer.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	ShowStats  bool   `yaml:"show_stats"`
}

// RenderConfig mirrors the ray-march parameters.
type RenderConfig struct {
	StepSize             float32    `yaml:"step_size"`
	Density              float32    `yaml:"density"`
	Threshold            float32    `yaml:"threshold"`
	MaxSteps             int        `yaml:"max_steps"`
	Jitter               bool       `yaml:"jitter"`
	Lighting             bool       `yaml:"lighting"`
	Absorption           float32    `yaml:"absorption"`
	Scattering           float32    `yaml:"scattering"`
	LightDir             [3]float32 `yaml:"light_dir,flow"`
	MSAASamples          int        `yaml:"msaa_samples"`
	MSAARadius           float32    `yaml:"msaa_radius"`
	MultipleScattering   bool       `yaml:"multiple_scattering"`
	MultiScatterSteps    int        `yaml:"multi_scatter_steps"`
	MultiScatterStrength float32    `yaml:"multi_scatter_strength"`
	Translucency         float32    `yaml:"translucency"`
}

// SunConfig sets the light from angles. When enabled it overrides
// render.light_dir.
type SunConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Azimuth   float32 `yaml:"azimuth"`
	Elevation float32 `yaml:"elevation"`
}

// CameraConfig holds the initial camera.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position,flow"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
	Fov         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
}

// Volume sources.
const (
	SourceProcedural = "procedural"
	SourceFile       = "file"
)

// VolumeConfig selects the density field.
type VolumeConfig struct {
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // raw8 or float32
	// Dims is required for raw8; float32 falls back to the .meta sidecar.
	Dims           [3]int `yaml:"dims,flow"`
	ProceduralSize int    `yaml:"procedural_size"`
}

// TransferConfig describes the transfer table. No stops means the built-in
// cloud table.
type TransferConfig struct {
	Entries int          `yaml:"entries"`
	Stops   []StopConfig `yaml:"stops"`
}

// StopConfig is one colour stop.
type StopConfig struct {
	At      float64 `yaml:"at"`
	Color   string  `yaml:"color"`
	Opacity float64 `yaml:"opacity"`
}

// OfflineConfig drives the CPU renderer.
type OfflineConfig struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Workers  int     `yaml:"workers"` // 0 = one per CPU
	TileSize int     `yaml:"tile_size"`
	Time     float32 `yaml:"time"` // jitter seed
	Output   string  `yaml:"output"`
	Overlay  bool    `yaml:"overlay"`
}

// DataConfig holds search paths and output locations.
type DataConfig struct {
	Paths         []string `yaml:"paths"` // searched for volumes and shader overrides
	ScreenshotDir string   `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with the stock values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Volume Renderer - Ray Marching",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Render: RenderConfig{
			StepSize:             0.01,
			Density:              1.0,
			Threshold:            0.1,
			MaxSteps:             256,
			Jitter:               true,
			Lighting:             true,
			Absorption:           1.0,
			Scattering:           0.5,
			LightDir:             [3]float32{0.3, -0.8, 0.5},
			MSAASamples:          2,
			MSAARadius:           0.3,
			MultipleScattering:   false,
			MultiScatterSteps:    4,
			MultiScatterStrength: 0.35,
			Translucency:         0.8,
		},
		Sun: SunConfig{
			Azimuth:   30,
			Elevation: 55,
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 0, 3},
			Yaw:         -90,
			Pitch:       0,
			Fov:         45,
			Near:        0.1,
			Far:         100,
			Speed:       2.5,
			Sensitivity: 0.1,
		},
		Volume: VolumeConfig{
			Source:         SourceProcedural,
			Format:         "float32",
			ProceduralSize: 128,
		},
		Transfer: TransferConfig{
			Entries: 256,
		},
		Offline: OfflineConfig{
			Width:    640,
			Height:   360,
			TileSize: 32,
			Output:   "frame.png",
		},
		Data: DataConfig{
			Paths:         []string{"."},
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
