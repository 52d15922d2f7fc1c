package config

import (
	"flag"
	"fmt"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging and the stats overlay")
	flagVolume     = flag.String("volume", "", "Raw volume file to load instead of the procedural cloud")
	flagFormat     = flag.String("format", "", "Raw volume format: raw8 or float32")
	flagDims       = flag.String("dims", "", "Raw volume dimensions as WxHxD")
	flagProcedural = flag.Int("procedural-size", 0, "Edge length of the procedural cloud")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Window.ShowStats = true
	}
	if *flagVolume != "" {
		cfg.Volume.Source = SourceFile
		cfg.Volume.Path = *flagVolume
	}
	if *flagFormat != "" {
		cfg.Volume.Format = *flagFormat
	}
	if *flagDims != "" {
		if d, err := ParseDims(*flagDims); err == nil {
			cfg.Volume.Dims = d
		}
	}
	if *flagProcedural > 0 {
		cfg.Volume.ProceduralSize = *flagProcedural
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}

// ParseDims parses "WxHxD".
func ParseDims(s string) ([3]int, error) {
	var d [3]int
	var tail string
	n, _ := fmt.Sscanf(s, "%dx%dx%d%s", &d[0], &d[1], &d[2], &tail)
	if n != 3 || d[0] <= 0 || d[1] <= 0 || d[2] <= 0 {
		return [3]int{}, fmt.Errorf("invalid dimensions %q, want WxHxD", s)
	}
	return d, nil
}
