// nimbus-render renders density volumes on the CPU and manages volume files.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "nimbus-render"
	app.Usage = "render volumetric clouds without a GPU"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "YAML config file (defaults apply when omitted)",
		},
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "ray-march a single frame to PNG",
			Description: `
Render one frame with the multi-threaded CPU ray marcher. Without a volume
argument the procedural cloud is generated; otherwise the raw file is loaded
with the configured or given format and dimensions.`,
			ArgsUsage: "[volume.raw]",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "width", Usage: "frame width (config offline.width)"},
				cli.IntFlag{Name: "height", Usage: "frame height (config offline.height)"},
				cli.IntFlag{Name: "workers", Usage: "worker goroutines, 0 = one per CPU"},
				cli.StringFlag{Name: "format", Usage: "raw volume format: raw8 or float32"},
				cli.StringFlag{Name: "dims", Usage: "raw volume dimensions WxHxD"},
				cli.StringFlag{Name: "out, o", Usage: "output PNG (config offline.output)"},
				cli.BoolFlag{Name: "overlay", Usage: "stamp frame statistics onto the image"},
				cli.BoolFlag{Name: "multi-scatter", Usage: "enable multiple scattering"},
				cli.Float64Flag{Name: "time", Usage: "jitter seed time in seconds"},
			},
			Action: renderFrame,
		},
		{
			Name:  "synth",
			Usage: "write the procedural cloud as a float32 volume",
			Description: `
Generate the procedural cloud and write it as little-endian float32 samples
with a .meta sidecar. A .zst output name compresses the samples.`,
			ArgsUsage: "output.raw[.zst]",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "size, s", Value: 128, Usage: "cube edge length"},
			},
			Action: synthVolume,
		},
		{
			Name:      "info",
			Usage:     "print dimensions and density statistics of a volume",
			ArgsUsage: "volume.raw[.zst]",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "format", Value: "float32", Usage: "raw8 or float32"},
				cli.StringFlag{Name: "dims", Usage: "dimensions WxHxD (float32 reads .meta when omitted)"},
			},
			Action: volumeInfo,
		},
	}
	return app
}
