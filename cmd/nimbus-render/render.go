package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/assets"
	"github.com/Faultbox/nimbus/internal/engine/debug"
	"github.com/Faultbox/nimbus/internal/logger"
	"github.com/Faultbox/nimbus/internal/raymarch"
	"github.com/Faultbox/nimbus/internal/scene"
)

// renderFrame ray-marches one frame on the CPU and writes a PNG.
func renderFrame(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	off := cfg.Offline
	if v := ctx.Int("width"); v > 0 {
		off.Width = v
	}
	if v := ctx.Int("height"); v > 0 {
		off.Height = v
	}
	if v := ctx.Int("workers"); v > 0 {
		off.Workers = v
	}
	if v := ctx.String("out"); v != "" {
		off.Output = v
	}
	if ctx.IsSet("time") {
		off.Time = float32(ctx.Float64("time"))
	}
	off.Overlay = off.Overlay || ctx.Bool("overlay")
	if off.Width <= 0 || off.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", off.Width, off.Height)
	}

	src, err := fieldSource(ctx, cfg)
	if err != nil {
		return err
	}
	files := assets.NewManager(cfg.Data.Paths...)
	defer files.Close()

	field, err := src.Load(files)
	if err != nil {
		return fmt.Errorf("loading %s: %w", src, err)
	}
	tf, err := cfg.TransferFunction()
	if err != nil {
		return err
	}
	params := cfg.Params()
	if ctx.Bool("multi-scatter") {
		params.EnableMultipleScattering = true
	}

	store, err := scene.NewStore(field, tf, params)
	if err != nil {
		return err
	}

	cam := cfg.NewCamera()
	cam.SetAspectRatio(off.Width, off.Height)
	frame := store.Load().Frame(cam.State(), off.Time, off.Width, off.Height)

	r := raymarch.NewRenderer(off.Workers, off.TileSize)
	logger.Info("rendering frame",
		zap.Stringer("source", src),
		zap.Stringer("dims", field.Dims),
		zap.Int("width", off.Width),
		zap.Int("height", off.Height),
		zap.Int("workers", r.Workers))

	fb, st := r.Render(frame)
	img := fb.RGBA(raymarch.ClearColor)
	if off.Overlay {
		debug.DrawOverlay(img, []string{
			fmt.Sprintf("%dx%d  %s", st.Width, st.Height, st.Elapsed.Round(time.Millisecond)),
			fmt.Sprintf("%.2f Mrays/s  %d samples", st.RaysPerSecond()/1e6, st.Samples),
		})
	}
	if err := debug.WritePNG(off.Output, img); err != nil {
		return err
	}

	logger.Sugar.Infof("frame statistics\n%s", frameStatsTable(st))
	logger.Info("frame written", zap.String("path", off.Output))
	return nil
}

func frameStatsTable(st raymarch.Stats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Workers", "Tiles", "Rays", "Samples", "Early outs", "Misses", "Render time"})
	table.Append([]string{
		fmt.Sprintf("%d", st.Workers),
		fmt.Sprintf("%d", st.Tiles),
		fmt.Sprintf("%d", st.Rays),
		fmt.Sprintf("%d", st.Samples),
		fmt.Sprintf("%d", st.EarlyOuts),
		fmt.Sprintf("%d", st.Misses),
		st.Elapsed.String(),
	})
	table.SetFooter([]string{"", "", "", "", "", "RAYS/S", fmt.Sprintf("%.0f", st.RaysPerSecond())})
	table.Render()
	return buf.String()
}
