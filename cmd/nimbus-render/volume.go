package main

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/assets"
	"github.com/Faultbox/nimbus/internal/logger"
	"github.com/Faultbox/nimbus/internal/synth"
	"github.com/Faultbox/nimbus/internal/volume"
)

// synthVolume writes the procedural cloud plus its .meta sidecar.
func synthVolume(ctx *cli.Context) error {
	if _, err := setup(ctx); err != nil {
		return err
	}
	defer logger.Sync()

	if ctx.NArg() != 1 {
		return fmt.Errorf("missing output file argument")
	}
	out := ctx.Args().First()

	field, err := synth.GenerateCube(ctx.Int("size"))
	if err != nil {
		return err
	}

	if err := writeFile(out, func(w io.Writer) error {
		if volume.IsCompressed(out) {
			return volume.WriteCompressed(w, func(zw io.Writer) error {
				return volume.WriteFloat32(zw, field.Samples)
			})
		}
		return volume.WriteFloat32(w, field.Samples)
	}); err != nil {
		return err
	}
	meta := volume.MetaPath(out)
	if err := writeFile(meta, func(w io.Writer) error {
		return volume.WriteMeta(w, field.Dims)
	}); err != nil {
		return err
	}

	logger.Info("volume written",
		zap.String("path", out),
		zap.String("meta", meta),
		zap.Stringer("dims", field.Dims))
	printStats(os.Stdout, out, field)
	return nil
}

// volumeInfo prints dimensions and density statistics.
func volumeInfo(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if ctx.NArg() != 1 {
		return errMissingArg
	}
	src, err := fileSource(ctx, cfg, ctx.Args().First())
	if err != nil {
		return err
	}

	files := assets.NewManager(cfg.Data.Paths...)
	defer files.Close()

	field, err := volume.LoadFile(files, src)
	if err != nil {
		return err
	}
	printStats(os.Stdout, src.Path, field)
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func printStats(w io.Writer, name string, f *volume.DensityField) {
	st := f.Stats()
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Volume", "Dims", "Voxels", "Min", "Max", "Mean", "Occupancy"})
	table.Append([]string{
		name,
		f.Dims.String(),
		fmt.Sprintf("%d", f.Dims.Count()),
		fmt.Sprintf("%.4f", st.Min),
		fmt.Sprintf("%.4f", st.Max),
		fmt.Sprintf("%.4f", st.Mean),
		fmt.Sprintf("%.1f %%", st.Occupancy*100),
	})
	table.Render()
}
