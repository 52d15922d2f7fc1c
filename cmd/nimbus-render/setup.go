package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/Faultbox/nimbus/internal/config"
	"github.com/Faultbox/nimbus/internal/logger"
	"github.com/Faultbox/nimbus/internal/scene"
	"github.com/Faultbox/nimbus/internal/volume"
)

var errMissingArg = errors.New("missing volume file argument")

// setup loads the config named by --config and installs the logger.
func setup(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadFile(ctx.GlobalString("config"))
	if err != nil {
		return nil, err
	}
	if ctx.GlobalBool("v") {
		cfg.Logging.Level = "debug"
	}
	if err := logger.InitWithOptions(cfg.LoggerOptions()); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, nil
}

// fileSource builds a volume source from a path plus --format/--dims,
// falling back to the config's volume section.
func fileSource(ctx *cli.Context, cfg *config.Config, path string) (volume.Source, error) {
	format := cfg.Volume.Format
	if f := ctx.String("format"); f != "" {
		format = f
	}
	dims := cfg.Volume.Dims
	if s := ctx.String("dims"); s != "" {
		d, err := config.ParseDims(s)
		if err != nil {
			return volume.Source{}, err
		}
		dims = d
	}

	tmp := *cfg
	tmp.Volume.Path = path
	tmp.Volume.Format = format
	tmp.Volume.Dims = dims
	return tmp.VolumeSource()
}

// fieldSource picks the argument file, the configured file or the
// procedural cloud, in that order.
func fieldSource(ctx *cli.Context, cfg *config.Config) (scene.FieldSource, error) {
	if ctx.NArg() > 0 {
		src, err := fileSource(ctx, cfg, ctx.Args().First())
		if err != nil {
			return scene.FieldSource{}, err
		}
		return scene.FromFile(src), nil
	}
	if cfg.Volume.Source == config.SourceFile {
		src, err := cfg.VolumeSource()
		if err != nil {
			return scene.FieldSource{}, err
		}
		if src.Path == "" {
			return scene.FieldSource{}, errMissingArg
		}
		return scene.FromFile(src), nil
	}
	return scene.Procedural(cfg.Volume.ProceduralSize), nil
}
