// Package main is the entry point for the interactive volume viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/app"
	"github.com/Faultbox/nimbus/internal/config"
	"github.com/Faultbox/nimbus/internal/logger"
)

// viewer is the part of *app.App that main drives.
type viewer interface {
	Run() error
	Close()
}

func main() {
	os.Exit(run())
}

// run returns the process exit code. Deferred cleanup runs before main
// exits.
func run() int {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if err := logger.InitWithOptions(cfg.LoggerOptions()); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("=== Nimbus Volume Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		return 1
	}
	return runViewer(a)
}

// runViewer runs v to completion and always closes it.
func runViewer(v viewer) int {
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		return 1
	}

	logger.Info("viewer closed normally")
	return 0
}
