// Package main is the entry point for the room viewer.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/roomview/internal/config"
	"github.com/Faultbox/roomview/internal/logger"
	"github.com/Faultbox/roomview/internal/viewer"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code. Deferred cleanup finishes before main
// exits.
func run() int {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			return 1
		}
		fmt.Printf("wrote %s\n", path)
		return 0
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	// Per-frame sites in the scene and viewer pick this up when they are built.
	logger.SetSampling(logger.SampleConfig{
		Tick:       time.Second,
		First:      cfg.Logging.SampleFirst,
		Thereafter: cfg.Logging.SampleThereafter,
	})

	logger.Info("=== Room Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	return serve(cfg, openViewer)
}

// app is the part of *viewer.Viewer the entry point drives.
type app interface {
	Run() error
	Close()
}

func openViewer(cfg *config.Config) (app, error) {
	v, err := viewer.New(cfg)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// serve opens the app, runs it and always closes it once opened.
func serve(cfg *config.Config, open func(*config.Config) (app, error)) int {
	a, err := open(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		return 1
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		return 1
	}

	logger.Info("viewer closed normally")
	return 0
}
