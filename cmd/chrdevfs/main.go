// Copyright 2024 The chrdev Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// chrdevfs mounts a fixed-payload pseudo-device as a read-only file.
//
// By default it serves the built-in greeting; --payload-file serves
// the contents of a file instead (read once at startup, immutable
// afterwards).
//
// Usage:
//
//	chrdevfs --mountpoint /mnt/chrdev [--name chrdev] [--payload-file PATH]
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/malbolge/chrdev"
	"github.com/malbolge/chrdev/devfs"
	"github.com/malbolge/chrdev/internal/config"
	"github.com/malbolge/chrdev/internal/mmap"
)

// defaultMessage is the payload served when no --payload-file is
// given.
const defaultMessage = "Hello CLT 2024\n"

var (
	configPath  = pflag.String("config", "", "path to a TOML config file")
	mountpoint  = pflag.String("mountpoint", "", "directory to mount the device under")
	deviceName  = pflag.String("name", "", "name of the device file")
	payloadFile = pflag.String("payload-file", "", "serve the contents of this file instead of the built-in message")
	allowOther  = pflag.Bool("allow-other", false, "allow other users to open the device")
	maxSessions = pflag.Int("max-sessions", 0, "maximum concurrently open sessions (0 = unlimited)")
	verbose     = pflag.Bool("verbose", false, "enable debug logging")
)

func initLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(output).Level(level).With().Timestamp().Str("app", "chrdevfs").Logger()
	log.Logger = logger
	return logger
}

// loadConfig merges the optional config file with command-line
// flags; flags win.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return config.Config{}, err
		}
	}

	if pflag.CommandLine.Changed("mountpoint") {
		cfg.Mountpoint = *mountpoint
	}
	if pflag.CommandLine.Changed("name") {
		cfg.DeviceName = *deviceName
	}
	if pflag.CommandLine.Changed("payload-file") {
		cfg.PayloadFile = *payloadFile
	}
	if pflag.CommandLine.Changed("allow-other") {
		cfg.AllowOther = *allowOther
	}
	if pflag.CommandLine.Changed("max-sessions") {
		cfg.MaxSessions = *maxSessions
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadPayload returns the bytes the device will serve.
func loadPayload(cfg config.Config) ([]byte, error) {
	if cfg.PayloadFile == "" {
		return []byte(defaultMessage), nil
	}
	// The device copies the payload at construction, so the mapping
	// only needs to live until New returns.
	m, err := mmap.Open(cfg.PayloadFile)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = m.Close()
	}()
	data := make([]byte, m.Len())
	copy(data, m.Data())
	return data, nil
}

func main() {
	pflag.Parse()
	logger := initLogger()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.Mountpoint == "" {
		logger.Fatal().Msg("a mountpoint is required (--mountpoint or config file)")
	}

	payload, err := loadPayload(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load payload")
	}

	device := chrdev.New(payload, chrdev.Options{
		Name:        cfg.DeviceName,
		MaxSessions: cfg.MaxSessions,
	})

	server, err := devfs.Mount(devfs.Options{
		Mountpoint: cfg.Mountpoint,
		Device:     device,
		AllowOther: cfg.AllowOther,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to register device")
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signals
		logger.Info().Str("signal", sig.String()).Msg("unmounting")
		if err := server.Unmount(); err != nil {
			logger.Error().Err(err).Msg("unmount failed")
		}
	}()

	server.Wait()
	logger.Info().Str("device", device.Name()).Msg("device deregistered")
}
