// FWT Dashboard
// Copyright (c) 2026 The FWT Dashboard Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of FWT Dashboard.
//
// FWT Dashboard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// FWT Dashboard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with FWT Dashboard.  If not, see <http://www.gnu.org/licenses/>.

// fwtd is the dashboard backend daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/KaiUnt/fwt-dashboard-sub000/internal/telemetry"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/api"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/cache"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/config"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/database/rowstore"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/helpers"
	"github.com/KaiUnt/fwt-dashboard-sub000/pkg/provider/liveheats"
)

const (
	appVersion      = "0.1.0"
	janitorInterval = time.Minute
)

func run() error {
	dataDir, err := os.UserConfigDir()
	if err != nil {
		dataDir = "."
	}
	defaultDir := filepath.Join(dataDir, "fwtd")

	configDir := flag.String("config-dir", defaultDir, "directory holding "+config.CfgFile)
	org := flag.String("org", "fwt", "results provider organisation short name")
	debug := flag.Bool("debug", false, "enable debug logging and console output")
	flag.Parse()

	cfg, err := config.NewConfig(*configDir, config.BaseDefaults)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var extraWriters []io.Writer
	if *debug || cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		extraWriters = append(extraWriters, zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	sentryWriter, err := telemetry.Init(cfg.Telemetry(), appVersion)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	if sentryWriter != nil {
		extraWriters = append(extraWriters, sentryWriter)
		defer telemetry.Close()
	}

	if err := helpers.InitLogging(*configDir, extraWriters); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	memCache := cache.New(clockwork.NewRealClock())
	memCache.StartJanitor(ctx, janitorInterval)

	server := api.NewServer(
		cfg,
		liveheats.New(cfg.Provider(), *org),
		rowstore.New(cfg.Supabase()),
		memCache,
	)

	log.Info().Str("config", cfg.Path()).Str("org", *org).Msg("starting fwtd")
	return server.Run(ctx)
}

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("fwtd exited with error")
		os.Exit(1)
	}
}
