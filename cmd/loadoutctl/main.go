// Package main provides the loadout console: it loads the vehicle and module catalog,
// restores the saved loadout of one profile, and edits it from text commands.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/ironclad/internal/config"
	"github.com/cory-johannsen/ironclad/internal/game/catalog"
	"github.com/cory-johannsen/ironclad/internal/game/command"
	"github.com/cory-johannsen/ironclad/internal/game/loadout"
	"github.com/cory-johannsen/ironclad/internal/observability"
	"github.com/cory-johannsen/ironclad/internal/storage"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	vehiclesDir := flag.String("vehicles-dir", "", "path to vehicle YAML definitions (overrides content.vehicles_dir)")
	modulesDir := flag.String("modules-dir", "", "path to module YAML definitions (overrides content.modules_dir)")
	profileFlag := flag.String("profile", "", "save profile UUID (overrides storage.profile)")
	execLine := flag.String("exec", "", "semicolon-separated commands to run instead of reading stdin")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *vehiclesDir != "" {
		cfg.Content.VehiclesDir = *vehiclesDir
	}
	if *modulesDir != "" {
		cfg.Content.ModulesDir = *modulesDir
	}
	if *profileFlag != "" {
		cfg.Storage.Profile = *profileFlag
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	profile, err := cfg.Storage.ProfileID()
	if err != nil {
		logger.Fatal("parsing profile", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catStart := time.Now()
	cat, err := catalog.Load(cfg.Content.VehiclesDir, cfg.Content.ModulesDir)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}
	logger.Info("catalog loaded",
		zap.Int("vehicles", cat.VehicleCount()),
		zap.Int("modules", cat.ModuleCount()),
		zap.Duration("elapsed", time.Since(catStart)),
	)

	backend, err := storage.Open(ctx, cfg.Storage, cfg.Database)
	if err != nil {
		logger.Fatal("opening storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer backend.Close()
	if err := backend.Health(ctx); err != nil {
		logger.Fatal("storage unavailable", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}

	engine := loadout.NewEngine(cat, loadout.NewPolicy(cfg.Loadout), backend.ForProfile(profile), logger)
	engine.Subscribe(observability.EventLogger(logger, engine))
	engine.LoadPersistent(ctx)

	logger.Info("loadout console ready",
		zap.String("profile", profile.String()),
		zap.String("driver", cfg.Storage.Driver),
		zap.Int("slots", engine.SlotCount()),
		zap.Duration("startup", time.Since(start)),
	)

	console := command.NewConsole(engine, command.DefaultRegistry(), cfg.Console.Wrap, logger)
	if *execLine != "" {
		err = runScript(ctx, console, strings.Split(*execLine, ";"), os.Stdout)
	} else {
		err = runConsole(ctx, console, os.Stdin, os.Stdout, cfg.Console.Prompt)
	}
	if err != nil {
		logger.Error("console stopped", zap.Error(err))
		os.Exit(1)
	}
}
