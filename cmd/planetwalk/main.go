// Package main is the entry point for planetwalk.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/planetwalk/internal/config"
	"github.com/Faultbox/planetwalk/internal/engine/appearance"
	"github.com/Faultbox/planetwalk/internal/engine/input"
	"github.com/Faultbox/planetwalk/internal/game"
	"github.com/Faultbox/planetwalk/internal/game/events"
	"github.com/Faultbox/planetwalk/internal/game/world"
	"github.com/Faultbox/planetwalk/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== planetwalk ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("planetwalk error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("closed normally")
}

func run(cfg *config.Config) error {
	// Scene and model files load in parallel.
	var (
		scene = world.DefaultScene()
		look  appearance.Appearance
		group errgroup.Group
	)
	group.Go(func() error {
		if cfg.Scene.Path == "" {
			return nil
		}
		s, err := world.LoadScene(cfg.Scene.Path)
		if err != nil {
			return err
		}
		scene = s
		return nil
	})
	group.Go(func() error {
		look = appearance.New(cfg.Scene.Model)
		return nil
	})
	if err := group.Wait(); err != nil {
		return err
	}

	bus := events.NewBus()
	bus.SubscribeAll(logEvent(logger.Named("events")))

	w, err := world.New(cfg, scene, bus, look)
	if err != nil {
		return fmt.Errorf("failed to create world: %w", err)
	}
	logger.Info("world ready",
		zap.String("scene", scene.Name),
		zap.Float32("radius", w.Surface().Radius),
		zap.Int("colliders", w.Field().Len()),
		zap.Int("interactables", len(w.Points())),
	)

	var watcher *config.Watcher
	if cfg.Scene.Watch {
		if cfg.Source() == "" {
			logger.Warn("no config file to watch")
		} else {
			watcher, err = config.Watch(cfg.Source())
			if err != nil {
				return err
			}
			defer watcher.Close()
			logger.Info("watching config", zap.String("path", cfg.Source()))
		}
	}

	if cfg.Window.Enabled {
		g, err := game.New(cfg, w, watcher)
		if err != nil {
			return fmt.Errorf("failed to create viewer: %w", err)
		}
		defer g.Close()
		return g.Run()
	}

	script, err := input.ParseScript(cfg.Simulation.Script, cfg.Simulation.Loop)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := game.RunHeadless(ctx, w, script, cfg.Simulation.Ticks, cfg.Simulation.FixedStep, watcher)
	if err != nil && ctx.Err() == nil {
		return err
	}

	fmt.Printf("ticks=%d distance=%.2f blocked=%d footfalls=%d state=%s pos=(%.3f, %.3f, %.3f)\n",
		sum.Ticks, sum.Distance, sum.BlockedTicks, sum.Footfalls, sum.Final.Tag,
		sum.Final.Position.X, sum.Final.Position.Y, sum.Final.Position.Z)
	return nil
}

func logEvent(log *zap.Logger) events.Handler {
	return func(e events.Event) error {
		fields := []zap.Field{
			zap.Uint64("tick", e.Tick),
			zap.String("subject", e.Subject),
		}
		if e.Previous != "" {
			fields = append(fields, zap.String("previous", e.Previous))
		}
		log.Info(e.Kind.String(), fields...)
		return nil
	}
}
