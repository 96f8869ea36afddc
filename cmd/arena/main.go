package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/arena/internal/ai"
	"github.com/udisondev/arena/internal/config"
	"github.com/udisondev/arena/internal/data"
	"github.com/udisondev/arena/internal/db"
	"github.com/udisondev/arena/internal/sim"
	"github.com/udisondev/arena/internal/spectator"
	"github.com/udisondev/arena/internal/telemetry"
)

const (
	ArenaConfigPath = "config/arena.yaml"

	recorderQueueSize = 64
	shutdownTimeout   = 5 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("loading .env", "err", err)
	}

	cfgPath := ArenaConfigPath
	if p := os.Getenv("ARENA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadArena(cfgPath)
	if err != nil {
		return fmt.Errorf("loading arena config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("arena starting",
		"config", cfgPath,
		"log_level", cfg.LogLevel,
		"tick_rate", cfg.TickRate)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			slog.Warn("telemetry shutdown", "err", err)
		}
	}()

	if err := data.LoadAbilities(); err != nil {
		return fmt.Errorf("loading abilities: %w", err)
	}
	if cfg.AbilitiesPath != "" {
		if err := data.LoadAbilitiesFile(cfg.AbilitiesPath); err != nil {
			return fmt.Errorf("loading abilities from %s: %w", cfg.AbilitiesPath, err)
		}
	}

	var (
		recorder *db.Recorder
		runs     *db.RunRepository
		runID    uuid.UUID
	)
	if cfg.Database.Enabled {
		dsn := cfg.Database.DSN()
		database, err := db.New(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		if err := db.RunMigrations(ctx, dsn); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		runs = db.NewRunRepository(database.Pool())
		runID, err = runs.StartRun(ctx)
		if err != nil {
			return fmt.Errorf("starting run: %w", err)
		}
		recorder = db.NewRecorder(runs, runID, recorderQueueSize)
		slog.Info("run recording enabled", "run", runID)
	}

	var opts []sim.Option
	if recorder != nil {
		opts = append(opts, sim.OnEncounterComplete(func(res sim.EncounterResult) {
			recorder.Submit(encounterRecord(res))
		}))
	}
	arena, err := sim.New(cfg, opts...)
	if err != nil {
		return fmt.Errorf("creating arena: %w", err)
	}
	defer arena.Close()
	if err := arena.Start(); err != nil {
		return fmt.Errorf("starting arena: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	loop := sim.NewLoop(arena, cfg.TickInterval())
	g.Go(func() error {
		if err := loop.Run(gctx); err != nil {
			return fmt.Errorf("simulation loop: %w", err)
		}
		return nil
	})

	if cfg.Spectator.Enabled {
		hub := spectator.NewHub()
		srv := &http.Server{
			Addr:              cfg.Spectator.ListenAddress,
			Handler:           hub.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			slog.Info("spectator listening", "address", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("spectator server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		})
		g.Go(func() error {
			if err := hub.Run(gctx, arena, cfg.Spectator.Interval); err != nil {
				return fmt.Errorf("spectator hub: %w", err)
			}
			return nil
		})
	}

	if recorder != nil {
		g.Go(func() error {
			if err := recorder.Run(gctx); err != nil {
				return fmt.Errorf("encounter recorder: %w", err)
			}
			return nil
		})
	}

	err = g.Wait()

	if runs != nil {
		fctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if ferr := runs.FinishRun(fctx, runID, arena.Loops()); ferr != nil {
			slog.Error("finishing run", "run", runID, "err", ferr)
		}
		slog.Info("run finished", "run", runID, "encounters", recorder.Written(), "dropped", recorder.Dropped())
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Info("arena stopped", "ticks", loop.Ticks(), "loops", arena.Loops())
	return nil
}

func encounterRecord(res sim.EncounterResult) db.EncounterRecord {
	return db.EncounterRecord{
		Scene:       res.Scene.String(),
		Loop:        res.Loop,
		Enemies:     res.Summary.Enemies,
		Hits:        res.Summary.Hits,
		DamageDealt: res.Summary.Damage,
		DamageTaken: res.Summary.Taken,
		Duration:    res.Summary.Duration,
		CompletedAt: time.Now(),
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
