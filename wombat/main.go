// Package main runs the wombat turn server: the default decision engine
// behind the HTTP and WebSocket harness, with an optional Parquet turn
// archive.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/brensch/wombats/agent"
	"github.com/brensch/wombats/arena"
	"github.com/brensch/wombats/harness"
	"github.com/brensch/wombats/logging"
	"github.com/brensch/wombats/memory"
	"github.com/brensch/wombats/store"
)

var version = "dev"

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	listen := fs.String("listen", getEnvOrDefault("LISTEN", ":8080"), "HTTP listen address")
	reserve := fs.Duration("reserve", getEnvDurationOrDefault("RESERVE", 50*time.Millisecond), "Time kept back from time-left-ms for transport")
	defaultBudget := fs.Duration("default-budget", getEnvDurationOrDefault("DEFAULT_BUDGET", 2*time.Second), "Decision budget when a request has no time-left-ms")
	paramsPath := fs.String("params", getEnvOrDefault("PARAMS", ""), "YAML file of game parameters (defaults when empty)")
	memoryPath := fs.String("memory-path", getEnvOrDefault("MEMORY_PATH", strings.Join(memory.DefaultPath, ".")), "Dot-separated saved-state path of the global arena")
	barriers := fs.Bool("barriers", getEnvBoolOrDefault("BARRIERS", true), "Treat barriers as targets")
	archiveDir := fs.String("archive-dir", getEnvOrDefault("ARCHIVE_DIR", ""), "Directory for Parquet turn archives (disabled when empty)")
	flushRows := fs.Int("flush-rows", getEnvIntOrDefault("FLUSH_ROWS", 5000), "Finalize an archive batch at this many rows")
	flushEvery := fs.Duration("flush-every", getEnvDurationOrDefault("FLUSH_EVERY", 30*time.Second), "Finalize a non-empty archive batch at this interval")
	logFormat := fs.String("log-format", getEnvOrDefault("LOG_FORMAT", logging.FormatText), "Log format: text, json or pretty")
	logLevel := fs.String("log-level", getEnvOrDefault("LOG_LEVEL", "info"), "Log level: debug, info, warn or error")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		slog.Error("bad flag", "error", err)
		os.Exit(2)
	}
	handler, err := logging.New(os.Stderr, *logFormat, level, level <= slog.LevelDebug)
	if err != nil {
		slog.Error("bad flag", "error", err)
		os.Exit(2)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	params := arena.DefaultParams()
	if *paramsPath != "" {
		params, err = arena.LoadParams(*paramsPath)
		if err != nil {
			logger.Error("load params", "path", *paramsPath, "error", err)
			os.Exit(1)
		}
	}

	engine := agent.New(agent.Config{
		MemoryPath:      strings.Split(*memoryPath, "."),
		IncludeBarriers: *barriers,
		Params:          params,
		Logger:          logger.With("component", "agent"),
	})

	opts := harness.Options{
		Reserve:       *reserve,
		DefaultBudget: *defaultBudget,
		Logger:        logger.With("component", "harness"),
		Version:       version,
	}
	var recorder *store.Recorder
	if *archiveDir != "" {
		recorder = store.NewRecorder(*archiveDir, store.RecorderOptions{
			FlushRows:  *flushRows,
			FlushEvery: *flushEvery,
			Logger:     logger.With("component", "archive"),
		})
		opts.Recorder = recorder
	}

	srv := &http.Server{
		Addr:              *listen,
		Handler:           harness.NewServer(engine, opts).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("wombat server listening",
			"addr", *listen,
			"version", version,
			"shot_distance", params.ShotDistance,
			"barriers", *barriers,
			"archive_dir", *archiveDir,
		)
		errCh <- srv.ListenAndServe()
	}()

	exit := 0
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			exit = 1
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", "error", err)
		}
		cancel()
	}

	if recorder != nil {
		if err := recorder.Close(); err != nil {
			logger.Error("close archive", "error", err)
			exit = 1
		}
		logger.Info("archive closed",
			"rows", recorder.Written(),
			"files", recorder.Files(),
			"dropped", recorder.Dropped(),
		)
	}
	stop()
	os.Exit(exit)
}
