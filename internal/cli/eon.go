// Package cli implements the eon-sim subcommands, the way the teacher's
// internal/cli implements RunRelay/RunSDN: each Run<Name>(args []string)
// error owns its own flag set and returns a plain error for main to report.
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Claudiof5/eon-disaster-sim/internal/config"
	"github.com/Claudiof5/eon-disaster-sim/internal/eon"
	"github.com/Claudiof5/eon-disaster-sim/internal/runstatus"
	"github.com/Claudiof5/eon-disaster-sim/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RunEon loads a scenario and drives it to completion, serving /status and
// /metrics over HTTP for the duration of the run — mirroring RunSDN's
// shape (parse flags, load YAML config, start an HTTP side-channel, run
// the workload, shut down cleanly) but for a batch discrete-event run
// instead of a long-lived server.
func RunEon(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configFile := fs.String("config", "config.eon.yaml", "path to scenario driver config file")
	fs.Parse(args)

	cfg, err := config.Load(*configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := observability.Setup(ctx, observability.Config{
		Service:   cfg.Observability.Service,
		TraceAddr: cfg.Observability.TraceAddr,
		LogAddr:   cfg.Observability.LogAddr,
		Metrics:   cfg.Observability.Metrics,
	}); err != nil {
		return fmt.Errorf("failed to set up observability: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout)
		defer shutdownCancel()
		if err := observability.Shutdown(shutdownCtx); err != nil {
			log.Printf("observability shutdown error: %v", err)
		}
	}()

	observability.IncRuns()
	defer observability.DecRuns()

	var mu sync.Mutex
	status := runstatus.Status{Phase: runstatus.PhaseLoading, StartedAt: time.Now()}
	setStatus := func(mutate func(*runstatus.Status)) {
		mu.Lock()
		defer mu.Unlock()
		mutate(&status)
	}
	tracker := runstatus.NewTracker(func() runstatus.Status {
		mu.Lock()
		defer mu.Unlock()
		return status
	})

	mux := http.NewServeMux()
	mux.Handle("/status", &runstatus.Handler{Tracker: tracker})
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{Addr: cfg.StatusAddr, Handler: mux}
	go func() {
		slog.Info("status server starting", "addr", cfg.StatusAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("status server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("error shutting down status server: %v", err)
		}
	}()

	store := eon.NewFileScenarioStore(cfg.ScenarioPath)
	scenario, err := store.Load()
	if err != nil {
		setStatus(func(s *runstatus.Status) { s.Phase = runstatus.PhaseFailed; s.Error = err.Error() })
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	if scenario == nil {
		err := fmt.Errorf("scenario file %s does not exist", cfg.ScenarioPath)
		setStatus(func(s *runstatus.Status) { s.Phase = runstatus.PhaseFailed; s.Error = err.Error() })
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	registry := eon.NewRegistry()
	topo, isps, arrivals, err := scenario.Build(registry)
	if err != nil {
		setStatus(func(s *runstatus.Status) { s.Phase = runstatus.PhaseFailed; s.Error = err.Error() })
		return fmt.Errorf("failed to build scenario: %w", err)
	}
	disaster := scenario.BuildDisaster()

	sched := eon.NewScheduler(topo, isps, disaster)

	setStatus(func(s *runstatus.Status) { s.Phase = runstatus.PhaseRunning })

	_, span := observability.StartWith(ctx, "scheduler.run",
		observability.Attrs(observability.Num("eon.arrival_count", int64(len(arrivals)))))
	runErr := sched.Run(arrivals)
	if runErr != nil {
		span.Error(runErr, "run failed")
	}
	span.End()

	if runErr != nil {
		setStatus(func(s *runstatus.Status) { s.Phase = runstatus.PhaseFailed; s.Error = runErr.Error() })
		return runErr
	}

	snap := sched.Metrics.Snapshot(time.Now())
	setStatus(func(s *runstatus.Status) {
		s.Phase = runstatus.PhaseComplete
		s.EventsHandled = snap.Accepted + snap.Rerouted + snap.Disrupted + snap.Completed
	})

	if cfg.ResultPath != "" {
		if err := writeResult(cfg.ResultPath, snap); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}

	slog.Info("run complete",
		"accepted", snap.Accepted,
		"rerouted", snap.Rerouted,
		"disrupted", snap.Disrupted,
		"completed", snap.Completed,
		"blocking_probability", snap.BlockingProb,
	)

	return nil
}

func writeResult(path string, snap eon.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
