// Command mockapi serves the moderation REST API from in-memory fixtures
// for local development.
//
// Usage:
//
//	mockapi -addr :8088 -latency 800ms -seed 42
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/abelbrown/moderator/internal/logging"
	"github.com/abelbrown/moderator/internal/mockapi"
)

func main() {
	addr := flag.String("addr", ":8088", "Listen address")
	latency := flag.Duration("latency", 0, "Random delay up to this long per request (exercises out-of-order responses)")
	seed := flag.Int64("seed", 1, "Fixture seed")
	n := flag.Int("n", 40, "Fixture records per resource")
	level := flag.String("log", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	if err := logging.InitWriter(os.Stderr, *level); err != nil {
		log.Fatal("Invalid log level", "err", err)
	}

	backend := mockapi.New(mockapi.Options{Latency: *latency, Seed: *seed, PerResource: *n})
	srv := &http.Server{
		Addr:              *addr,
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Info("mockapi listening", "addr", *addr, "latency", *latency, "seed", *seed)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("serve failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("shutdown", "err", err)
	}
	logging.Info("mockapi stopped")
}
