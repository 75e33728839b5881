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

	"github.com/rs/zerolog/log"
	"github.com/urmzd/relayctl/pkg/api"
	"github.com/urmzd/relayctl/pkg/app"

	_ "github.com/urmzd/relayctl/docs"
)

// @title           Relayctl API
// @version         1.0
// @description     REST API for driving a 32-channel Numato USB relay board

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

func main() {
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/relayctl/relayctl.db)")
	serialPort := flag.String("port", "", "Path to the relay board serial port (saved to the active profile)")
	routinesFile := flag.String("routines", "", "YAML file with additional routines")
	logFile := flag.String("log-file", "", "Also write JSON logs to this rotating file")
	logLevel := flag.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flag.Parse()

	logCloser, err := app.SetupLogging(os.Stderr, app.LogOptions{Level: *logLevel, File: *logFile})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid logging configuration")
	}
	defer logCloser.Close()

	ctx := context.Background()

	a, err := app.Open(ctx, app.Options{
		DBPath:       *dbPath,
		SerialPort:   *serialPort,
		RoutinesFile: *routinesFile,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start")
	}

	router := api.NewRouter(a.Panel, a.History, a.Validator)

	addr := a.Config.APIAddress()
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("address", addr).Msg("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	if !a.Close() {
		log.Warn().Msg("Relay board did not close cleanly")
	}
}
