package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/relayctl/pkg/app"
	relaymcp "github.com/urmzd/relayctl/pkg/mcp"
)

func main() {
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/relayctl/relayctl.db)")
	serialPort := flag.String("port", "", "Path to the relay board serial port (saved to the active profile)")
	routinesFile := flag.String("routines", "", "YAML file with additional routines")
	logFile := flag.String("log-file", "", "Also write JSON logs to this rotating file")
	logLevel := flag.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flag.Parse()

	// Logging must go to stderr, stdout is the MCP transport
	logCloser, err := app.SetupLogging(os.Stderr, app.LogOptions{Level: *logLevel, File: *logFile})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid logging configuration")
	}
	defer logCloser.Close()

	a, err := app.Open(context.Background(), app.Options{
		DBPath:       *dbPath,
		SerialPort:   *serialPort,
		RoutinesFile: *routinesFile,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start")
	}
	defer a.Close()

	mcpServer := relaymcp.NewServer(a.Panel, a.Validator)

	log.Info().Msg("Starting MCP server on stdio")

	if err := mcpServer.ServeStdio(); err != nil {
		log.Error().Err(err).Msg("MCP server failed")
	}
}
