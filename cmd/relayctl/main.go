package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/relayctl/cmd/relayctl/console"
	"github.com/urmzd/relayctl/pkg/app"
)

func main() {
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/relayctl/relayctl.db)")
	serialPort := flag.String("port", "", "Path to the relay board serial port (saved to the active profile)")
	routinesFile := flag.String("routines", "", "YAML file with additional routines")
	logFile := flag.String("log-file", "", "Also write JSON logs to this rotating file")
	logLevel := flag.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	set := flag.String("set", "", "Write this 32-bit binary state, read it back and exit")
	flag.Parse()

	if *set != "" {
		os.Exit(oneShot(*set, *dbPath, *serialPort, *logFile, *logLevel))
	}

	rl, err := console.NewReadline()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logCloser, err := app.SetupLogging(rl.Stderr(), app.LogOptions{Level: *logLevel, File: *logFile})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid logging configuration")
	}
	defer logCloser.Close()

	mirror := console.NewTerminalMirror(rl.Stdout())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.Open(ctx, app.Options{
		DBPath:       *dbPath,
		SerialPort:   *serialPort,
		RoutinesFile: *routinesFile,
		Mirror:       mirror,
	})
	if err != nil {
		rl.Close()
		log.Fatal().Err(err).Msg("Failed to start")
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM)
		<-sigChan
		cancel()
		rl.Close()
	}()

	console.New(rl, a.Panel, mirror, a.History).Run(ctx)

	if !a.Close() {
		log.Warn().Msg("Relay board did not close cleanly")
	}
}

// oneShot writes state to the board, reads it back and prints the readback
// and whether the port closed. It returns the process exit code.
func oneShot(state, dbPath, serialPort, logFile, logLevel string) int {
	logCloser, err := app.SetupLogging(os.Stderr, app.LogOptions{Level: logLevel, File: logFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer logCloser.Close()

	ctx := context.Background()

	a, err := app.Open(ctx, app.Options{
		DBPath:       dbPath,
		SerialPort:   serialPort,
		RequireBoard: true,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to open relay board")
		return 1
	}

	a.Panel.SetInput(state)
	if _, err := a.Panel.ApplyInput(ctx); err != nil {
		fmt.Fprintln(os.Stderr, a.Panel.View().Status)
		a.Close()
		return 2
	}

	snap, err := a.Panel.ReadBoard(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read relay state")
		a.Close()
		return 1
	}

	fmt.Print(console.FormatReadback(snap.Binary, a.Close()))
	return 0
}
