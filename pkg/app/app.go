// Package app wires the database, the relay board, the routine scheduler
// and the panel together for the relayctl commands.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/relayctl/pkg/db"
	"github.com/urmzd/relayctl/pkg/device"
	"github.com/urmzd/relayctl/pkg/device/schema"
	"github.com/urmzd/relayctl/pkg/numato"
	"github.com/urmzd/relayctl/pkg/panel"
	"github.com/urmzd/relayctl/pkg/routine"
)

// Options controls how the application starts.
type Options struct {
	DBPath       string
	SerialPort   string // overrides and persists the profile's port when set
	RoutinesFile string // optional YAML routine definitions

	// RequireBoard makes Open fail instead of falling back to the
	// null controller when the board cannot be opened.
	RequireBoard bool

	// Mirror receives panel updates; a MemoryMirror is used when nil.
	Mirror panel.Mirror
}

// App holds the running application.
type App struct {
	DB        *db.DB
	Config    *db.Config
	Panel     *panel.Panel
	History   *RunHistory
	Validator *schema.Validator
}

// Open prepares the database, connects to the board and builds the panel.
func Open(ctx context.Context, opts Options) (*App, error) {
	database, err := db.Open(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	log.Info().Str("path", database.Path()).Msg("Database opened")

	a, err := build(ctx, database, opts)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	return a, nil
}

func build(ctx context.Context, database *db.DB, opts Options) (*App, error) {
	seeded, err := database.Setup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}
	if seeded {
		log.Info().Msg("First run detected, database bootstrapped")
	}

	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SerialPort != "" && cfg.Board != nil && opts.SerialPort != cfg.Board.SerialPort {
		if err := database.Boards().SetSerialPort(ctx, cfg.Profile.ID, opts.SerialPort); err != nil {
			return nil, fmt.Errorf("failed to save serial port: %w", err)
		}
		cfg.Board.SerialPort = opts.SerialPort
	}

	log.Info().
		Str("profile", cfg.Profile.Name).
		Str("serial_port", cfg.SerialPort()).
		Dur("settle_delay", cfg.SettleDelay()).
		Dur("time_unit", cfg.TimeUnit()).
		Msg("Configuration loaded")

	board, err := openBoard(cfg, opts.RequireBoard)
	if err != nil {
		return nil, err
	}

	sched := routine.NewScheduler(board, routine.Options{Unit: cfg.TimeUnit()})
	if opts.RoutinesFile != "" {
		defs, err := routine.LoadFile(opts.RoutinesFile)
		if err != nil {
			board.Close()
			return nil, err
		}
		for _, d := range defs {
			if err := sched.Register(d); err != nil {
				board.Close()
				return nil, err
			}
		}
		log.Info().Str("file", opts.RoutinesFile).Int("count", len(defs)).Msg("Routines loaded")
	}

	history := NewRunHistory(database.Runs(), cfg.Profile.ID)
	sched.OnFinish(history.Record)

	mirror := opts.Mirror
	if mirror == nil {
		mirror = panel.NewMemoryMirror()
	}

	return &App{
		DB:        database,
		Config:    cfg,
		Panel:     panel.New(board, sched, mirror),
		History:   history,
		Validator: schema.NewValidator(),
	}, nil
}

// openBoard connects to the relay board, falling back to the null
// controller unless the board is required.
func openBoard(cfg *db.Config, required bool) (device.Controller, error) {
	port := cfg.SerialPort()
	board, err := numato.NewController(port, numato.Config{SettleDelay: cfg.SettleDelay()})
	if err == nil {
		return board, nil
	}
	if required {
		return nil, err
	}
	log.Warn().Err(err).Str("port", port).Msg("Relay board unavailable, using null controller")
	return device.NewNullController(), nil
}

// Close stops any running routine, closes the board and the database.
// It reports whether the board link closed cleanly.
func (a *App) Close() bool {
	closed := a.Panel.Close()
	if err := a.DB.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database")
	}
	return closed
}

// IsBoardMissing reports whether err came from a board that could not be opened.
func IsBoardMissing(err error) bool {
	return errors.Is(err, device.ErrTransport)
}
