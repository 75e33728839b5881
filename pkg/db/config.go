package db

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNoActiveProfile = errors.New("no active profile found")

// Config represents the complete runtime configuration loaded from the database.
type Config struct {
	Profile   *Profile
	APIServer *APIServer
	Board     *Board
}

// APIAddress returns the API server listen address.
func (c *Config) APIAddress() string {
	if c.APIServer == nil {
		return "0.0.0.0:8080"
	}
	return c.APIServer.Address()
}

// SerialPort returns the relay board's serial port path.
func (c *Config) SerialPort() string {
	if c.Board == nil {
		return defaultSerialPort()
	}
	return c.Board.SerialPort
}

// SettleDelay returns the board settle delay.
func (c *Config) SettleDelay() time.Duration {
	if c.Board == nil {
		return DefaultSettleDelayMs * time.Millisecond
	}
	return c.Board.SettleDelay()
}

// TimeUnit returns the routine hold unit.
func (c *Config) TimeUnit() time.Duration {
	if c.Board == nil {
		return DefaultTimeUnitMs * time.Millisecond
	}
	return c.Board.TimeUnit()
}

// ActiveConfig loads the complete configuration for the active profile.
func (db *DB) ActiveConfig(ctx context.Context) (*Config, error) {
	profile, err := db.Profiles().GetActive(ctx)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrNoActiveProfile
		}
		return nil, fmt.Errorf("failed to get active profile: %w", err)
	}

	config := &Config{
		Profile: profile,
	}

	apiServer, err := db.APIServers().Get(ctx, profile.ID)
	if err != nil && !errors.Is(err, ErrAPIServerNotFound) {
		return nil, fmt.Errorf("failed to get API server config: %w", err)
	}
	config.APIServer = apiServer

	board, err := db.Boards().Get(ctx, profile.ID)
	if err != nil && !errors.Is(err, ErrBoardNotFound) {
		return nil, fmt.Errorf("failed to get board config: %w", err)
	}
	config.Board = board

	return config, nil
}
