package db

import (
	"context"
	"fmt"
	"runtime"
)

// Bootstrap initializes the database with default data if it's empty.
// This is called after migrations and handles first-run setup.
func (db *DB) Bootstrap(ctx context.Context) error {
	needs, err := db.NeedsBootstrap(ctx)
	if err != nil {
		return fmt.Errorf("failed to check profiles: %w", err)
	}
	if !needs {
		return nil
	}

	profile := &Profile{Name: "default", IsActive: true}
	if err := db.Profiles().Create(ctx, profile); err != nil {
		return err
	}

	if err := db.APIServers().Create(ctx, &APIServer{
		ProfileID: profile.ID,
		Host:      "0.0.0.0",
		Port:      8080,
	}); err != nil {
		return err
	}

	return db.Boards().Create(ctx, &Board{
		ProfileID:     profile.ID,
		SerialPort:    defaultSerialPort(),
		SettleDelayMs: DefaultSettleDelayMs,
		TimeUnitMs:    DefaultTimeUnitMs,
	})
}

// defaultSerialPort guesses where a USB CDC relay board shows up.
func defaultSerialPort() string {
	switch runtime.GOOS {
	case "darwin":
		return "/dev/tty.usbmodem14201"
	case "windows":
		return "COM3"
	default:
		return "/dev/ttyACM0"
	}
}

// NeedsBootstrap returns true if the database needs initial setup.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
