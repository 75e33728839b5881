package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrBoardNotFound = errors.New("board config not found")

// Default board link settings
const (
	DefaultSettleDelayMs = 50
	DefaultTimeUnitMs    = 1000
)

// Board holds the serial link settings of the profile's relay board.
type Board struct {
	ID            int64
	ProfileID     int64
	SerialPort    string
	SettleDelayMs int
	TimeUnitMs    int
	CreatedAt     time.Time
}

// SettleDelay returns the pause after each board command.
func (b *Board) SettleDelay() time.Duration {
	return time.Duration(b.SettleDelayMs) * time.Millisecond
}

// TimeUnit returns the routine hold unit.
func (b *Board) TimeUnit() time.Duration {
	return time.Duration(b.TimeUnitMs) * time.Millisecond
}

// BoardStore provides board config operations.
type BoardStore interface {
	Get(ctx context.Context, profileID int64) (*Board, error)
	Create(ctx context.Context, b *Board) error
	SetSerialPort(ctx context.Context, profileID int64, port string) error
}

// Boards returns a BoardStore for this database.
func (db *DB) Boards() BoardStore {
	return &boardStore{db: db}
}

type boardStore struct {
	db *DB
}

func (s *boardStore) Get(ctx context.Context, profileID int64) (*Board, error) {
	b := &Board{}
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, profile_id, serial_port, settle_delay_ms, time_unit_ms, created_at
		FROM boards WHERE profile_id = ?
	`, profileID).Scan(&b.ID, &b.ProfileID, &b.SerialPort, &b.SettleDelayMs, &b.TimeUnitMs, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrBoardNotFound
	}
	if err != nil {
		return nil, err
	}
	b.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	return b, nil
}

func (s *boardStore) Create(ctx context.Context, b *Board) error {
	if b.SettleDelayMs <= 0 {
		b.SettleDelayMs = DefaultSettleDelayMs
	}
	if b.TimeUnitMs <= 0 {
		b.TimeUnitMs = DefaultTimeUnitMs
	}
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO boards (profile_id, serial_port, settle_delay_ms, time_unit_ms)
		VALUES (?, ?, ?, ?)
	`, b.ProfileID, b.SerialPort, b.SettleDelayMs, b.TimeUnitMs)
	if err != nil {
		return fmt.Errorf("failed to create board config: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

func (s *boardStore) SetSerialPort(ctx context.Context, profileID int64, port string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE boards SET serial_port = ? WHERE profile_id = ?
	`, port, profileID)
	if err != nil {
		return fmt.Errorf("failed to update board serial port: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrBoardNotFound
	}
	return nil
}
