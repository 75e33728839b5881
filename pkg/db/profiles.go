package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile groups the settings for one board installation.
type Profile struct {
	ID        int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// ProfileStore provides profile operations.
type ProfileStore interface {
	GetActive(ctx context.Context) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
}

// Profiles returns a ProfileStore for this database.
func (db *DB) Profiles() ProfileStore {
	return &profileStore{db: db}
}

type profileStore struct {
	db *DB
}

func (s *profileStore) GetActive(ctx context.Context) (*Profile, error) {
	p := &Profile{}
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, is_active, created_at
		FROM profiles WHERE is_active = 1 LIMIT 1
	`).Scan(&p.ID, &p.Name, &p.IsActive, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	return p, nil
}

func (s *profileStore) Create(ctx context.Context, p *Profile) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (name, is_active)
		VALUES (?, ?)
	`, p.Name, p.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}
