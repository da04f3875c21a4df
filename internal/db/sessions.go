package db

import (
	"fmt"
	"time"
)

type SessionRecord struct {
	ID          string
	CabinetCode string
	Seed        uint32
	StartedAt   time.Time
	EndedAt     *time.Time
}

func (d *DB) StartSession(id, cabinetCode string, seed uint32) error {
	_, err := d.conn.Exec(`
		INSERT INTO sessions (id, cabinet_code, seed, started_at)
		VALUES ($1, $2, $3, now())
	`, id, cabinetCode, int64(seed))
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	return nil
}

func (d *DB) EndSession(id string) error {
	_, err := d.conn.Exec(`
		UPDATE sessions SET ended_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("ending session: %w", err)
	}
	return nil
}

func (d *DB) GetSession(id string) (*SessionRecord, error) {
	var s SessionRecord
	var seed int64
	err := d.conn.QueryRow(`
		SELECT id, cabinet_code, seed, started_at, ended_at FROM sessions WHERE id = $1
	`, id).Scan(&s.ID, &s.CabinetCode, &seed, &s.StartedAt, &s.EndedAt)
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	s.Seed = uint32(seed)
	return &s, nil
}
