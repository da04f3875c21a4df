package db

import (
	"clapshot/internal/events"
	"fmt"
	"time"
)

// EventRecord is one journal row.
type EventRecord struct {
	SessionID  string
	Event      events.Event
	RecordedAt time.Time
}

const insertEvent = `
	INSERT INTO target_events (session_id, kind, tick, x, y, width, height, bounty, asset, friendly, score, countdown, recorded_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

func eventArgs(rec EventRecord) []any {
	ev := rec.Event
	t := ev.Target
	return []any{
		rec.SessionID, string(ev.Kind), int64(ev.Tick),
		int(t.X), int(t.Y), int(t.Width), int(t.Height), int(t.Bounty), string(t.Asset),
		ev.Friendly, int(ev.Score), int(ev.Countdown), rec.RecordedAt,
	}
}

func (d *DB) RecordEvent(rec EventRecord) error {
	if _, err := d.conn.Exec(insertEvent, eventArgs(rec)...); err != nil {
		return fmt.Errorf("recording event: %w", err)
	}
	return nil
}

func (d *DB) BatchRecordEvents(records []EventRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertEvent)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(eventArgs(rec)...); err != nil {
			return fmt.Errorf("recording event in batch: %w", err)
		}
	}

	return tx.Commit()
}

// CountEvents returns how many events of kind were journaled for a session.
func (d *DB) CountEvents(sessionID string, kind events.Kind) (int, error) {
	var n int
	err := d.conn.QueryRow(`
		SELECT COUNT(*) FROM target_events WHERE session_id = $1 AND kind = $2
	`, sessionID, string(kind)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}
