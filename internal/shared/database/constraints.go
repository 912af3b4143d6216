package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency
// control
func MigrateConstraints(db *gorm.DB) error {
	// A seat can be held by at most one active ticket per session. The
	// index is partial: cancelled tickets keep their rows but free the
	// seat for the next purchaser.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_active_seat_per_session
		ON tickets (session_id, seat_id)
		WHERE state = 'ACTIVE';
	`).Error
	if err != nil {
		return err
	}

	// Seat map queries filter on session and state
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tickets_session_state
		ON tickets (session_id, state);
	`).Error
	if err != nil {
		return err
	}

	// The sweep scans open orders joined with their sessions
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_orders_state_session
		ON orders (state, session_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
