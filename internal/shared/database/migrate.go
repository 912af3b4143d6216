package database

import (
	"screenly/internal/movies"
	"screenly/internal/orders"
	"screenly/internal/sessions"
	"screenly/internal/theatres"
	"screenly/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults need the extension
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&users.User{},
		&theatres.Theatre{},
		&theatres.SeatType{},
		&theatres.Hall{},
		&theatres.Seat{},
		&movies.Movie{},
		&sessions.Session{},
		&orders.Order{},
		&orders.Ticket{},
	)
}
