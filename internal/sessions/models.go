package sessions

import (
	"time"

	"screenly/internal/movies"
	"screenly/internal/theatres"

	"github.com/google/uuid"
)

// Session is a single screening. It is immutable after scheduling and is
// never deleted while orders reference it. StartsAt is stored in UTC.
type Session struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	MovieID   uuid.UUID `json:"movie_id" gorm:"type:uuid;index;not null"`
	HallID    uuid.UUID `json:"hall_id" gorm:"type:uuid;index;not null"`
	StartsAt  time.Time `json:"starts_at" gorm:"not null;index"`
	Is3D      bool      `json:"is_3d" gorm:"not null;default:false"`
	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt time.Time `json:"created_at"`

	Movie *movies.Movie  `json:"movie,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:RESTRICT;"`
	Hall  *theatres.Hall `json:"hall,omitempty" gorm:"foreignKey:HallID;constraint:OnDelete:RESTRICT;"`
}

// TableName sets the table name for Session
func (Session) TableName() string {
	return "sessions"
}

// ScheduleSessionRequest represents a request to schedule a screening
type ScheduleSessionRequest struct {
	MovieID  string    `json:"movie_id" binding:"required,uuid"`
	HallID   string    `json:"hall_id" binding:"required,uuid"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
	Is3D     bool      `json:"is_3d"`
}

// SeatAvailability pairs a seat with whether it can still be sold for a
// given session.
type SeatAvailability struct {
	Seat      theatres.Seat `json:"seat"`
	Available bool          `json:"available"`
}

// SeatMapResponse is the seat map returned for a session
type SeatMapResponse struct {
	SessionID uuid.UUID          `json:"session_id"`
	StartsAt  time.Time          `json:"starts_at"`
	Is3D      bool               `json:"is_3d"`
	Seats     []SeatAvailability `json:"seats"`
}
