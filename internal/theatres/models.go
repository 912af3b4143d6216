package theatres

import (
	"time"

	"github.com/google/uuid"
)

// Theatre is a physical cinema location
type Theatre struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Address   string    `json:"address" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Halls []Hall `json:"halls,omitempty" gorm:"foreignKey:TheatreID;constraint:OnDelete:CASCADE;"`
}

// Hall is a screening room inside a theatre. Its seat grid is created
// once, when the hall is built, and is static afterwards.
type Hall struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TheatreID   uuid.UUID `json:"theatre_id" gorm:"type:uuid;index;not null"`
	Number      int       `json:"number" gorm:"not null"`
	Rows        int       `json:"rows" gorm:"not null;check:rows > 0"`
	SeatsPerRow int       `json:"seats_per_row" gorm:"not null;check:seats_per_row > 0"`
	CreatedAt   time.Time `json:"created_at"`

	Seats []Seat `json:"seats,omitempty" gorm:"foreignKey:HallID;constraint:OnDelete:CASCADE;"`
}

// SeatType is a pricing tier. Cost2D/Cost3D are the per-ticket prices
// depending on the session format.
type SeatType struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Cost2D    float64   `json:"cost_2d" gorm:"not null;check:cost_2d >= 0"`
	Cost3D    float64   `json:"cost_3d" gorm:"not null;check:cost_3d >= 0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Seat identifies one physical seat by row/number within its hall
type Seat struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	HallID uuid.UUID `json:"hall_id" gorm:"type:uuid;index;not null;uniqueIndex:idx_seat_identity,priority:1"`
	Row    int       `json:"row" gorm:"not null;uniqueIndex:idx_seat_identity,priority:2"`
	Number int       `json:"number" gorm:"not null;uniqueIndex:idx_seat_identity,priority:3"`
	TypeID uuid.UUID `json:"type_id" gorm:"type:uuid;not null"`

	Type *SeatType `json:"type,omitempty" gorm:"foreignKey:TypeID;constraint:OnDelete:RESTRICT;"`
}

// TableName sets the table name for Theatre
func (Theatre) TableName() string {
	return "theatres"
}

// TableName sets the table name for Hall
func (Hall) TableName() string {
	return "halls"
}

// TableName sets the table name for SeatType
func (SeatType) TableName() string {
	return "seat_types"
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

// CreateTheatreRequest represents a request to register a theatre
type CreateTheatreRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=255"`
	Address string `json:"address" binding:"max=500"`
}

// CreateHallRequest represents a request to build a hall with its seat grid
type CreateHallRequest struct {
	Number      int    `json:"number" binding:"required,min=1"`
	Rows        int    `json:"rows" binding:"required,min=1,max=100"`
	SeatsPerRow int    `json:"seats_per_row" binding:"required,min=1,max=100"`
	SeatTypeID  string `json:"seat_type_id" binding:"required,uuid"`
}

// CreateSeatTypeRequest represents a request to create a pricing tier
type CreateSeatTypeRequest struct {
	Name   string  `json:"name" binding:"required,min=2,max=100"`
	Cost2D float64 `json:"cost_2d" binding:"required,min=0"`
	Cost3D float64 `json:"cost_3d" binding:"required,min=0"`
}
