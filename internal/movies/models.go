package movies

import (
	"time"

	"github.com/google/uuid"
)

// Movie is a catalog entry managers schedule sessions for
type Movie struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `json:"title" gorm:"not null;size:255"`
	Director    string    `json:"director" gorm:"size:255"`
	Description string    `json:"description" gorm:"type:text"`
	Year        int       `json:"year" gorm:"check:year >= 1888"`
	Length      int       `json:"length" gorm:"check:length > 0"` // minutes
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName sets the table name for Movie
func (Movie) TableName() string {
	return "movies"
}

// CreateMovieRequest represents a request to add a movie to the catalog
type CreateMovieRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Director    string `json:"director" binding:"max=255"`
	Description string `json:"description" binding:"max=2000"`
	Year        int    `json:"year" binding:"required,min=1888,max=2100"`
	Length      int    `json:"length" binding:"required,min=1,max=1000"`
}

// UpdateMovieRequest represents a partial movie update
type UpdateMovieRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Director    *string `json:"director" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Year        *int    `json:"year" binding:"omitempty,min=1888,max=2100"`
	Length      *int    `json:"length" binding:"omitempty,min=1,max=1000"`
}
