package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	ListUpcomingByMovie(ctx context.Context, movieID uuid.UUID, after time.Time) ([]Session, error)
	ListUpcoming(ctx context.Context, after time.Time) ([]Session, error)

	// ActiveTicketSeatIDs returns the seats blocked for a session, i.e.
	// seats referenced by an Active ticket belonging to that session.
	ActiveTicketSeatIDs(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, session *Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	var session Session
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Preload("Hall").
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *repository) ListUpcomingByMovie(ctx context.Context, movieID uuid.UUID, after time.Time) ([]Session, error) {
	var sessions []Session
	err := r.db.WithContext(ctx).
		Preload("Hall").
		Where("movie_id = ? AND starts_at > ?", movieID, after).
		Order("starts_at").
		Find(&sessions).Error
	return sessions, err
}

func (r *repository) ListUpcoming(ctx context.Context, after time.Time) ([]Session, error) {
	var sessions []Session
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Preload("Hall").
		Where("starts_at > ?", after).
		Order("starts_at").
		Find(&sessions).Error
	return sessions, err
}

// ActiveTicketSeatIDs queries the tickets table directly by name; the
// ticket model lives in the orders package and importing it here would
// create a cycle.
func (r *repository) ActiveTicketSeatIDs(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error) {
	var seatIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("tickets").
		Where("session_id = ? AND state = ?", sessionID, "ACTIVE").
		Pluck("seat_id", &seatIDs).Error
	return seatIDs, err
}
