package theatres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateTheatre(ctx context.Context, theatre *Theatre) error
	GetTheatreByID(ctx context.Context, id uuid.UUID) (*Theatre, error)
	ListTheatres(ctx context.Context) ([]Theatre, error)

	CreateHallWithSeats(ctx context.Context, hall *Hall, seats []Seat) error
	GetHallByID(ctx context.Context, id uuid.UUID) (*Hall, error)

	CreateSeatType(ctx context.Context, seatType *SeatType) error
	GetSeatTypeByID(ctx context.Context, id uuid.UUID) (*SeatType, error)
	ListSeatTypes(ctx context.Context) ([]SeatType, error)

	GetSeatsByHallID(ctx context.Context, hallID uuid.UUID) ([]Seat, error)
	GetSeatsByIDs(ctx context.Context, ids []uuid.UUID) ([]Seat, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTheatre(ctx context.Context, theatre *Theatre) error {
	return r.db.WithContext(ctx).Create(theatre).Error
}

func (r *repository) GetTheatreByID(ctx context.Context, id uuid.UUID) (*Theatre, error) {
	var theatre Theatre
	err := r.db.WithContext(ctx).
		Preload("Halls").
		Where("id = ?", id).
		First(&theatre).Error
	if err != nil {
		return nil, err
	}
	return &theatre, nil
}

func (r *repository) ListTheatres(ctx context.Context) ([]Theatre, error) {
	var theatres []Theatre
	err := r.db.WithContext(ctx).Order("name").Find(&theatres).Error
	return theatres, err
}

// CreateHallWithSeats persists the hall and its full seat grid in one
// transaction so a half-built hall never becomes visible.
func (r *repository) CreateHallWithSeats(ctx context.Context, hall *Hall, seats []Seat) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(hall).Error; err != nil {
			return err
		}
		for i := range seats {
			seats[i].HallID = hall.ID
		}
		return tx.CreateInBatches(seats, 500).Error
	})
}

func (r *repository) GetHallByID(ctx context.Context, id uuid.UUID) (*Hall, error) {
	var hall Hall
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&hall).Error
	if err != nil {
		return nil, err
	}
	return &hall, nil
}

func (r *repository) CreateSeatType(ctx context.Context, seatType *SeatType) error {
	return r.db.WithContext(ctx).Create(seatType).Error
}

func (r *repository) GetSeatTypeByID(ctx context.Context, id uuid.UUID) (*SeatType, error) {
	var seatType SeatType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&seatType).Error
	if err != nil {
		return nil, err
	}
	return &seatType, nil
}

func (r *repository) ListSeatTypes(ctx context.Context) ([]SeatType, error) {
	var seatTypes []SeatType
	err := r.db.WithContext(ctx).Order("name").Find(&seatTypes).Error
	return seatTypes, err
}

func (r *repository) GetSeatsByHallID(ctx context.Context, hallID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Preload("Type").
		Where("hall_id = ?", hallID).
		Order("row, number").
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetSeatsByIDs(ctx context.Context, ids []uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Preload("Type").
		Where("id IN ?", ids).
		Find(&seats).Error
	return seats, err
}
