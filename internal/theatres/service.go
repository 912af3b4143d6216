package theatres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTheatreNotFound = errors.New("theatre not found")

// Service interface defines the contract for theatre management
type Service interface {
	CreateTheatre(ctx context.Context, req CreateTheatreRequest) (*Theatre, error)
	GetTheatre(ctx context.Context, id uuid.UUID) (*Theatre, error)
	ListTheatres(ctx context.Context) ([]Theatre, error)

	CreateHall(ctx context.Context, theatreID uuid.UUID, req CreateHallRequest) (*Hall, error)
	GetHall(ctx context.Context, id uuid.UUID) (*Hall, error)
	GetHallSeats(ctx context.Context, hallID uuid.UUID) ([]Seat, error)
	GetSeatsByIDs(ctx context.Context, ids []uuid.UUID) ([]Seat, error)

	CreateSeatType(ctx context.Context, req CreateSeatTypeRequest) (*SeatType, error)
	ListSeatTypes(ctx context.Context) ([]SeatType, error)
}

type service struct {
	repo Repository
}

// NewService creates a new theatre service instance
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateTheatre(ctx context.Context, req CreateTheatreRequest) (*Theatre, error) {
	theatre := &Theatre{
		Name:    req.Name,
		Address: req.Address,
	}
	if err := s.repo.CreateTheatre(ctx, theatre); err != nil {
		return nil, fmt.Errorf("failed to create theatre: %w", err)
	}
	return theatre, nil
}

func (s *service) GetTheatre(ctx context.Context, id uuid.UUID) (*Theatre, error) {
	theatre, err := s.repo.GetTheatreByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTheatreNotFound
		}
		return nil, err
	}
	return theatre, nil
}

func (s *service) ListTheatres(ctx context.Context) ([]Theatre, error) {
	return s.repo.ListTheatres(ctx)
}

// CreateHall builds a hall and materializes its rows × seats-per-row grid,
// all seats starting on the given pricing tier.
func (s *service) CreateHall(ctx context.Context, theatreID uuid.UUID, req CreateHallRequest) (*Hall, error) {
	if _, err := s.repo.GetTheatreByID(ctx, theatreID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTheatreNotFound
		}
		return nil, err
	}

	typeID, err := uuid.Parse(req.SeatTypeID)
	if err != nil {
		return nil, fmt.Errorf("invalid seat type id: %w", err)
	}
	if _, err := s.repo.GetSeatTypeByID(ctx, typeID); err != nil {
		return nil, fmt.Errorf("seat type lookup failed: %w", err)
	}

	hall := &Hall{
		TheatreID:   theatreID,
		Number:      req.Number,
		Rows:        req.Rows,
		SeatsPerRow: req.SeatsPerRow,
	}

	seats := make([]Seat, 0, req.Rows*req.SeatsPerRow)
	for row := 1; row <= req.Rows; row++ {
		for number := 1; number <= req.SeatsPerRow; number++ {
			seats = append(seats, Seat{
				Row:    row,
				Number: number,
				TypeID: typeID,
			})
		}
	}

	if err := s.repo.CreateHallWithSeats(ctx, hall, seats); err != nil {
		return nil, fmt.Errorf("failed to create hall: %w", err)
	}
	return hall, nil
}

func (s *service) GetHall(ctx context.Context, id uuid.UUID) (*Hall, error) {
	return s.repo.GetHallByID(ctx, id)
}

func (s *service) GetHallSeats(ctx context.Context, hallID uuid.UUID) ([]Seat, error) {
	return s.repo.GetSeatsByHallID(ctx, hallID)
}

func (s *service) GetSeatsByIDs(ctx context.Context, ids []uuid.UUID) ([]Seat, error) {
	return s.repo.GetSeatsByIDs(ctx, ids)
}

func (s *service) CreateSeatType(ctx context.Context, req CreateSeatTypeRequest) (*SeatType, error) {
	seatType := &SeatType{
		Name:   req.Name,
		Cost2D: req.Cost2D,
		Cost3D: req.Cost3D,
	}
	if err := s.repo.CreateSeatType(ctx, seatType); err != nil {
		return nil, fmt.Errorf("failed to create seat type: %w", err)
	}
	return seatType, nil
}

func (s *service) ListSeatTypes(ctx context.Context) ([]SeatType, error) {
	return s.repo.ListSeatTypes(ctx)
}
