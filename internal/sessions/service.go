package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"screenly/internal/theatres"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrHallNotFound    = errors.New("hall not found")
	ErrMovieNotFound   = errors.New("movie not found")
	ErrPastSession     = errors.New("session start must be in the future")
)

// MovieDirectory is the slice of the movie service this package needs
type MovieDirectory interface {
	MovieExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// SeatDirectory is the slice of the theatre service this package needs
type SeatDirectory interface {
	GetHall(ctx context.Context, id uuid.UUID) (*theatres.Hall, error)
	GetHallSeats(ctx context.Context, hallID uuid.UUID) ([]theatres.Seat, error)
}

// Service interface defines the contract for session scheduling and the
// seat availability resolver.
type Service interface {
	ScheduleSession(ctx context.Context, createdBy uuid.UUID, req ScheduleSessionRequest) (*Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	ListUpcoming(ctx context.Context) ([]Session, error)
	ListUpcomingByMovie(ctx context.Context, movieID uuid.UUID) ([]Session, error)

	// GetSeatMap computes availability for every seat of the session's
	// hall. Recomputed on every call; concurrent purchases change the
	// answer between requests, so the result is never cached.
	GetSeatMap(ctx context.Context, sessionID uuid.UUID) (*SeatMapResponse, error)
}

type service struct {
	repo   Repository
	movies MovieDirectory
	seats  SeatDirectory
	now    func() time.Time
}

// NewService creates a new session service instance
func NewService(repo Repository, movieDir MovieDirectory, seatDir SeatDirectory) Service {
	return &service{
		repo:   repo,
		movies: movieDir,
		seats:  seatDir,
		now:    time.Now,
	}
}

func (s *service) ScheduleSession(ctx context.Context, createdBy uuid.UUID, req ScheduleSessionRequest) (*Session, error) {
	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie id: %w", err)
	}
	hallID, err := uuid.Parse(req.HallID)
	if err != nil {
		return nil, fmt.Errorf("invalid hall id: %w", err)
	}

	exists, err := s.movies.MovieExists(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("movie lookup failed: %w", err)
	}
	if !exists {
		return nil, ErrMovieNotFound
	}

	if _, err := s.seats.GetHall(ctx, hallID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, fmt.Errorf("hall lookup failed: %w", err)
	}

	startsAt := req.StartsAt.UTC()
	if !startsAt.After(s.now().UTC()) {
		return nil, ErrPastSession
	}

	session := &Session{
		MovieID:   movieID,
		HallID:    hallID,
		StartsAt:  startsAt,
		Is3D:      req.Is3D,
		CreatedBy: createdBy,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to schedule session: %w", err)
	}
	return session, nil
}

func (s *service) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *service) ListUpcoming(ctx context.Context) ([]Session, error) {
	return s.repo.ListUpcoming(ctx, s.now().UTC())
}

func (s *service) ListUpcomingByMovie(ctx context.Context, movieID uuid.UUID) ([]Session, error) {
	return s.repo.ListUpcomingByMovie(ctx, movieID, s.now().UTC())
}

func (s *service) GetSeatMap(ctx context.Context, sessionID uuid.UUID) (*SeatMapResponse, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	seats, err := s.seats.GetHallSeats(ctx, session.HallID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hall seats: %w", err)
	}

	blockedIDs, err := s.repo.ActiveTicketSeatIDs(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active tickets: %w", err)
	}
	blocked := make(map[uuid.UUID]struct{}, len(blockedIDs))
	for _, id := range blockedIDs {
		blocked[id] = struct{}{}
	}

	availability := make([]SeatAvailability, 0, len(seats))
	for _, seat := range seats {
		_, taken := blocked[seat.ID]
		availability = append(availability, SeatAvailability{
			Seat:      seat,
			Available: !taken,
		})
	}

	return &SeatMapResponse{
		SessionID: session.ID,
		StartsAt:  session.StartsAt,
		Is3D:      session.Is3D,
		Seats:     availability,
	}, nil
}
