package movies

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrMovieNotFound = errors.New("movie not found")

// Service interface defines the contract for catalog business logic
type Service interface {
	CreateMovie(ctx context.Context, req CreateMovieRequest) (*Movie, error)
	GetMovie(ctx context.Context, id uuid.UUID) (*Movie, error)
	MovieExists(ctx context.Context, id uuid.UUID) (bool, error)
	ListMovies(ctx context.Context) ([]Movie, error)
	UpdateMovie(ctx context.Context, id uuid.UUID, req UpdateMovieRequest) (*Movie, error)
	DeleteMovie(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService creates a new movie service instance
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateMovie(ctx context.Context, req CreateMovieRequest) (*Movie, error) {
	movie := &Movie{
		Title:       req.Title,
		Director:    req.Director,
		Description: req.Description,
		Year:        req.Year,
		Length:      req.Length,
	}
	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}
	return movie, nil
}

func (s *service) GetMovie(ctx context.Context, id uuid.UUID) (*Movie, error) {
	movie, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return movie, nil
}

func (s *service) MovieExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.GetMovie(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *service) ListMovies(ctx context.Context) ([]Movie, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateMovie(ctx context.Context, id uuid.UUID, req UpdateMovieRequest) (*Movie, error) {
	movie, err := s.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		movie.Title = *req.Title
	}
	if req.Director != nil {
		movie.Director = *req.Director
	}
	if req.Description != nil {
		movie.Description = *req.Description
	}
	if req.Year != nil {
		movie.Year = *req.Year
	}
	if req.Length != nil {
		movie.Length = *req.Length
	}

	if err := s.repo.Update(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}
	return movie, nil
}

func (s *service) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetMovie(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
