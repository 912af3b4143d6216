package movies

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, movie *Movie) error
	GetByID(ctx context.Context, id uuid.UUID) (*Movie, error)
	List(ctx context.Context) ([]Movie, error)
	Update(ctx context.Context, movie *Movie) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, movie *Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Movie, error) {
	var movie Movie
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *repository) List(ctx context.Context) ([]Movie, error) {
	var movies []Movie
	err := r.db.WithContext(ctx).Order("title").Find(&movies).Error
	return movies, err
}

func (r *repository) Update(ctx context.Context, movie *Movie) error {
	return r.db.WithContext(ctx).Save(movie).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Movie{}).Error
}
