// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Genre model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreambooks/go-story-backend/internal/domain"
)

// CreateGenre inserts a genre with a pre-allocated unique slug.
func CreateGenre(ctx context.Context, db *gorm.DB, name, slug string) (*domain.Genre, error) {
	g := &domain.Genre{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

// ListGenres returns every genre ordered by name, for filter dropdowns.
func ListGenres(ctx context.Context, db *gorm.DB) ([]domain.Genre, error) {
	var out []domain.Genre
	err := db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// GenreSlugExists reports whether any genre currently holds the given slug.
func GenreSlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Genre{}).
		Where("slug = ?", slug).
		Count(&n).Error
	return n > 0, err
}

// GenresByNames resolves genre names to rows, preserving no particular
// order. Unknown names are simply absent from the result.
func GenresByNames(ctx context.Context, db *gorm.DB, names []string) ([]domain.Genre, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var out []domain.Genre
	err := db.WithContext(ctx).Where("name IN ?", names).Find(&out).Error
	return out, err
}
