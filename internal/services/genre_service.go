// Package services – GenreService
//
// Genres are a small, mostly static catalog: staff create them, everyone
// reads them, nothing edits them afterwards.
package services

import (
	"context"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/dreambooks/go-story-backend/internal/domain"
	"github.com/dreambooks/go-story-backend/internal/repo"
	"github.com/dreambooks/go-story-backend/internal/utils"
)

// GenreService provides genre listing and staff-only creation.
type GenreService struct {
	DB *gorm.DB
}

// List returns all genres ordered by name.
func (s *GenreService) List(ctx context.Context) ([]domain.Genre, error) {
	return repo.ListGenres(ctx, s.DB)
}

// Create adds a genre. Staff only. The slug derives from the name when not
// supplied, probing numeric suffixes exactly like story slugs. A duplicate
// name yields ErrDuplicateGenre.
func (s *GenreService) Create(ctx context.Context, actor Actor, name, slug string) (*domain.Genre, error) {
	if !actor.Staff {
		return nil, ErrForbidden
	}
	name = normalizeTitle(name)
	if name == "" {
		return nil, ErrTitleRequired
	}

	slug = strings.TrimSpace(slug)
	if slug == "" {
		base := utils.Slugify(name)
		if base == "" {
			base = "genre"
		}
		candidate := base
		for counter := 1; ; counter++ {
			taken, err := repo.GenreSlugExists(ctx, s.DB, candidate)
			if err != nil {
				return nil, err
			}
			if !taken {
				slug = candidate
				break
			}
			candidate = base + "-" + strconv.Itoa(counter)
		}
	}

	g, err := repo.CreateGenre(ctx, s.DB, name, slug)
	if err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, ErrDuplicateGenre
		}
		return nil, err
	}
	return g, nil
}

