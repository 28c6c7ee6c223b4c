// Package services – AccountService
//
// This file implements signup, profile lookup, and self-service account
// maintenance (update, password change, deletion). Session and token
// mechanics live with the authentication collaborator; this service only
// owns the account rows and their bcrypt password hashes.
package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dreambooks/go-story-backend/internal/domain"
	"github.com/dreambooks/go-story-backend/internal/repo"
)

// Profile aggregates the public view of an account: the user plus their
// stories and reviews, both newest first.
type Profile struct {
	User    *domain.User           `json:"user"`
	Stories []repo.StoryWithRating `json:"stories"`
	Reviews []domain.Review        `json:"reviews"`
}

// AccountService implements account lifecycle use cases.
type AccountService struct {
	DB *gorm.DB

	// BcryptCost overrides bcrypt.DefaultCost when > 0 (tests lower it).
	BcryptCost int
}

func (s *AccountService) cost() int {
	if s.BcryptCost > 0 {
		return s.BcryptCost
	}
	return bcrypt.DefaultCost
}

// Signup registers a new account. Username collisions yield
// ErrUsernameTaken; the unique index guards racing signups.
func (s *AccountService) Signup(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrTitleRequired
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return nil, err
	}
	u, err := repo.CreateUser(ctx, s.DB, username, strings.TrimSpace(email), string(hash))
	if err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// GetProfile returns the public profile for a username.
func (s *AccountService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	u, err := repo.GetUserByUsername(ctx, s.DB, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	stories, err := repo.ListStoriesPage(ctx, s.DB, repo.StoryFilter{AuthorID: u.ID, Order: repo.OrderNewest}, 0, 0)
	if err != nil {
		return nil, err
	}
	reviews, err := repo.ListReviewsByAuthor(ctx, s.DB, u.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, Stories: stories, Reviews: reviews}, nil
}

// Update changes the actor's own username and email. A username collision
// yields ErrUsernameTaken.
func (s *AccountService) Update(ctx context.Context, actor Actor, username, email string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrTitleRequired
	}
	if err := repo.UpdateUser(ctx, s.DB, actor.ID, username, strings.TrimSpace(email)); err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return repo.GetUser(ctx, s.DB, actor.ID)
}

// ChangePassword verifies the current password and stores a hash of the new
// one. A failed verification yields ErrWrongPassword.
func (s *AccountService) ChangePassword(ctx context.Context, actor Actor, current, next string) error {
	u, err := repo.GetUser(ctx, s.DB, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost())
	if err != nil {
		return err
	}
	return repo.UpdateUserPassword(ctx, s.DB, actor.ID, string(hash))
}

// Delete removes the actor's own account. Stories, chapters, reviews, and
// contact messages cascade with it.
func (s *AccountService) Delete(ctx context.Context, actor Actor) error {
	if err := repo.DeleteUser(ctx, s.DB, actor.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
