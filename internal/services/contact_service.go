// Package services – ContactService
//
// Contact messages are stored, not relayed: staff read them through the same
// listing endpoint users use for their own history. Owners may edit or
// delete their messages; staff may do either on anyone's.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/dreambooks/go-story-backend/internal/domain"
	"github.com/dreambooks/go-story-backend/internal/repo"
)

// ContactService implements the contact-message use cases.
type ContactService struct {
	DB *gorm.DB
}

// Create stores a new message from the actor. Blank messages are rejected.
func (s *ContactService) Create(ctx context.Context, actor Actor, message string) (*domain.ContactMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	return repo.CreateContactMessage(ctx, s.DB, actor.ID, message)
}

// List returns messages newest first: all of them for staff, otherwise only
// the actor's own.
func (s *ContactService) List(ctx context.Context, actor Actor) ([]domain.ContactMessage, error) {
	if actor.Staff {
		return repo.ListContactMessages(ctx, s.DB)
	}
	return repo.ListContactMessagesByUser(ctx, s.DB, actor.ID)
}

// get loads a message and applies the owner-or-staff rule.
func (s *ContactService) get(ctx context.Context, actor Actor, id string) (*domain.ContactMessage, error) {
	m, err := repo.GetContactMessage(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	if m.UserID != actor.ID && !actor.Staff {
		return nil, ErrForbidden
	}
	return m, nil
}

// Update replaces the text of a message the actor owns (or any message, for
// staff). Blank replacements are rejected.
func (s *ContactService) Update(ctx context.Context, actor Actor, id, message string) (*domain.ContactMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if _, err := s.get(ctx, actor, id); err != nil {
		return nil, err
	}
	if err := repo.UpdateContactMessage(ctx, s.DB, id, message); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return repo.GetContactMessage(ctx, s.DB, id)
}

// Delete removes a message under the same owner-or-staff rule.
func (s *ContactService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.get(ctx, actor, id); err != nil {
		return err
	}
	if err := repo.DeleteContactMessage(ctx, s.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContactNotFound
		}
		return err
	}
	return nil
}
