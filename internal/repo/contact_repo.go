// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// ContactMessage model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreambooks/go-story-backend/internal/domain"
)

// CreateContactMessage inserts a contact message from userID.
func CreateContactMessage(ctx context.Context, db *gorm.DB, userID, message string) (*domain.ContactMessage, error) {
	m := &domain.ContactMessage{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// GetContactMessage fetches a message by ID, or ErrNotFound.
func GetContactMessage(ctx context.Context, db *gorm.DB, id string) (*domain.ContactMessage, error) {
	var m domain.ContactMessage
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListContactMessages returns all messages newest first (staff view).
func ListContactMessages(ctx context.Context, db *gorm.DB) ([]domain.ContactMessage, error) {
	var out []domain.ContactMessage
	err := db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

// ListContactMessagesByUser returns one user's messages newest first.
func ListContactMessagesByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.ContactMessage, error) {
	var out []domain.ContactMessage
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// UpdateContactMessage replaces the message text.
// Returns ErrNotFound when no row matched.
func UpdateContactMessage(ctx context.Context, db *gorm.DB, id, message string) error {
	res := db.WithContext(ctx).
		Model(&domain.ContactMessage{}).
		Where("id = ?", id).
		Update("message", message)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteContactMessage permanently removes a message.
// Returns ErrNotFound when no row matched.
func DeleteContactMessage(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ContactMessage{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
