package repository

import (
	"context"
	"errors"

	"vueblog/internal/models"

	"gorm.io/gorm"
)

// TokenRepository defines the interface for auth token data operations.
// Each user holds at most one token, issued at registration.
type TokenRepository interface {
	Create(ctx context.Context, token *models.AuthToken) error
	GetByKey(ctx context.Context, key string) (*models.AuthToken, error)
	GetByUserID(ctx context.Context, userID uint) (*models.AuthToken, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new auth token repository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *models.AuthToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) GetByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.WithContext(ctx).Preload("User").Where("key = ?", key).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) GetByUserID(ctx context.Context, userID uint) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}
