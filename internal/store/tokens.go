package store

import (
	"errors"
	"fmt"

	"github.com/eco-rangers/eco-rangers-api/internal/models"
	"gorm.io/gorm"
)

type Tokens struct {
	db *gorm.DB
}

func NewTokens(db *gorm.DB) *Tokens {
	return &Tokens{db: db}
}

func (s *Tokens) Create(token *models.AccessToken) error {
	if err := s.db.Create(token).Error; err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	return nil
}

func (s *Tokens) FindByHash(hash string) (*models.AccessToken, error) {
	var token models.AccessToken
	if err := s.db.Preload("User").Where("token_hash = ?", hash).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

// DeleteByHash revokes a single token. Other tokens of the same user are
// untouched.
func (s *Tokens) DeleteByHash(hash string) error {
	res := s.db.Where("token_hash = ?", hash).Delete(&models.AccessToken{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
