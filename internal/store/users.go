package store

import (
	"errors"
	"fmt"

	"github.com/eco-rangers/eco-rangers-api/internal/models"
	"gorm.io/gorm"
)

type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Create inserts the user. The unique indexes on username and email decide
// duplicates atomically; on a duplicate-key error a follow-up read only
// disambiguates which field collided.
func (s *Users) Create(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var count int64
			s.db.Model(&models.User{}).Where("username = ?", user.Username).Count(&count)
			if count > 0 {
				return ErrDuplicateUsername
			}
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Users) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Users) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
