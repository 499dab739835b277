package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/eco-rangers/eco-rangers-api/internal/dto"
	"github.com/eco-rangers/eco-rangers-api/internal/models"
	"github.com/eco-rangers/eco-rangers-api/internal/store"
	"github.com/eco-rangers/eco-rangers-api/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// tokenName labels every issued token; the API serves a single mobile client.
const tokenName = "mobile"

type UserStore interface {
	Create(*models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
}

type TokenStore interface {
	Create(*models.AccessToken) error
	FindByHash(hash string) (*models.AccessToken, error)
	DeleteByHash(hash string) error
}

type AuthService struct {
	users  UserStore
	tokens TokenStore
}

func NewAuthService(users UserStore, tokens TokenStore) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := validation.Validate.Struct(req); err != nil {
		return nil, &ValidationError{Fields: validation.FieldErrors(err)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username: req.Username,
		Name:     req.Username,
		Email:    req.Email,
		Password: string(hash),
	}

	if err := s.users.Create(&user); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateUsername):
			return nil, fieldError("username", "The username has already been taken.")
		case errors.Is(err, store.ErrDuplicateEmail):
			return nil, fieldError("email", "The email has already been taken.")
		}
		return nil, err
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Message: "Registered",
		Data:    dto.AuthData{User: user},
		Token:   token,
	}, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := validation.Validate.Struct(req); err != nil {
		return nil, &ValidationError{Fields: validation.FieldErrors(err)}
	}

	user, err := s.users.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Each login issues a fresh token; earlier sessions stay valid.
	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Message: "Logged in",
		Data:    dto.AuthData{User: *user},
		Token:   token,
	}, nil
}

// CurrentUser resolves the authenticated caller from a bearer token.
func (s *AuthService) CurrentUser(token string) (*models.User, error) {
	stored, err := s.tokens.FindByHash(hashToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &stored.User, nil
}

// Logout revokes exactly the presented token. Other tokens of the same user
// keep working.
func (s *AuthService) Logout(token string) error {
	if err := s.tokens.DeleteByHash(hashToken(token)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

// issueToken mints a random bearer token, persists its digest and returns the
// plaintext. The plaintext is not recoverable afterwards.
func (s *AuthService) issueToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	raw := base64.URLEncoding.EncodeToString(rawBytes)
	record := models.AccessToken{
		UserID:    user.ID,
		Name:      tokenName,
		TokenHash: hashToken(raw),
	}
	if err := s.tokens.Create(&record); err != nil {
		return "", err
	}
	return raw, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
