package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/repository"
	"github.com/google/uuid"
)

type AuthService struct {
	store repository.Store
	creds *Credentials
}

func NewAuthService(store repository.Store, creds *Credentials) *AuthService {
	return &AuthService{store: store, creds: creds}
}

func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)
	bio := strings.TrimSpace(req.Bio)

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	if err := validateBio(bio); err != nil {
		return nil, err
	}

	taken, err := s.store.UserExists(ctx, email, username)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.Conflict(msgUserExists)
	}

	hash, err := s.creds.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
		Bio:      bio,
	}
	if err := s.store.CreateUser(ctx, &user); err != nil {
		return nil, conflictOr(err, msgUserExists, msgUserNotFound)
	}

	slog.Info("user signed up", "action", "signup", "user_id", user.ID.String())
	return s.authResponse(&user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthenticated(msgInvalidCredentials)
		}
		return nil, apperr.Internal(err)
	}
	if !s.creds.VerifyPassword(user.Password, req.Password) {
		return nil, apperr.Unauthenticated(msgInvalidCredentials)
	}

	return s.authResponse(user)
}

// Me returns the caller's own profile.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, msgUserNotFound)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.creds.IssueToken(user)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &dto.AuthResponse{User: dto.NewUserResponse(user), Token: token}, nil
}
