package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"artisthub/internal/domain"
	jwtsvc "artisthub/internal/pkg/jwt"
	"artisthub/internal/pkg/tokenstore"
	"artisthub/internal/repository"
)

// UserRepositoryInterface lists only the methods the auth service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type jwtService interface {
	GenerateToken(userID int64) (string, error)
	TTL() time.Duration
}

// Service contains all business logic for authentication
type Service struct {
	users   UserRepositoryInterface
	jwt     jwtService
	revoker tokenstore.Revoker
}

func NewService(users UserRepositoryInterface, jwt jwtService, revoker tokenstore.Revoker) *Service {
	return &Service{users: users, jwt: jwt, revoker: revoker}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, *TokenResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrEmailAlreadyExists
		}
		return nil, nil, err
	}

	tokens, err := s.issue(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, *TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issue(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Refresh revokes the presented token and issues a new one for the same user.
func (s *Service) Refresh(ctx context.Context, claims *jwtsvc.Claims) (*TokenResponse, error) {
	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}
	return s.issue(claims.UserID)
}

// Logout revokes the presented token until it would have expired.
func (s *Service) Logout(ctx context.Context, claims *jwtsvc.Claims) error {
	return s.revoke(ctx, claims)
}

func (s *Service) revoke(ctx context.Context, claims *jwtsvc.Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrInvalidCredentials
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.Remaining()); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *Service) issue(userID int64) (*TokenResponse, error) {
	token, err := s.jwt.GenerateToken(userID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.jwt.TTL().Seconds()),
	}, nil
}
