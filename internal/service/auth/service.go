package auth

import (
	"context"
	"fmt"

	"github.com/clinigo/agenda-api/internal/model"
	"github.com/clinigo/agenda-api/internal/repository"
	"github.com/clinigo/agenda-api/pkg/auth"
	apperrors "github.com/clinigo/agenda-api/pkg/errors"
	"github.com/clinigo/agenda-api/pkg/security"
)

type Service struct {
	users  repository.UserRepository
	hasher *security.Hasher
	jwt    *auth.JWTService
}

func NewService(users repository.UserRepository, hasher *security.Hasher, jwt *auth.JWTService) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		jwt:    jwt,
	}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		// do not reveal whether the account exists
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.LoginResponse{Token: token, User: user}, nil
}

func (s *Service) ValidateToken(tokenString string) (*auth.Claims, error) {
	claims, err := s.jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token")
	}
	if !claims.Role.IsValid() {
		return nil, apperrors.Unauthorized("unknown role")
	}
	return claims, nil
}
