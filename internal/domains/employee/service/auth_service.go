package service

import (
	"context"
	"fmt"
	"time"

	"catalog-backend/internal/domains/employee"
	"catalog-backend/internal/shared/apperr"
	"catalog-backend/pkg/logger"
)

// TokenIssuer signs employee tokens.
type TokenIssuer interface {
	GenerateToken(employeeID, email, name, profile string) (string, error)
	Expiration() time.Duration
}

type authService struct {
	repo   employee.Repository
	tokens TokenIssuer
}

func NewAuthService(repo employee.Repository, tokens TokenIssuer) employee.Service {
	return &authService{repo: repo, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, req employee.LoginRequest) (*employee.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Invalid(err)
	}

	e, err := s.repo.GetByEmail(ctx, req.Email)
	if apperr.IsNotFound(err) {
		return nil, employee.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	// Unknown, disabled and wrong password all answer the same way.
	if !e.Active {
		logger.Info("login rejected for inactive employee", map[string]interface{}{"employee_id": e.ID})
		return nil, employee.ErrInvalidCredentials
	}
	if !e.CheckPassword(req.Password) {
		return nil, employee.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(e.ID.String(), e.Email, e.FullName(), e.ProfileName)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &employee.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: s.tokens.Expiration().Milliseconds(),
		Employee:  e.ToResponse(),
	}, nil
}

func (s *authService) IsActive(ctx context.Context, email string) (bool, error) {
	e, err := s.repo.GetByEmail(ctx, email)
	if apperr.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return e.Active, nil
}
