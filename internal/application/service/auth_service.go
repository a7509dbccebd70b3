package service

import (
	"context"
	"strings"
	"time"

	"github.com/sangkips/receiptflow/pkg/apperror"
	"github.com/sangkips/receiptflow/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService signs in the dashboard administrator
type AuthService struct {
	adminEmail   string
	passwordHash []byte
	jwtManager   *utils.JWTManager
	logger       *zap.Logger
}

// NewAuthService creates a new auth service. passwordHash is a bcrypt hash.
func NewAuthService(adminEmail, passwordHash string, jwtManager *utils.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		adminEmail:   strings.ToLower(strings.TrimSpace(adminEmail)),
		passwordHash: []byte(passwordHash),
		jwtManager:   jwtManager,
		logger:       logger,
	}
}

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Email       string
	AccessToken string
	ExpiresIn   time.Duration
}

// Login checks the admin credentials and returns an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if len(s.passwordHash) == 0 || email != s.adminEmail {
		s.logger.Warn("Rejected login", zap.String("email", email))
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(input.Password)); err != nil {
		s.logger.Warn("Rejected login", zap.String("email", email))
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(email, utils.RoleAdmin)
	if err != nil {
		return nil, apperror.Wrap(500, "Failed to generate access token", err)
	}

	s.logger.Info("Admin signed in", zap.String("email", email))
	return &LoginOutput{
		Email:       email,
		AccessToken: token,
		ExpiresIn:   s.jwtManager.AccessTokenExpiry(),
	}, nil
}
