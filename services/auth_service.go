package services

import (
	"fmt"
	"time"

	"stage-link/auth"
	"stage-link/domain"
	apperrors "stage-link/errors"
	"stage-link/repositories"
)

type IAuthService interface {
	Register(req auth.RegisterRequest) (Token, error)
	Login(req auth.LoginRequest) (Token, error)
}

type Token string

// AuthService is the thin token-issuance surface over the user store.
// Everything interesting about identity happens at the channel boundary;
// this only mints the credential.
type AuthService struct {
	userRepository repositories.IUserRepository
	secret         []byte
	tokenDuration  time.Duration
}

func NewAuthService(repo repositories.IUserRepository, secret []byte,
	tokenDuration time.Duration) *AuthService {
	return &AuthService{userRepository: repo, secret: secret, tokenDuration: tokenDuration}
}

func (s *AuthService) Register(req auth.RegisterRequest) (Token, error) {
	// Business rules first, before any expensive cryptographic work.
	if err := auth.ValidateRegister(req); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidPassword, err)
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return "", err
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.userRepository.CreateUser(req.Email, req.Name, hashedPassword, role)
	if err != nil {
		return "", err // Propagates ErrUserAlreadyExists if the email is taken.
	}

	token, err := auth.GenerateToken(s.secret, user.ID, string(user.Role), s.tokenDuration)
	if err != nil {
		return "", apperrors.ErrTokenGeneration
	}
	return Token(token), nil
}

func (s *AuthService) Login(req auth.LoginRequest) (Token, error) {
	if err := auth.ValidateLogin(req); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepository.FindByEmail(req.Email)
	if err != nil {
		// Generic error to prevent user enumeration attacks.
		return "", apperrors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.secret, user.ID, string(user.Role), s.tokenDuration)
	if err != nil {
		return "", apperrors.ErrTokenGeneration
	}
	return Token(token), nil
}
