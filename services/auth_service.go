package services

import (
	"fmt"

	"pairchat/auth"
	"pairchat/domain"
	"pairchat/errors"
	"pairchat/repositories"
)

type IAuthService interface {
	Register(username, displayName, password string) (Token, domain.Identity, error)
	Login(username, password string) (Token, domain.Identity, error)
	Verify(credential string) (domain.Identity, error)
}

type Token string

// AuthService issues credentials and verifies them. The same Verify is
// consumed by the HTTP middleware and the WebSocket handshake, so both
// paths apply identical rules.
type AuthService struct {
	userRepository repositories.IUserRepository
	tokens         *auth.TokenManager
}

func NewAuthService(repo repositories.IUserRepository, tokens *auth.TokenManager) IAuthService {
	return &AuthService{userRepository: repo, tokens: tokens}
}

func (s *AuthService) Register(username, displayName, password string) (Token, domain.Identity, error) {
	valReq := auth.RegisterRequest{
		Username:    username,
		DisplayName: displayName,
		Password:    password,
	}

	// Validate before any expensive cryptographic operation.
	if err := auth.ValidateRegister(valReq); err != nil {
		return "", domain.Identity{}, fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}

	// Hash in the service layer so the repository never sees a plain password.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.userRepository.CreateUser(username, displayName, hashedPassword)
	if err != nil {
		return "", domain.Identity{}, err // Propagates ErrUserAlreadyExists on collision
	}

	identity := toIdentity(user)
	token, err := s.tokens.Generate(identity)
	if err != nil {
		return "", domain.Identity{}, errors.ErrTokenGeneration
	}
	return Token(token), identity, nil
}

func (s *AuthService) Login(username, password string) (Token, domain.Identity, error) {
	user, err := s.userRepository.GetUserByUsername(username)
	if err != nil {
		// Generic error to prevent user enumeration.
		return "", domain.Identity{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", domain.Identity{}, errors.ErrInvalidCredentials
	}

	identity := toIdentity(user)
	token, err := s.tokens.Generate(identity)
	if err != nil {
		return "", domain.Identity{}, errors.ErrTokenGeneration
	}
	return Token(token), identity, nil
}

// Verify turns an opaque credential into an authenticated identity, or
// fails with ErrInvalidToken. The identity is carried by the token itself;
// it is never cached beyond the call.
func (s *AuthService) Verify(credential string) (domain.Identity, error) {
	claims, err := s.tokens.Validate(credential)
	if err != nil {
		return domain.Identity{}, err
	}
	return claims.Identity(), nil
}

func toIdentity(user repositories.User) domain.Identity {
	return domain.Identity{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
	}
}
