package service

import (
	"context"
	"strings"

	"blogapi/internal/auth"
	"blogapi/internal/models"
	"blogapi/internal/repository"
	"blogapi/internal/validation"
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register creates an account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.AuthResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if fields := validation.ValidateRegistration(in.Username, in.Email, in.Password); fields != nil {
		return nil, models.NewFieldError(fields)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.signIn(user)
}

// Login verifies credentials. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.AuthResponse, error) {
	if in.Username == "" || in.Password == "" {
		fields := map[string]string{}
		if in.Username == "" {
			fields["username"] = "This field is required."
		}
		if in.Password == "" {
			fields["password"] = "This field is required."
		}
		return nil, models.NewFieldError(fields)
	}

	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	ok, err := auth.CheckPassword(user.Password, in.Password)
	if err != nil || !ok {
		return nil, invalidCredentials()
	}

	return s.signIn(user)
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", models.NewFieldError(map[string]string{"refresh": "This field is required."})
	}
	access, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return "", models.NewUnauthorizedError("Token is invalid or expired")
	}
	return access, nil
}

// Authenticate resolves an access token to its subject's id.
func (s *AuthService) Authenticate(accessToken string) (uint, error) {
	id, err := s.tokens.Parse(accessToken, auth.AccessToken)
	if err != nil {
		return 0, models.NewUnauthorizedError("Given token not valid for any token type")
	}
	return id, nil
}

func (s *AuthService) signIn(user *models.User) (*models.AuthResponse, error) {
	refresh, access, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &models.AuthResponse{
		User:      user,
		TokenPair: models.TokenPair{Refresh: refresh, Access: access},
	}, nil
}

func invalidCredentials() error {
	return models.NewUnauthorizedError("No active account found with the given credentials")
}
