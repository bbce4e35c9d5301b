package service

import (
	"context"
	"strings"

	"blogapi/internal/models"
	"blogapi/internal/pagination"
	"blogapi/internal/repository"
	"blogapi/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

type UpdateProfileInput struct {
	UserID uint
	Email  *string
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		postRepo: postRepo,
	}
}

// GetUser resolves a user by id; identity resolution uses it to confirm a
// token's subject still exists.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile returns the public profile of username with one envelope page
// of their posts. viewerID is 0 for anonymous callers.
func (s *UserService) GetProfile(ctx context.Context, username string, viewerID uint, page string) (*models.ProfileResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	total, err := s.postRepo.CountByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	number := pagination.ClampPage(page, total, pagination.EnvelopeSize)
	posts, err := s.postRepo.ListByAuthor(ctx, user.ID, pagination.EnvelopeSize, pagination.Offset(number, pagination.EnvelopeSize))
	if err != nil {
		return nil, err
	}

	return &models.ProfileResponse{
		User:  models.NewProfileUser(user, total, viewerID),
		Posts: pagination.NewEnvelope(posts, total, number, pagination.EnvelopeSize),
	}, nil
}

// UpdateProfile changes the caller's email when one is supplied. The
// uniqueness check and the write are separate statements, so two concurrent
// requests can both claim the same address.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.AccountResponse, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Email == nil || strings.TrimSpace(*in.Email) == "" {
		resp := models.NewAccountResponse(user)
		return &resp, nil
	}

	email := strings.TrimSpace(*in.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewFieldError(map[string]string{"email": err.Error()})
	}

	taken, err := s.userRepo.EmailTakenByOther(ctx, email, user.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewConflictError("Email already taken")
	}

	if err := s.userRepo.UpdateEmail(ctx, user.ID, email); err != nil {
		return nil, err
	}
	user.Email = email

	resp := models.NewAccountResponse(user)
	return &resp, nil
}

// DeleteUser removes a user and everything that cascades from them.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, user.ID)
}
