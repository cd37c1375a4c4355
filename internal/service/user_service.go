package service

import (
	"context"
	"errors"
	"strings"

	"vueblog/internal/models"
	"vueblog/internal/repository"
	"vueblog/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrWrongPassword is returned by ChangePassword when the supplied current
// password does not match the stored hash.
var ErrWrongPassword = errors.New("invalid password")

// ErrInvalidCredentials is returned by Authenticate on an unknown username
// or a failed password comparison.
var ErrInvalidCredentials = errors.New("unable to log in with provided credentials")

// UserService implements registration, credential checks, and password
// changes on top of the user and token repositories.
type UserService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
}

// ChangePasswordInput carries the password-change form fields.
type ChangePasswordInput struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository) *UserService {
	return &UserService{userRepo: userRepo, tokenRepo: tokenRepo}
}

// Register validates the registration input, creates the user with a bcrypt
// password hash, and issues their auth token. Validation failures return
// FieldErrors and leave no user row behind.
func (s *UserService) Register(ctx context.Context, in validation.Registration) (*models.User, *models.AuthToken, error) {
	if errs := validation.ValidateRegistration(in); len(errs) > 0 {
		return nil, nil, errs
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, models.NewFieldError("email", "This field must be unique.")
	}

	existing, err = s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, models.NewFieldError("username", "A user with that username already exists.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	token := &models.AuthToken{Key: newTokenKey(), UserID: user.ID}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, nil, models.NewInternalError(err)
	}
	token.User = *user

	return user, token, nil
}

// Authenticate verifies a username/password pair and returns the user's
// token, issuing one if the user predates token issuance.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.AuthToken, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokenRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if token == nil {
		token = &models.AuthToken{Key: newTokenKey(), UserID: user.ID}
		if err := s.tokenRepo.Create(ctx, token); err != nil {
			return nil, models.NewInternalError(err)
		}
	}
	token.User = *user
	return token, nil
}

// ChangePassword verifies the caller's current password and stores a new
// hash. The caller's auth token stays valid across the change.
func (s *UserService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)) != nil {
		return ErrWrongPassword
	}
	if in.NewPassword != in.ConfirmPassword {
		return models.NewFieldError("password", "New password and Confirm password must match")
	}
	if errs := validation.ValidatePasswordPair(in.NewPassword, in.ConfirmPassword); len(errs) > 0 {
		return errs
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hashed)
	return s.userRepo.Update(ctx, user)
}

// GetUserByID resolves a user for the read endpoints.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers pages through all users.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// newTokenKey generates a 40-character opaque token key.
func newTokenKey() string {
	key := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	return key[:40]
}
