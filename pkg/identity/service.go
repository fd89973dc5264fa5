package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carelens-ai/platform/pkg/common/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrNotAdminAccount    = errors.New("account is not an administrator")
	ErrAdminAccount       = errors.New("administrators must use the admin login")
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Signup creates a regular (non-admin) account. Admin accounts are
// provisioned out of band.
func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (models.User, error) {
	if req.Email == "" || req.Password == "" {
		return models.User{}, fmt.Errorf("email and password required")
	}
	if req.Password != req.ConfirmPassword {
		return models.User{}, ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	return s.repo.CreateUser(ctx, CreateUserInput{
		Email:        req.Email,
		FullName:     strings.TrimSpace(req.FullName),
		IsAdmin:      false,
		PasswordHash: string(hash),
	})
}

// Authenticate verifies an email and password pair. Admin gating happens at
// the handler layer, which knows which login surface the request came from.
func (s *Service) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	hash, err := s.repo.GetPasswordHash(ctx, user.ID)
	if err != nil {
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}
