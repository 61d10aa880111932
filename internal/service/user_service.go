package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prn-tf/photofeed/internal/domain"
	"github.com/prn-tf/photofeed/internal/metrics"
	"github.com/prn-tf/photofeed/internal/repository"
)

const entityUser = "user"

// UserFinder is the read-only view of users that other services validate against.
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// UserService handles user management operations.
type UserService struct {
	userRepo repository.UserRepository
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, m *metrics.Metrics, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		metrics:  m,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// CreateUserInput contains the data needed to create a new user.
type CreateUserInput struct {
	Email    string
	Username string
	Password string
}

// UpdateUserInput contains a partial update for an existing user.
// Blank Email, Username or Password leave the stored value unchanged.
type UpdateUserInput struct {
	ID       int64
	Email    string
	Username string
	Password string
}

// List returns all users. The order is unspecified.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx)
	s.metrics.RecordOperation(entityUser, "list", err)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, classify(err)
	}
	return users, nil
}

// GetByID retrieves a user by ID. A zero ID never matches.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.getByID(ctx, id)
	s.metrics.RecordOperation(entityUser, "get", err)
	if err != nil {
		logFailure(s.logger, err).Int64("user_id", id).Msg("user lookup failed")
		return nil, err
	}
	return user, nil
}

func (s *UserService) getByID(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, domain.NewDomainError(domain.ErrUserNotFound, "lookup failed", fmt.Sprintf("user %d", id))
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	return user, nil
}

// Create creates a new user account.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	user, err := s.create(ctx, input)
	s.metrics.RecordOperation(entityUser, "create", err)
	if err != nil {
		logFailure(s.logger, err).Str("email", input.Email).Msg("failed to create user")
		return nil, err
	}

	s.metrics.AddEntities(entityUser, 1)
	s.logger.Info().
		Int64("user_id", user.ID).
		Str("email", user.Email).
		Msg("user created")

	return user, nil
}

func (s *UserService) create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if domain.IsBlank(input.Email) {
		return nil, domain.ErrEmailRequired
	}

	// Uniqueness is enforced again inside the repository under its lock.
	user, err := s.userRepo.Create(ctx, domain.NewUser(input.Email, input.Username, input.Password))
	if err != nil {
		return nil, classify(err)
	}
	return user, nil
}

// Update applies a partial update to an existing user.
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (*domain.User, error) {
	user, err := s.update(ctx, input)
	s.metrics.RecordOperation(entityUser, "update", err)
	if err != nil {
		logFailure(s.logger, err).Int64("user_id", input.ID).Msg("failed to update user")
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user updated")
	return user, nil
}

func (s *UserService) update(ctx context.Context, input UpdateUserInput) (*domain.User, error) {
	if input.ID <= 0 {
		return nil, domain.ErrUserIDRequired
	}

	user, err := s.userRepo.Update(ctx, input.ID, domain.UserPatch{
		Email:    input.Email,
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		return nil, classify(err)
	}
	return user, nil
}

// Ensure UserService can serve as a UserFinder.
var _ UserFinder = (*UserService)(nil)
