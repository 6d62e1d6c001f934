package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pinkbananas/users-api/internal/api/metrics"
	"github.com/pinkbananas/users-api/internal/core/domain"
	"github.com/pinkbananas/users-api/internal/core/ports"
)

// UserService forwards each operation to exactly one repository call.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// ListUsers returns every stored user in store order.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	start := time.Now()
	users, err := s.repo.FindAll(ctx)
	observe(metrics.OpList, start)
	if err != nil {
		s.fail(metrics.OpList, err).Msg("failed to list users")
		return nil, fmt.Errorf("list users: %w", err)
	}

	metrics.OperationsTotal.WithLabelValues(metrics.OpList, "ok").Inc()
	s.logger.Debug().Int("count", len(users)).Msg("users listed")
	return users, nil
}

// SaveUser upserts the user under its username and returns it unchanged.
func (s *UserService) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	start := time.Now()
	saved, err := s.repo.Save(ctx, user)
	observe(metrics.OpSave, start)
	if err != nil {
		s.fail(metrics.OpSave, err).Str("username", user.Key()).Msg("failed to save user")
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}

	metrics.OperationsTotal.WithLabelValues(metrics.OpSave, "ok").Inc()
	s.logger.Info().Object("user", saved).Msg("user saved")
	return saved, nil
}

// GetUser looks a user up by username. A missing record is reported through
// the Option, not as an error.
func (s *UserService) GetUser(ctx context.Context, username string) (domain.Option[domain.User], error) {
	start := time.Now()
	found, err := s.repo.FindByID(ctx, username)
	observe(metrics.OpGet, start)
	if err != nil {
		s.fail(metrics.OpGet, err).Str("username", username).Msg("failed to get user")
		return domain.None[domain.User](), fmt.Errorf("get user: %w", err)
	}

	result := "ok"
	if !found.IsSome() {
		result = "not_found"
	}
	metrics.OperationsTotal.WithLabelValues(metrics.OpGet, result).Inc()
	s.logger.Debug().Str("username", username).Bool("found", found.IsSome()).Msg("user looked up")
	return found, nil
}

// DeleteUser removes the user if present. It does not report whether a record
// existed.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	start := time.Now()
	err := s.repo.DeleteByID(ctx, username)
	observe(metrics.OpDelete, start)
	if err != nil {
		s.fail(metrics.OpDelete, err).Str("username", username).Msg("failed to delete user")
		return fmt.Errorf("delete user: %w", err)
	}

	metrics.OperationsTotal.WithLabelValues(metrics.OpDelete, "ok").Inc()
	s.logger.Info().Str("username", username).Msg("user deleted")
	return nil
}

func (s *UserService) fail(op string, err error) *zerolog.Event {
	metrics.OperationsTotal.WithLabelValues(op, "error").Inc()
	return s.logger.Error().Err(err).Str("operation", op)
}

func observe(op string, start time.Time) {
	metrics.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
