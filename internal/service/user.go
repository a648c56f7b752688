package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/duylamasd/duylam-oauth2/internal/auth"
	"github.com/duylamasd/duylam-oauth2/internal/domain"
	"github.com/duylamasd/duylam-oauth2/internal/event"
	"github.com/duylamasd/duylam-oauth2/internal/repository"
	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

// UserService implements the business logic for account operations.
type UserService struct {
	userRepo repository.UserRepository
	hasher   *auth.Hasher
	producer *event.Producer
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	hasher *auth.Hasher,
	producer *event.Producer,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		producer: producer,
		logger:   logger,
	}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Username string         `json:"username" validate:"required,min=3"`
	Email    string         `json:"email" validate:"required,email"`
	Phone    string         `json:"phone" validate:"required"`
	Password string         `json:"password" validate:"required,min=6"`
	Profile  domain.Profile `json:"profile"`
}

// Register creates a new user account with a hashed password.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.New().String(),
		Username:  input.Username,
		Email:     input.Email,
		Phone:     input.Phone,
		Password:  input.Password,
		Profile:   input.Profile,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.ensurePasswordHashed(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, err
		}
		return nil, apperrors.CreateUserFailed(err)
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// GetByID retrieves a user by their ID.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.UserNotFound(id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetByIdentifier resolves a user by username, email, or phone.
func (s *UserService) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	return s.userRepo.GetByIdentifier(ctx, identifier)
}

// List returns all registered users.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// AuthorizeThirdParty resolves a federated identity to a local user. When a
// session user is given the identity is linked into that account; otherwise
// an account already linked to the provider identity wins, then an account
// with the provider's email. No match fails the authorization.
func (s *UserService) AuthorizeThirdParty(ctx context.Context, sessionUserID string, profile domain.ThirdPartyProfile, accessToken string) (*domain.User, error) {
	if sessionUserID != "" {
		user, err := s.userRepo.GetByID(ctx, sessionUserID)
		if err != nil {
			return nil, apperrors.AuthorizeFailed()
		}
		return s.linkExisting(ctx, user, profile, accessToken)
	}

	user, err := s.userRepo.GetByProviderID(ctx, profile.Provider, profile.ProviderID)
	switch {
	case err == nil:
		user.LinkThirdParty(profile, accessToken)
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.ErrorContext(ctx, "failed to refresh provider link",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
			return nil, apperrors.AuthorizeFailed()
		}
		return user, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, apperrors.AuthorizeFailed()
	}

	if profile.Email != "" {
		existing, err := s.userRepo.GetByIdentifier(ctx, profile.Email)
		switch {
		case err == nil:
			return s.linkExisting(ctx, existing, profile, accessToken)
		case !errors.Is(err, apperrors.ErrNotFound):
			return nil, apperrors.AuthorizeFailed()
		}
	}

	return nil, apperrors.AuthorizeFailed()
}

func (s *UserService) linkExisting(ctx context.Context, user *domain.User, profile domain.ThirdPartyProfile, accessToken string) (*domain.User, error) {
	user.LinkThirdParty(profile, accessToken)
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to link provider identity",
			slog.String("user_id", user.ID),
			slog.String("provider", profile.Provider),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.AuthorizeFailed()
	}

	if err := s.producer.PublishUserLinked(ctx, user, profile.Provider); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.linked event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "provider identity linked",
		slog.String("user_id", user.ID),
		slog.String("provider", profile.Provider),
	)

	return user, nil
}

// ensurePasswordHashed hashes the password in place unless it already is a
// digest, so repeated saves never double-hash.
func (s *UserService) ensurePasswordHashed(user *domain.User) error {
	if user.Password == "" || auth.Hashed(user.Password) {
		return nil
	}
	digest, err := s.hasher.Hash(user.Password)
	if err != nil {
		return apperrors.SavePasswordFailed(err)
	}
	user.Password = digest
	return nil
}
