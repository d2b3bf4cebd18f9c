package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/smart-todo-server/internal/logger"
	"github.com/dtroode/smart-todo-server/internal/model"
	"github.com/dtroode/smart-todo-server/internal/password"
)

type Auth struct {
	userStore    model.UserStore
	hasher       *password.Hasher
	tokenService *TokenService
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	refreshTokenStore model.RefreshTokenStore,
	hasher *password.Hasher,
	tokenManager model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenService: NewTokenService(tokenManager, refreshTokenStore, logger),
		logger:       logger,
	}
}

// Register creates a user and issues a session. The password is hashed here,
// before the user record is constructed; nothing downstream ever sees it.
func (a *Auth) Register(ctx context.Context, email, plaintext string) (model.TokenPair, error) {
	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	if _, err := mail.ParseAddress(email); err != nil {
		return model.TokenPair{}, model.NewValidationError("invalid email address")
	}
	if len(plaintext) < password.MinLength {
		return model.TokenPair{}, model.NewValidationError(fmt.Sprintf("password must be at least %d characters", password.MinLength))
	}
	if len(plaintext) > password.MaxLength {
		return model.TokenPair{}, model.NewValidationError(fmt.Sprintf("password must be at most %d characters", password.MaxLength))
	}

	existingUser, err := a.userStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if existingUser.ID != uuid.Nil {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return model.TokenPair{}, model.ErrEmailTaken
	}

	passwordHash, err := a.hasher.Hash(plaintext)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := a.userStore.Create(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return model.TokenPair{}, model.ErrEmailTaken
		}
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("failed to create user: %w", err)
	}

	access, refresh, err := a.tokenService.Issue(ctx, saved.ID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"email", email,
		"user_id", saved.ID)

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Login verifies credentials and issues a session. Unknown email and wrong
// password produce the same error so responses cannot enumerate users.
func (a *Auth) Login(ctx context.Context, email, plaintext string) (model.TokenPair, error) {
	a.logger.Debug("Auth service: starting user login",
		"email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.TokenPair{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.Verify(plaintext, user.PasswordHash) {
		return model.TokenPair{}, model.ErrInvalidCredentials
	}

	access, refresh, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: user logged in",
		"email", email,
		"user_id", user.ID)

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
