package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/smart-todo-server/internal/logger"
	"github.com/dtroode/smart-todo-server/internal/model"
)

// MockTokenManager mocks the TokenManager interface
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) GenerateRefreshToken(userID uuid.UUID) (string, string, error) {
	args := m.Called(userID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenManager) ParseAccessToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenManager) ParseRefreshToken(token string) (uuid.UUID, string, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

func TestTokenService_Issue(t *testing.T) {
	userID := uuid.New()

	manager := &MockTokenManager{}
	manager.On("GenerateAccessToken", userID).Return("access-token", nil)
	manager.On("GenerateRefreshToken", userID).Return("refresh-token", "jti-1", nil)

	store := &MockRefreshTokenStore{}
	store.On("Create", mock.Anything, mock.MatchedBy(func(rt model.RefreshToken) bool {
		return rt.JTI == "jti-1" &&
			rt.UserID == userID &&
			len(rt.TokenHash) == 32 &&
			rt.RevokedAt == nil
	})).Return(nil)

	service := NewTokenService(manager, store, logger.New(0))

	access, refresh, err := service.Issue(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "access-token", access)
	assert.Equal(t, "refresh-token", refresh)

	manager.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestTokenService_Refresh(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	revokedAt := now.Add(-time.Hour)

	validRecord := model.RefreshToken{
		ID:        uuid.New(),
		JTI:       "jti-old",
		UserID:    userID,
		TokenHash: hashRefresh("refresh-old"),
		IssuedAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(24 * time.Hour),
	}

	tests := []struct {
		name      string
		record    model.RefreshToken
		mockSetup func(*MockTokenManager, *MockRefreshTokenStore)
		wantErr   error
	}{
		{
			name:   "successful rotation",
			record: validRecord,
			mockSetup: func(manager *MockTokenManager, store *MockRefreshTokenStore) {
				store.On("RevokeByJTI", mock.Anything, "jti-old").Return(nil)
				manager.On("GenerateAccessToken", userID).Return("access-new", nil)
				manager.On("GenerateRefreshToken", userID).Return("refresh-new", "jti-new", nil)
				store.On("Create", mock.Anything, mock.MatchedBy(func(rt model.RefreshToken) bool {
					return rt.JTI == "jti-new" &&
						rt.RotatedFromJTI != nil &&
						*rt.RotatedFromJTI == "jti-old"
				})).Return(nil)
			},
		},
		{
			name: "revoked token",
			record: func() model.RefreshToken {
				r := validRecord
				r.RevokedAt = &revokedAt
				return r
			}(),
			mockSetup: func(manager *MockTokenManager, store *MockRefreshTokenStore) {},
			wantErr:   model.ErrTokenRevoked,
		},
		{
			name: "expired token",
			record: func() model.RefreshToken {
				r := validRecord
				r.ExpiresAt = now.Add(-time.Minute)
				return r
			}(),
			mockSetup: func(manager *MockTokenManager, store *MockRefreshTokenStore) {},
			wantErr:   model.ErrTokenExpired,
		},
		{
			name: "hash mismatch",
			record: func() model.RefreshToken {
				r := validRecord
				r.TokenHash = hashRefresh("some-other-token")
				return r
			}(),
			mockSetup: func(manager *MockTokenManager, store *MockRefreshTokenStore) {},
			wantErr:   model.ErrTokenMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := &MockTokenManager{}
			manager.On("ParseRefreshToken", "refresh-old").Return(userID, "jti-old", nil)

			store := &MockRefreshTokenStore{}
			store.On("GetByJTI", mock.Anything, "jti-old").Return(tt.record, nil)
			tt.mockSetup(manager, store)

			service := NewTokenService(manager, store, logger.New(0))

			access, refresh, err := service.Refresh(context.Background(), "refresh-old")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "access-new", access)
				assert.Equal(t, "refresh-new", refresh)
			}

			manager.AssertExpectations(t)
			store.AssertExpectations(t)
		})
	}
}

func TestTokenService_RevokeByToken(t *testing.T) {
	userID := uuid.New()

	manager := &MockTokenManager{}
	manager.On("ParseRefreshToken", "refresh-token").Return(userID, "jti-1", nil)

	store := &MockRefreshTokenStore{}
	store.On("RevokeByJTI", mock.Anything, "jti-1").Return(nil)

	service := NewTokenService(manager, store, logger.New(0))

	err := service.RevokeByToken(context.Background(), "refresh-token")
	require.NoError(t, err)

	manager.AssertExpectations(t)
	store.AssertExpectations(t)
}
