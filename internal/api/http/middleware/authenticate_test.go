package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpctx "github.com/dtroode/smart-todo-server/internal/api/http/context"
	"github.com/dtroode/smart-todo-server/internal/model"
	"github.com/dtroode/smart-todo-server/internal/testutil"
)

// MockTokenService mocks the TokenService interface
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func newProtectedRouter(tokenService TokenService) (*gin.Engine, *uuid.UUID) {
	gin.SetMode(gin.TestMode)

	ctxMgr := httpctx.NewManager()
	authenticate := NewAuthenticate(tokenService, ctxMgr, testutil.MakeNoopLogger())

	var seenUserID uuid.UUID

	engine := gin.New()
	engine.GET("/protected", authenticate.Handle(), func(c *gin.Context) {
		userID, _ := ctxMgr.GetUserIDFromContext(c.Request.Context())
		seenUserID = userID
		c.Status(http.StatusOK)
	})

	return engine, &seenUserID
}

func TestAuthenticate_ValidToken(t *testing.T) {
	userID := uuid.New()

	tokenService := &MockTokenService{}
	tokenService.On("GetUserID", mock.Anything, "valid-token").Return(userID, nil)

	engine, seenUserID := newProtectedRouter(tokenService)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, *seenUserID)

	tokenService.AssertExpectations(t)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	engine, _ := newProtectedRouter(&MockTokenService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	tokenService := &MockTokenService{}
	tokenService.On("GetUserID", mock.Anything, "bad-token").Return(uuid.Nil, model.ErrInvalidToken)

	engine, _ := newProtectedRouter(tokenService)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_TokenWithoutBearerPrefix(t *testing.T) {
	userID := uuid.New()

	tokenService := &MockTokenService{}
	tokenService.On("GetUserID", mock.Anything, "raw-token").Return(userID, nil)

	engine, _ := newProtectedRouter(tokenService)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "raw-token")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
