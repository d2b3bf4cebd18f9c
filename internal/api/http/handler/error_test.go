package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/smart-todo-server/internal/model"
)

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation error",
			err:        model.NewValidationError("title is required"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"title is required"}`,
		},
		{
			name:       "invalid credentials",
			err:        model.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid Credentials"}`,
		},
		{
			name:       "invalid token",
			err:        model.ErrInvalidToken,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"unauthorized"}`,
		},
		{
			name:       "revoked token",
			err:        model.ErrTokenRevoked,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"unauthorized"}`,
		},
		{
			name:       "not found",
			err:        model.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"not found"}`,
		},
		{
			name:       "email taken",
			err:        model.ErrEmailTaken,
			wantStatus: http.StatusConflict,
			wantBody:   `{"error":"email already registered"}`,
		},
		{
			name:       "unknown error stays opaque",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			handleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHandleError_WrappedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	handleError(c, errors.Join(errors.New("failed to get task"), model.ErrNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
