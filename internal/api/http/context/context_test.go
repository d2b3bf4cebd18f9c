package context

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestManager_SetAndGetUserID(t *testing.T) {
	m := NewManager()
	userID := uuid.New()

	ctx := m.SetUserIDToContext(context.Background(), userID)

	got, ok := m.GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestManager_GetUserID_Missing(t *testing.T) {
	m := NewManager()

	_, ok := m.GetUserIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestManager_GetUserID_Nil(t *testing.T) {
	m := NewManager()

	ctx := m.SetUserIDToContext(context.Background(), uuid.Nil)

	_, ok := m.GetUserIDFromContext(ctx)
	assert.False(t, ok)
}
