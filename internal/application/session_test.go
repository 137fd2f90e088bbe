package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/infrastructure/storage"
)

func TestSessionService_AttachImage(t *testing.T) {
	svc := NewSessionService(storage.NewMemorySessionRepository())
	ctx := context.Background()

	_, err := svc.Select(ctx, 1, 3)
	require.NoError(t, err)

	session, err := svc.AttachImage(ctx, 1, "/tmp/sheet.png")
	require.NoError(t, err)
	require.Equal(t, entity.StateImageLoaded, session.State)
	require.Equal(t, "/tmp/sheet.png", session.ImagePath)
	require.Equal(t, entity.NoSelection, session.Selected)
}

func TestSessionService_SetStateAndReset(t *testing.T) {
	svc := NewSessionService(storage.NewMemorySessionRepository())
	ctx := context.Background()

	session, err := svc.SetState(ctx, 7, entity.StateInspected)
	require.NoError(t, err)
	require.Equal(t, entity.StateInspected, session.State)

	got, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, entity.StateInspected, got.State)

	session, err = svc.Reset(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, entity.StateIdle, session.State)
	require.Empty(t, session.ImagePath)
}
