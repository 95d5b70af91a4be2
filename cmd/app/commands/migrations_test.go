package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockIndexEnsurer struct {
	mock.Mock
}

func (m *mockIndexEnsurer) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestRunMigrations(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("invalid-driver", func(t *testing.T) {
		err := RunMigrations(logger, "invalid", "postgres://localhost")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create migrate instance")
	})

	t.Run("invalid-connection-string", func(t *testing.T) {
		err := RunMigrations(logger, "postgres", "invalid-connection-string")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create migrate instance")
	})
}

func TestRunEnsureIndexes(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("success", func(t *testing.T) {
		store := &mockIndexEnsurer{}
		store.On("EnsureIndexes", ctx).Return(nil).Once()

		require.NoError(t, RunEnsureIndexes(ctx, store, logger))
		store.AssertExpectations(t)
	})

	t.Run("error", func(t *testing.T) {
		store := &mockIndexEnsurer{}
		store.On("EnsureIndexes", ctx).Return(errors.New("not primary")).Once()

		err := RunEnsureIndexes(ctx, store, logger)
		require.ErrorContains(t, err, "failed to ensure indexes")
		store.AssertExpectations(t)
	})
}
