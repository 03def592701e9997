package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtribe/internal/app/model"
	storagemock "vtribe/internal/app/storage/mock"
)

func TestMemorySession(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "buyer@example.com"}

	t.Run("round trip", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		users := storagemock.NewMockUserRepository(ctrl)
		users.EXPECT().Read(gomock.Any(), user.ID).Return(user, nil)

		svc := NewMemory("secret", users, WithIssuer("vtribe"))

		token, err := svc.Create(context.Background(), user)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		got, err := svc.Read(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := NewMemory("secret", storagemock.NewMockUserRepository(ctrl))

		_, err := svc.Read(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired session rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := NewMemory("secret", storagemock.NewMockUserRepository(ctrl),
			WithTokenLifetime(-time.Minute))

		token, err := svc.Create(context.Background(), user)
		require.NoError(t, err)

		_, err = svc.Read(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
