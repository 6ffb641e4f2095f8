package hospital

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badbaado/pkg/domerrors"
)

func TestHospitalRegistry(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	t.Run("register requires all fields", func(t *testing.T) {
		_, err := svc.Register(ctx, "Banadir Hospital", "", "Mogadishu")
		assert.True(t, domerrors.Is(err, domerrors.CodeValidation))
	})

	t.Run("registered hospitals are active and listed", func(t *testing.T) {
		h, err := svc.Register(ctx, "Banadir Hospital", "252612222222", "Mogadishu")
		require.NoError(t, err)
		assert.True(t, h.IsActive)

		list, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, h.ID, list[0].ID)
	})

	t.Run("toggle availability", func(t *testing.T) {
		h, err := svc.Register(ctx, "Medina Hospital", "252613333333", "Mogadishu")
		require.NoError(t, err)

		got, err := svc.SetActive(ctx, h.ID, false)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	})

	t.Run("delete removes the entry", func(t *testing.T) {
		h, err := svc.Register(ctx, "Keysaney Hospital", "252614444444", "Mogadishu")
		require.NoError(t, err)
		require.NoError(t, svc.Delete(ctx, h.ID))

		err = svc.Delete(ctx, h.ID)
		assert.True(t, domerrors.Is(err, domerrors.CodeNotFound))
	})

	t.Run("unknown hospital", func(t *testing.T) {
		_, err := svc.SetActive(ctx, uuid.New(), true)
		assert.True(t, domerrors.Is(err, domerrors.CodeNotFound))
	})
}
