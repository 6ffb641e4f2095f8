package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badbaado/pkg/domerrors"
)

func TestSettings(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	t.Run("key and value required", func(t *testing.T) {
		_, err := svc.Set(ctx, "", "5", "", uuid.New())
		assert.True(t, domerrors.Is(err, domerrors.CodeValidation))
		_, err = svc.Set(ctx, "max_donors_default", "", "", uuid.New())
		assert.True(t, domerrors.Is(err, domerrors.CodeValidation))
	})

	t.Run("set records the editor and default category", func(t *testing.T) {
		editor := uuid.New()
		s, err := svc.Set(ctx, "max_donors_default", "5", "Default donor threshold", editor)
		require.NoError(t, err)
		assert.Equal(t, DefaultCategory, s.Category)
		assert.Equal(t, editor, s.UpdatedBy)
	})

	t.Run("setting the same key overwrites", func(t *testing.T) {
		_, err := svc.Set(ctx, "max_donors_default", "7", "", uuid.New())
		require.NoError(t, err)

		list, err := svc.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "7", list[0].Value)
	})

	t.Run("category filter", func(t *testing.T) {
		list, err := svc.List(ctx, "NO_SUCH_CATEGORY")
		require.NoError(t, err)
		assert.Empty(t, list)

		list, err = svc.List(ctx, DefaultCategory)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}
