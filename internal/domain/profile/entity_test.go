package profile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfile(t *testing.T) {
	userID := uuid.New()

	t.Run("normalizes cuisines", func(t *testing.T) {
		p, err := NewProfile(userID, true, []string{" Italian", "italian", "", "Thai "})

		require.NoError(t, err)
		assert.True(t, p.IsVegetarian())
		assert.Equal(t, []string{"Italian", "Thai"}, p.Cuisines())
		assert.Equal(t, p.CreatedAt(), p.UpdatedAt())
	})

	t.Run("requires a cuisine", func(t *testing.T) {
		_, err := NewProfile(userID, false, []string{"  "})
		assert.ErrorIs(t, err, ErrCuisinesRequired)
	})

	t.Run("requires a user", func(t *testing.T) {
		_, err := NewProfile(uuid.Nil, false, []string{"Mexican"})
		assert.ErrorIs(t, err, ErrUserRequired)
	})
}

func TestProfileUpdate(t *testing.T) {
	p, err := NewProfile(uuid.New(), false, []string{"Mexican"})
	require.NoError(t, err)

	require.NoError(t, p.Update(true, []string{"Indian", "Japanese"}))
	assert.True(t, p.IsVegetarian())
	assert.Equal(t, []string{"Indian", "Japanese"}, p.Cuisines())

	assert.ErrorIs(t, p.Update(false, nil), ErrCuisinesRequired)
	assert.True(t, p.IsVegetarian(), "rejected update leaves profile untouched")
}

func TestProfileSnapshot(t *testing.T) {
	p, err := NewProfile(uuid.New(), true, []string{"Greek"})
	require.NoError(t, err)

	assert.Equal(t, p.Snapshot(), Restore(p.Snapshot()).Snapshot())
}
