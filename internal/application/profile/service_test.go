package profile

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/profile"
	"github.com/sousa/mealplan/internal/ports/inbound"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"github.com/sousa/mealplan/pkg/errors"
	"github.com/sousa/mealplan/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const ttl = 10 * time.Minute

func TestCreateProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := new(testutils.MockProfileRepository)
	cache := new(testutils.MockCacheRepository)
	repo.On("Exists", ctx, userID).Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*profile.Profile")).Return(nil)
	cache.On("Set", ctx, "profile:"+userID.String(), mock.Anything, ttl).Return(nil)

	out, err := NewProfileService(repo, cache, ttl, zap.NewNop()).CreateProfile(ctx, inbound.ProfileCommand{
		UserID:       userID,
		IsVegetarian: true,
		Cuisines:     []string{"Italian", "italian", "Thai"},
	})

	require.NoError(t, err)
	assert.True(t, out.IsVegetarian)
	assert.Equal(t, []string{"Italian", "Thai"}, out.Cuisines)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCreateProfile_OnlyOnce(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := new(testutils.MockProfileRepository)
	repo.On("Exists", ctx, userID).Return(true, nil)

	_, err := NewProfileService(repo, new(testutils.MockCacheRepository), ttl, zap.NewNop()).
		CreateProfile(ctx, inbound.ProfileCommand{UserID: userID, Cuisines: []string{"Thai"}})

	assert.True(t, errors.Is(err, errors.CodeProfileExists))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProfile_CuisinesRequired(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := new(testutils.MockProfileRepository)
	repo.On("Exists", ctx, userID).Return(false, nil)

	_, err := NewProfileService(repo, new(testutils.MockCacheRepository), ttl, zap.NewNop()).
		CreateProfile(ctx, inbound.ProfileCommand{UserID: userID, Cuisines: []string{" "}})

	assert.True(t, errors.Is(err, errors.CodeValidationFailed))
}

func TestFind_CacheHitSkipsRepository(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	p, err := profile.NewProfile(userID, false, []string{"Mexican"})
	require.NoError(t, err)
	data, err := json.Marshal(p.Snapshot())
	require.NoError(t, err)

	repo := new(testutils.MockProfileRepository)
	cache := new(testutils.MockCacheRepository)
	cache.On("Get", ctx, "profile:"+userID.String()).Return(data, nil)

	found, err := NewProfileService(repo, cache, ttl, zap.NewNop()).Find(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, []string{"Mexican"}, found.Cuisines())
	repo.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
}

func TestFind_MissLoadsAndFills(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	p, err := profile.NewProfile(userID, true, []string{"Indian"})
	require.NoError(t, err)

	repo := new(testutils.MockProfileRepository)
	cache := new(testutils.MockCacheRepository)
	cache.On("Get", ctx, "profile:"+userID.String()).Return(nil, outbound.ErrCacheMiss)
	repo.On("FindByUserID", ctx, userID).Return(p, nil)
	cache.On("Set", ctx, "profile:"+userID.String(), mock.Anything, ttl).Return(nil)

	found, err := NewProfileService(repo, cache, ttl, zap.NewNop()).Find(ctx, userID)

	require.NoError(t, err)
	assert.True(t, found.IsVegetarian())
	cache.AssertExpectations(t)
}

func TestGetProfile_NotOnboarded(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := new(testutils.MockProfileRepository)
	cache := new(testutils.MockCacheRepository)
	cache.On("Get", ctx, mock.Anything).Return(nil, outbound.ErrCacheMiss)
	repo.On("FindByUserID", ctx, userID).Return(nil, profile.ErrProfileNotFound)

	_, err := NewProfileService(repo, cache, ttl, zap.NewNop()).GetProfile(ctx, userID)

	assert.True(t, errors.Is(err, errors.CodeProfileNotFound))
}
