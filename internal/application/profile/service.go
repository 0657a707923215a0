// Package profile implements onboarding preferences with a read-through cache
package profile

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/application/dto"
	"github.com/sousa/mealplan/internal/domain/profile"
	"github.com/sousa/mealplan/internal/ports/inbound"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"github.com/sousa/mealplan/pkg/errors"
	"go.uber.org/zap"
)

// ProfileService implements inbound.ProfileService
type ProfileService struct {
	repo   outbound.ProfileRepository
	cache  outbound.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	repo outbound.ProfileRepository,
	cache outbound.CacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("profile-service"),
	}
}

func cacheKey(userID uuid.UUID) string {
	return "profile:" + userID.String()
}

// CreateProfile stores the onboarding answers; only one profile per user
func (s *ProfileService) CreateProfile(ctx context.Context, cmd inbound.ProfileCommand) (*inbound.ProfileDTO, error) {
	exists, err := s.repo.Exists(ctx, cmd.UserID)
	if err != nil {
		return nil, errors.NewDatabaseError("check profile existence", err)
	}
	if exists {
		return nil, errors.NewProfileExistsError(cmd.UserID.String())
	}

	p, err := profile.NewProfile(cmd.UserID, cmd.IsVegetarian, cmd.Cuisines)
	if err != nil {
		return nil, dto.ValidationError(err)
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if stderrors.Is(err, profile.ErrProfileExists) {
			return nil, errors.NewProfileExistsError(cmd.UserID.String())
		}
		return nil, errors.NewDatabaseError("create profile", err)
	}

	s.store(ctx, p)
	s.logger.Info("Profile created",
		zap.String("user_id", cmd.UserID.String()),
		zap.Strings("cuisines", p.Cuisines()),
	)
	return dto.Profile(p), nil
}

// UpdateProfile replaces the preferences
func (s *ProfileService) UpdateProfile(ctx context.Context, cmd inbound.ProfileCommand) (*inbound.ProfileDTO, error) {
	p, err := s.load(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if err := p.Update(cmd.IsVegetarian, cmd.Cuisines); err != nil {
		return nil, dto.ValidationError(err)
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, errors.NewDatabaseError("update profile", err)
	}
	s.store(ctx, p)
	return dto.Profile(p), nil
}

// GetProfile returns the profile, from cache when possible
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*inbound.ProfileDTO, error) {
	p, err := s.Find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.NewProfileNotFoundError(userID.String())
	}
	return dto.Profile(p), nil
}

// Find returns the profile or nil when the user has not onboarded yet
func (s *ProfileService) Find(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	if data, err := s.cache.Get(ctx, cacheKey(userID)); err == nil {
		var snap profile.Snapshot
		if err := json.Unmarshal(data, &snap); err == nil {
			return profile.Restore(snap), nil
		}
	} else if !stderrors.Is(err, outbound.ErrCacheMiss) {
		s.logger.Warn("Profile cache read failed", zap.Error(err))
	}

	p, err := s.repo.FindByUserID(ctx, userID)
	if stderrors.Is(err, profile.ErrProfileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find profile", err)
	}
	s.store(ctx, p)
	return p, nil
}

func (s *ProfileService) load(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	p, err := s.repo.FindByUserID(ctx, userID)
	if stderrors.Is(err, profile.ErrProfileNotFound) {
		return nil, errors.NewProfileNotFoundError(userID.String())
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find profile", err)
	}
	return p, nil
}

func (s *ProfileService) store(ctx context.Context, p *profile.Profile) {
	data, err := json.Marshal(p.Snapshot())
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(p.UserID()), data, s.ttl); err != nil {
		s.logger.Warn("Profile cache write failed", zap.Error(err))
	}
}
