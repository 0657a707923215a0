package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/profile"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"gorm.io/gorm"
)

// ProfileRepository implements outbound.ProfileRepository
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) outbound.ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create stores a profile; a second profile for the same user is rejected
func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	err := conn(ctx, r.db).Create(ProfileToModel(p)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return profile.ErrProfileExists
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	model := ProfileToModel(p)

	result := conn(ctx, r.db).
		Model(&ProfileModel{}).
		Where("user_id = ?", model.UserID).
		Select("is_vegetarian", "cuisines", "updated_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	var model ProfileModel
	err := conn(ctx, r.db).Where("user_id = ?", userID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return ModelToProfile(&model), nil
}

func (r *ProfileRepository) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&ProfileModel{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check profile: %w", err)
	}
	return count > 0, nil
}
