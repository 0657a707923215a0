// Package outbound defines the interfaces the application needs from the
// outside world: storage, cache, the language model and event delivery.
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/mealplan"
	"github.com/sousa/mealplan/internal/domain/pantry"
	"github.com/sousa/mealplan/internal/domain/profile"
	"github.com/sousa/mealplan/internal/domain/recipe"
	"github.com/sousa/mealplan/internal/domain/shopping"
)

// Every lookup is scoped to the owning user; a row that exists but belongs to
// someone else is reported as not found.

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	Create(ctx context.Context, r *recipe.Recipe) error
	Update(ctx context.Context, r *recipe.Recipe) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*recipe.Recipe, error)
	FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*recipe.Recipe, int, error)
}

// PantryFilter narrows a pantry listing
type PantryFilter struct {
	Category pantry.Category
	Status   pantry.Status
}

// PantryRepository defines the interface for pantry persistence
type PantryRepository interface {
	Create(ctx context.Context, item *pantry.Item) error
	Update(ctx context.Context, item *pantry.Item) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*pantry.Item, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter PantryFilter) ([]*pantry.Item, error)
}

// MealRepository defines the interface for scheduled meal persistence
type MealRepository interface {
	Create(ctx context.Context, meal *mealplan.ScheduledMeal) error
	Update(ctx context.Context, meal *mealplan.ScheduledMeal) error
	UpdatePositions(ctx context.Context, meals []*mealplan.ScheduledMeal) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*mealplan.ScheduledMeal, error)
	FindByUser(ctx context.Context, userID uuid.UUID, r mealplan.Range) ([]*mealplan.ScheduledMeal, error)
	FindBySlot(ctx context.Context, userID uuid.UUID, date time.Time, mealType mealplan.MealType) ([]*mealplan.ScheduledMeal, error)
	NextPosition(ctx context.Context, userID uuid.UUID, date time.Time, mealType mealplan.MealType) (int, error)
	DetachRecipe(ctx context.Context, userID, recipeID uuid.UUID) error
}

// ShoppingRepository defines the interface for shopping list persistence
type ShoppingRepository interface {
	Create(ctx context.Context, item *shopping.Item) error
	CreateBatch(ctx context.Context, items []*shopping.Item) error
	Update(ctx context.Context, item *shopping.Item) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeletePurchased(ctx context.Context, userID uuid.UUID) (int64, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*shopping.Item, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*shopping.Item, error)
	DetachRecipe(ctx context.Context, userID, recipeID uuid.UUID) error
}

// ProfileRepository defines the interface for profile persistence
type ProfileRepository interface {
	Create(ctx context.Context, p *profile.Profile) error
	Update(ctx context.Context, p *profile.Profile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Transactor runs fn inside one database transaction. Repositories called
// with the ctx passed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CacheRepository defines the interface for caching
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Ping(ctx context.Context) error
}
