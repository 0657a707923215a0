// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/mealplan"
	"github.com/sousa/mealplan/internal/domain/pantry"
	"github.com/sousa/mealplan/internal/domain/profile"
	"github.com/sousa/mealplan/internal/domain/recipe"
	"github.com/sousa/mealplan/internal/domain/shared"
	"github.com/sousa/mealplan/internal/domain/shopping"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

var (
	_ outbound.RecipeRepository   = (*MockRecipeRepository)(nil)
	_ outbound.PantryRepository   = (*MockPantryRepository)(nil)
	_ outbound.MealRepository     = (*MockMealRepository)(nil)
	_ outbound.ShoppingRepository = (*MockShoppingRepository)(nil)
	_ outbound.ProfileRepository  = (*MockProfileRepository)(nil)
	_ outbound.CacheRepository    = (*MockCacheRepository)(nil)
	_ outbound.LanguageModel      = (*MockLanguageModel)(nil)
	_ outbound.Transactor         = (*MockTransactor)(nil)
	_ outbound.EventPublisher     = (*RecordingPublisher)(nil)
)

// MockRecipeRepository provides a mock implementation of RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Create(ctx context.Context, r *recipe.Recipe) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecipeRepository) Update(ctx context.Context, r *recipe.Recipe) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockRecipeRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*recipe.Recipe, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipe.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*recipe.Recipe, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*recipe.Recipe), args.Int(1), args.Error(2)
}

// MockPantryRepository provides a mock implementation of PantryRepository
type MockPantryRepository struct {
	mock.Mock
}

func (m *MockPantryRepository) Create(ctx context.Context, item *pantry.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockPantryRepository) Update(ctx context.Context, item *pantry.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockPantryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockPantryRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*pantry.Item, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pantry.Item), args.Error(1)
}

func (m *MockPantryRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter outbound.PantryFilter) ([]*pantry.Item, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pantry.Item), args.Error(1)
}

// MockMealRepository provides a mock implementation of MealRepository
type MockMealRepository struct {
	mock.Mock
}

func (m *MockMealRepository) Create(ctx context.Context, meal *mealplan.ScheduledMeal) error {
	return m.Called(ctx, meal).Error(0)
}

func (m *MockMealRepository) Update(ctx context.Context, meal *mealplan.ScheduledMeal) error {
	return m.Called(ctx, meal).Error(0)
}

func (m *MockMealRepository) UpdatePositions(ctx context.Context, meals []*mealplan.ScheduledMeal) error {
	return m.Called(ctx, meals).Error(0)
}

func (m *MockMealRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockMealRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*mealplan.ScheduledMeal, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mealplan.ScheduledMeal), args.Error(1)
}

func (m *MockMealRepository) FindByUser(ctx context.Context, userID uuid.UUID, r mealplan.Range) ([]*mealplan.ScheduledMeal, error) {
	args := m.Called(ctx, userID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*mealplan.ScheduledMeal), args.Error(1)
}

func (m *MockMealRepository) FindBySlot(ctx context.Context, userID uuid.UUID, date time.Time, mealType mealplan.MealType) ([]*mealplan.ScheduledMeal, error) {
	args := m.Called(ctx, userID, date, mealType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*mealplan.ScheduledMeal), args.Error(1)
}

func (m *MockMealRepository) NextPosition(ctx context.Context, userID uuid.UUID, date time.Time, mealType mealplan.MealType) (int, error) {
	args := m.Called(ctx, userID, date, mealType)
	return args.Int(0), args.Error(1)
}

func (m *MockMealRepository) DetachRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

// MockShoppingRepository provides a mock implementation of ShoppingRepository
type MockShoppingRepository struct {
	mock.Mock
}

func (m *MockShoppingRepository) Create(ctx context.Context, item *shopping.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockShoppingRepository) CreateBatch(ctx context.Context, items []*shopping.Item) error {
	return m.Called(ctx, items).Error(0)
}

func (m *MockShoppingRepository) Update(ctx context.Context, item *shopping.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockShoppingRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockShoppingRepository) DeletePurchased(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShoppingRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*shopping.Item, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopping.Item), args.Error(1)
}

func (m *MockShoppingRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*shopping.Item, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shopping.Item), args.Error(1)
}

func (m *MockShoppingRepository) DetachRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

// MockProfileRepository provides a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockProfileRepository) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockLanguageModel provides a mock implementation of LanguageModel
type MockLanguageModel struct {
	mock.Mock
}

func (m *MockLanguageModel) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockLanguageModel) GenerateRecipe(ctx context.Context, req outbound.RecipeRequest) (*outbound.GeneratedRecipe, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.GeneratedRecipe), args.Error(1)
}

// MockTransactor runs the callback directly, or returns a preset error
type MockTransactor struct {
	Err   error
	Calls int
}

func (t *MockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	if t.Err != nil {
		return t.Err
	}
	return fn(ctx)
}

// RecordingPublisher keeps every published event
type RecordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *RecordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

// Names returns the names of the published events in order
func (p *RecordingPublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.events))
	for i, e := range p.events {
		names[i] = e.EventName()
	}
	return names
}
