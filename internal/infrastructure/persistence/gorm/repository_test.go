package gorm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/mealplan"
	"github.com/sousa/mealplan/internal/domain/pantry"
	"github.com/sousa/mealplan/internal/domain/profile"
	"github.com/sousa/mealplan/internal/domain/recipe"
	"github.com/sousa/mealplan/internal/domain/shopping"
	gormrepo "github.com/sousa/mealplan/internal/infrastructure/persistence/gorm"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"github.com/sousa/mealplan/test/testutils"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type RepositorySuite struct {
	suite.Suite
	ctx     context.Context
	db      *gorm.DB
	factory *testutils.Factory
	userID  uuid.UUID

	recipes  outbound.RecipeRepository
	pantry   outbound.PantryRepository
	meals    outbound.MealRepository
	shopping outbound.ShoppingRepository
	profiles outbound.ProfileRepository
	tx       *gormrepo.Transactor
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutils.NewSQLiteDB(s.T())
	s.factory = testutils.NewFactory(42)
	s.userID = uuid.New()

	s.recipes = gormrepo.NewRecipeRepository(s.db)
	s.pantry = gormrepo.NewPantryRepository(s.db)
	s.meals = gormrepo.NewMealRepository(s.db)
	s.shopping = gormrepo.NewShoppingRepository(s.db)
	s.profiles = gormrepo.NewProfileRepository(s.db)
	s.tx = gormrepo.NewTransactor(s.db)
}

func (s *RepositorySuite) date(v string) time.Time {
	d, err := mealplan.ParseDate(v)
	s.Require().NoError(err)
	return d
}

func (s *RepositorySuite) TestRecipeRoundTrip() {
	r := s.factory.Recipe(s.userID)
	s.Require().NoError(s.recipes.Create(s.ctx, r))

	found, err := s.recipes.FindByID(s.ctx, s.userID, r.ID())
	s.Require().NoError(err)
	s.Equal(r.Title(), found.Title())
	s.Equal(r.Ingredients(), found.Ingredients())
	s.Equal(r.Instructions(), found.Instructions())
	s.Equal(recipe.SourceManual, found.Source())
}

func (s *RepositorySuite) TestRecipeScopedToOwner() {
	r := s.factory.Recipe(s.userID)
	s.Require().NoError(s.recipes.Create(s.ctx, r))

	_, err := s.recipes.FindByID(s.ctx, uuid.New(), r.ID())
	s.ErrorIs(err, recipe.ErrRecipeNotFound)

	err = s.recipes.Delete(s.ctx, uuid.New(), r.ID())
	s.ErrorIs(err, recipe.ErrRecipeNotFound)
}

func (s *RepositorySuite) TestRecipeUpdate() {
	r := s.factory.Recipe(s.userID)
	s.Require().NoError(s.recipes.Create(s.ctx, r))

	s.Require().NoError(r.Edit(recipe.Content{
		Title:        "Weeknight Dal",
		Ingredients:  []string{"1 cup lentils", "1 onion"},
		Instructions: []string{"Simmer everything"},
	}))
	s.Require().NoError(s.recipes.Update(s.ctx, r))

	found, err := s.recipes.FindByID(s.ctx, s.userID, r.ID())
	s.Require().NoError(err)
	s.Equal("Weeknight Dal", found.Title())
	s.Equal([]string{"1 cup lentils", "1 onion"}, found.Ingredients())
	s.Empty(found.Cuisine())
}

func (s *RepositorySuite) TestRecipePagination() {
	for i := 0; i < 5; i++ {
		s.Require().NoError(s.recipes.Create(s.ctx, s.factory.Recipe(s.userID)))
	}
	s.Require().NoError(s.recipes.Create(s.ctx, s.factory.Recipe(uuid.New())))

	page, total, err := s.recipes.FindByUser(s.ctx, s.userID, 2, 2)
	s.Require().NoError(err)
	s.Equal(5, total)
	s.Len(page, 2)

	last, _, err := s.recipes.FindByUser(s.ctx, s.userID, 4, 2)
	s.Require().NoError(err)
	s.Len(last, 1)
}

func (s *RepositorySuite) TestPantryFilters() {
	milk, err := pantry.NewItem(s.userID, pantry.Details{Name: "Milk", Category: "Dairy", Status: "low", Cold: true})
	s.Require().NoError(err)
	rice, err := pantry.NewItem(s.userID, pantry.Details{Name: "Rice", Category: "Pantry"})
	s.Require().NoError(err)
	s.Require().NoError(s.pantry.Create(s.ctx, milk))
	s.Require().NoError(s.pantry.Create(s.ctx, rice))

	all, err := s.pantry.FindByUser(s.ctx, s.userID, outbound.PantryFilter{})
	s.Require().NoError(err)
	s.Len(all, 2)

	dairy, err := s.pantry.FindByUser(s.ctx, s.userID, outbound.PantryFilter{Category: pantry.CategoryDairy})
	s.Require().NoError(err)
	s.Require().Len(dairy, 1)
	s.Equal("Milk", dairy[0].Name())
	s.True(dairy[0].Cold())

	low, err := s.pantry.FindByUser(s.ctx, s.userID, outbound.PantryFilter{Status: pantry.StatusLow})
	s.Require().NoError(err)
	s.Len(low, 1)
}

func (s *RepositorySuite) TestPantryExpiryDate() {
	item, err := pantry.NewItem(s.userID, pantry.Details{Name: "Yogurt", Category: "Dairy", ExpiresOn: ptr(s.date("2025-06-10"))})
	s.Require().NoError(err)
	s.Require().NoError(s.pantry.Create(s.ctx, item))

	found, err := s.pantry.FindByID(s.ctx, s.userID, item.ID())
	s.Require().NoError(err)
	s.Require().NotNil(found.ExpiresOn())
	s.Equal("2025-06-10", mealplan.FormatDate(*found.ExpiresOn()))
}

func (s *RepositorySuite) TestPantryDelete() {
	item := s.factory.PantryItem(s.userID)
	s.Require().NoError(s.pantry.Create(s.ctx, item))
	s.Require().NoError(s.pantry.Delete(s.ctx, s.userID, item.ID()))

	_, err := s.pantry.FindByID(s.ctx, s.userID, item.ID())
	s.ErrorIs(err, pantry.ErrItemNotFound)
}

func (s *RepositorySuite) TestMealSlotQueries() {
	day := s.date("2025-06-02")
	first := s.factory.Meal(s.userID, day, mealplan.Dinner)
	s.Require().NoError(s.meals.Create(s.ctx, first))

	next, err := s.meals.NextPosition(s.ctx, s.userID, day, mealplan.Dinner)
	s.Require().NoError(err)
	s.Equal(1, next)

	empty, err := s.meals.NextPosition(s.ctx, s.userID, day, mealplan.Lunch)
	s.Require().NoError(err)
	s.Equal(0, empty)

	second := s.factory.Meal(s.userID, day, mealplan.Dinner)
	second.SetPosition(next)
	s.Require().NoError(s.meals.Create(s.ctx, second))

	slot, err := s.meals.FindBySlot(s.ctx, s.userID, day, mealplan.Dinner)
	s.Require().NoError(err)
	s.Require().Len(slot, 2)
	s.Equal(first.ID(), slot[0].ID())
	s.Equal(second.ID(), slot[1].ID())
	s.Equal("2025-06-02", mealplan.FormatDate(slot[0].Date()))
}

func (s *RepositorySuite) TestMealRange() {
	for _, d := range []string{"2025-06-01", "2025-06-02", "2025-06-08", "2025-06-09"} {
		s.Require().NoError(s.meals.Create(s.ctx, s.factory.Meal(s.userID, s.date(d), mealplan.Lunch)))
	}

	week, err := s.meals.FindByUser(s.ctx, s.userID, mealplan.WeekRange(s.date("2025-06-02")))
	s.Require().NoError(err)
	s.Require().Len(week, 2)
	s.Equal("2025-06-02", mealplan.FormatDate(week[0].Date()))
	s.Equal("2025-06-08", mealplan.FormatDate(week[1].Date()))

	all, err := s.meals.FindByUser(s.ctx, s.userID, mealplan.Range{})
	s.Require().NoError(err)
	s.Len(all, 4)
}

func (s *RepositorySuite) TestMealUpdatePositions() {
	day := s.date("2025-06-03")
	a := s.factory.Meal(s.userID, day, mealplan.Breakfast)
	b := s.factory.Meal(s.userID, day, mealplan.Breakfast)
	b.SetPosition(1)
	s.Require().NoError(s.meals.Create(s.ctx, a))
	s.Require().NoError(s.meals.Create(s.ctx, b))

	a.SetPosition(1)
	b.SetPosition(0)
	s.Require().NoError(s.meals.UpdatePositions(s.ctx, []*mealplan.ScheduledMeal{a, b}))

	slot, err := s.meals.FindBySlot(s.ctx, s.userID, day, mealplan.Breakfast)
	s.Require().NoError(err)
	s.Require().Len(slot, 2)
	s.Equal(b.ID(), slot[0].ID())
	s.Equal(a.ID(), slot[1].ID())
}

func (s *RepositorySuite) TestDetachRecipeKeepsRows() {
	r := s.factory.Recipe(s.userID)
	s.Require().NoError(s.recipes.Create(s.ctx, r))
	recipeID := r.ID()

	meal, err := mealplan.NewScheduledMeal(s.userID, mealplan.Schedule{
		RecipeID: &recipeID, Title: r.Title(), MealType: "dinner", Date: "2025-06-04",
	})
	s.Require().NoError(err)
	s.Require().NoError(s.meals.Create(s.ctx, meal))

	item, err := shopping.NewItem(s.userID, "1 onion", &recipeID)
	s.Require().NoError(err)
	s.Require().NoError(s.shopping.Create(s.ctx, item))

	err = s.tx.WithinTransaction(s.ctx, func(ctx context.Context) error {
		if err := s.meals.DetachRecipe(ctx, s.userID, recipeID); err != nil {
			return err
		}
		if err := s.shopping.DetachRecipe(ctx, s.userID, recipeID); err != nil {
			return err
		}
		return s.recipes.Delete(ctx, s.userID, recipeID)
	})
	s.Require().NoError(err)

	foundMeal, err := s.meals.FindByID(s.ctx, s.userID, meal.ID())
	s.Require().NoError(err)
	s.Nil(foundMeal.RecipeID())

	foundItem, err := s.shopping.FindByID(s.ctx, s.userID, item.ID())
	s.Require().NoError(err)
	s.Nil(foundItem.RecipeID())
}

func (s *RepositorySuite) TestTransactionRollsBack() {
	r := s.factory.Recipe(s.userID)
	boom := errors.New("boom")

	err := s.tx.WithinTransaction(s.ctx, func(ctx context.Context) error {
		if err := s.recipes.Create(ctx, r); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.recipes.FindByID(s.ctx, s.userID, r.ID())
	s.ErrorIs(err, recipe.ErrRecipeNotFound)
}

func (s *RepositorySuite) TestNestedTransactionJoinsOuter() {
	r := s.factory.Recipe(s.userID)

	err := s.tx.WithinTransaction(s.ctx, func(ctx context.Context) error {
		return s.tx.WithinTransaction(ctx, func(inner context.Context) error {
			return s.recipes.Create(inner, r)
		})
	})
	s.Require().NoError(err)

	_, err = s.recipes.FindByID(s.ctx, s.userID, r.ID())
	s.NoError(err)
}

func (s *RepositorySuite) TestShoppingBatchAndClear() {
	items := []*shopping.Item{
		s.factory.ShoppingItem(s.userID),
		s.factory.ShoppingItem(s.userID),
		s.factory.ShoppingItem(s.userID),
	}
	s.Require().NoError(s.shopping.CreateBatch(s.ctx, items))
	s.Require().NoError(s.shopping.CreateBatch(s.ctx, nil))

	items[0].TogglePurchased()
	s.Require().NoError(s.shopping.Update(s.ctx, items[0]))

	list, err := s.shopping.FindByUser(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.True(list[2].Purchased())

	removed, err := s.shopping.DeletePurchased(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(int64(1), removed)

	list, err = s.shopping.FindByUser(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Len(list, 2)
}

func (s *RepositorySuite) TestProfileCreateOnce() {
	p := s.factory.Profile(s.userID)
	s.Require().NoError(s.profiles.Create(s.ctx, p))

	exists, err := s.profiles.Exists(s.ctx, s.userID)
	s.Require().NoError(err)
	s.True(exists)

	err = s.profiles.Create(s.ctx, s.factory.Profile(s.userID))
	s.ErrorIs(err, profile.ErrProfileExists)

	found, err := s.profiles.FindByUserID(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(p.Cuisines(), found.Cuisines())
	s.Equal(p.IsVegetarian(), found.IsVegetarian())
}

func (s *RepositorySuite) TestProfileUpdate() {
	p := s.factory.Profile(s.userID)
	s.Require().NoError(s.profiles.Create(s.ctx, p))

	s.Require().NoError(p.Update(true, []string{"Thai"}))
	s.Require().NoError(s.profiles.Update(s.ctx, p))

	found, err := s.profiles.FindByUserID(s.ctx, s.userID)
	s.Require().NoError(err)
	s.True(found.IsVegetarian())
	s.Equal([]string{"Thai"}, found.Cuisines())

	_, err = s.profiles.FindByUserID(s.ctx, uuid.New())
	s.ErrorIs(err, profile.ErrProfileNotFound)
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func ptr[T any](v T) *T { return &v }
