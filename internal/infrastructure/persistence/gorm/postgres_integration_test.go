//go:build integration

package gorm_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/mealplan"
	"github.com/sousa/mealplan/internal/domain/shopping"
	gormrepo "github.com/sousa/mealplan/internal/infrastructure/persistence/gorm"
	"github.com/sousa/mealplan/test/testutils"
	"github.com/stretchr/testify/suite"
)

type PostgresSuite struct {
	suite.Suite
	ctx     context.Context
	db      *testutils.TestDatabase
	factory *testutils.Factory
	rows    *testutils.DatabaseAssertions
}

func (s *PostgresSuite) SetupSuite() {
	s.ctx = context.Background()
	s.db = testutils.SetupTestDatabase(s.T())
	s.factory = testutils.NewFactory(7)
	s.rows = testutils.NewDatabaseAssertions(s.T(), s.db.GormDB)
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(s.db.TruncateAllTables())
}

func (s *PostgresSuite) TestMealSlotsStayDense() {
	meals := gormrepo.NewMealRepository(s.db.GormDB)
	userID := uuid.New()
	day, err := mealplan.ParseDate("2025-06-02")
	s.Require().NoError(err)

	var created []*mealplan.ScheduledMeal
	for i := 0; i < 3; i++ {
		next, err := meals.NextPosition(s.ctx, userID, day, mealplan.Dinner)
		s.Require().NoError(err)
		m := s.factory.Meal(userID, day, mealplan.Dinner)
		m.SetPosition(next)
		s.Require().NoError(meals.Create(s.ctx, m))
		created = append(created, m)
	}

	created[0].SetPosition(2)
	created[1].SetPosition(0)
	created[2].SetPosition(1)
	s.Require().NoError(meals.UpdatePositions(s.ctx, created))

	slot, err := meals.FindBySlot(s.ctx, userID, day, mealplan.Dinner)
	s.Require().NoError(err)
	s.Require().Len(slot, 3)
	testutils.NewMealAssertions(s.T()).DenseSlots(slot)
	s.Equal(created[1].ID(), slot[0].ID())
	s.rows.RecordCount("scheduled_meals", 3, "user_id = ?", userID)
}

func (s *PostgresSuite) TestRecipeDeleteDetachesReferences() {
	recipes := gormrepo.NewRecipeRepository(s.db.GormDB)
	items := gormrepo.NewShoppingRepository(s.db.GormDB)
	tx := gormrepo.NewTransactor(s.db.GormDB)
	userID := uuid.New()

	r := s.factory.Recipe(userID)
	s.Require().NoError(recipes.Create(s.ctx, r))
	recipeID := r.ID()

	item, err := shopping.NewItem(userID, "2 leeks", &recipeID)
	s.Require().NoError(err)
	s.Require().NoError(items.Create(s.ctx, item))

	err = tx.WithinTransaction(s.ctx, func(ctx context.Context) error {
		if err := items.DetachRecipe(ctx, userID, recipeID); err != nil {
			return err
		}
		return recipes.Delete(ctx, userID, recipeID)
	})
	s.Require().NoError(err)

	s.rows.TableEmpty("recipes")
	s.rows.RecordCount("shopping_items", 1, "recipe_id IS NULL")
}

func (s *PostgresSuite) TestClearPurchased() {
	items := gormrepo.NewShoppingRepository(s.db.GormDB)
	userID := uuid.New()

	batch := []*shopping.Item{s.factory.ShoppingItem(userID), s.factory.ShoppingItem(userID)}
	s.Require().NoError(items.CreateBatch(s.ctx, batch))
	batch[0].TogglePurchased()
	s.Require().NoError(items.Update(s.ctx, batch[0]))

	removed, err := items.DeletePurchased(s.ctx, userID)
	s.Require().NoError(err)
	s.EqualValues(1, removed)
	s.rows.RecordCount("shopping_items", 1, "user_id = ?", userID)
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration tests in short mode")
	}
	suite.Run(t, new(PostgresSuite))
}
