package shopping

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/pantry"
	"github.com/sousa/mealplan/internal/domain/shopping"
	"github.com/sousa/mealplan/internal/ports/inbound"
	"github.com/sousa/mealplan/pkg/errors"
	"github.com/sousa/mealplan/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type ShoppingServiceTestSuite struct {
	suite.Suite
	items     *testutils.MockShoppingRepository
	pantry    *testutils.MockPantryRepository
	publisher *testutils.RecordingPublisher
	service   *ShoppingService
	ctx       context.Context
	userID    uuid.UUID
	now       time.Time
}

func (s *ShoppingServiceTestSuite) SetupTest() {
	s.items = new(testutils.MockShoppingRepository)
	s.pantry = new(testutils.MockPantryRepository)
	s.publisher = &testutils.RecordingPublisher{}
	s.service = NewShoppingService(s.items, s.pantry, s.publisher, zap.NewNop()).(*ShoppingService)
	s.now = time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	s.service.now = func() time.Time { return s.now }
	s.ctx = context.Background()
	s.userID = uuid.New()
}

func (s *ShoppingServiceTestSuite) TearDownTest() {
	s.items.AssertExpectations(s.T())
	s.pantry.AssertExpectations(s.T())
}

func (s *ShoppingServiceTestSuite) TestAddItem_Classifies() {
	s.items.On("Create", s.ctx, mock.AnythingOfType("*shopping.Item")).Return(nil)

	out, err := s.service.AddItem(s.ctx, inbound.AddShoppingItemCommand{UserID: s.userID, Ingredient: " 1L whole milk "})

	require.NoError(s.T(), err)
	assert.Equal(s.T(), "1L whole milk", out.Ingredient)
	assert.Equal(s.T(), "Dairy", out.ItemType)
	assert.True(s.T(), out.IsCold)
	assert.False(s.T(), out.Purchased)
}

func (s *ShoppingServiceTestSuite) TestAddItem_ExplicitType() {
	s.items.On("Create", s.ctx, mock.AnythingOfType("*shopping.Item")).Return(nil)
	cold := false

	out, err := s.service.AddItem(s.ctx, inbound.AddShoppingItemCommand{
		UserID: s.userID, Ingredient: "ice cream", ItemType: "frozen", Cold: &cold,
	})

	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Frozen", out.ItemType)
	assert.False(s.T(), out.IsCold)
}

func (s *ShoppingServiceTestSuite) TestAddItem_Blank() {
	_, err := s.service.AddItem(s.ctx, inbound.AddShoppingItemCommand{UserID: s.userID, Ingredient: "  "})
	assert.True(s.T(), errors.Is(err, errors.CodeValidationFailed))
}

func (s *ShoppingServiceTestSuite) TestToggle_ToPurchasedStocksPantry() {
	item, err := shopping.NewItem(s.userID, "2 chicken thighs", nil)
	require.NoError(s.T(), err)

	s.items.On("FindByID", s.ctx, s.userID, item.ID()).Return(item, nil)
	s.items.On("Update", s.ctx, item).Return(nil)

	var stocked *pantry.Item
	s.pantry.On("Create", s.ctx, mock.AnythingOfType("*pantry.Item")).
		Run(func(args mock.Arguments) { stocked = args.Get(1).(*pantry.Item) }).
		Return(nil)

	out, err := s.service.TogglePurchased(s.ctx, s.userID, item.ID())

	require.NoError(s.T(), err)
	assert.True(s.T(), out.Purchased)
	require.NotNil(s.T(), stocked)
	assert.Equal(s.T(), "2 chicken thighs", stocked.Name())
	assert.Equal(s.T(), pantry.CategoryMeat, stocked.Category())
	assert.Equal(s.T(), pantry.StatusGood, stocked.Status())
	assert.True(s.T(), stocked.Cold())
	require.NotNil(s.T(), stocked.PurchasedAt())
	assert.True(s.T(), s.now.Equal(*stocked.PurchasedAt()))
	assert.Equal(s.T(), []string{shopping.EventItemPurchased}, s.publisher.Names())
}

func (s *ShoppingServiceTestSuite) TestToggle_BackToUnpurchasedLeavesPantry() {
	item, err := shopping.NewItem(s.userID, "rice", nil)
	require.NoError(s.T(), err)
	item.TogglePurchased()
	item.Events()

	s.items.On("FindByID", s.ctx, s.userID, item.ID()).Return(item, nil)
	s.items.On("Update", s.ctx, item).Return(nil)

	out, err := s.service.TogglePurchased(s.ctx, s.userID, item.ID())

	require.NoError(s.T(), err)
	assert.False(s.T(), out.Purchased)
	s.pantry.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	assert.Empty(s.T(), s.publisher.Names())
}

func (s *ShoppingServiceTestSuite) TestToggle_PantryFailureKeepsToggle() {
	item, err := shopping.NewItem(s.userID, "butter", nil)
	require.NoError(s.T(), err)

	s.items.On("FindByID", s.ctx, s.userID, item.ID()).Return(item, nil)
	s.items.On("Update", s.ctx, item).Return(nil)
	s.pantry.On("Create", s.ctx, mock.AnythingOfType("*pantry.Item")).Return(stderrors.New("disk full"))

	out, err := s.service.TogglePurchased(s.ctx, s.userID, item.ID())

	require.NoError(s.T(), err)
	assert.True(s.T(), out.Purchased)
}

func (s *ShoppingServiceTestSuite) TestToggle_NotFound() {
	id := uuid.New()
	s.items.On("FindByID", s.ctx, s.userID, id).Return(nil, shopping.ErrItemNotFound)

	_, err := s.service.TogglePurchased(s.ctx, s.userID, id)

	assert.True(s.T(), errors.Is(err, errors.CodeShoppingNotFound))
}

func (s *ShoppingServiceTestSuite) TestClearPurchased() {
	s.items.On("DeletePurchased", s.ctx, s.userID).Return(int64(3), nil)

	n, err := s.service.ClearPurchased(s.ctx, s.userID)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(3), n)
}

func TestShoppingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ShoppingServiceTestSuite))
}
