// Package shopping implements the shopping cart use cases
package shopping

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/application/dto"
	"github.com/sousa/mealplan/internal/domain/ingredient"
	"github.com/sousa/mealplan/internal/domain/pantry"
	"github.com/sousa/mealplan/internal/domain/shopping"
	"github.com/sousa/mealplan/internal/ports/inbound"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"github.com/sousa/mealplan/pkg/errors"
	"go.uber.org/zap"
)

// ShoppingService implements inbound.ShoppingService
type ShoppingService struct {
	items  outbound.ShoppingRepository
	pantry outbound.PantryRepository
	events outbound.EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

// NewShoppingService creates a new shopping service
func NewShoppingService(
	items outbound.ShoppingRepository,
	pantry outbound.PantryRepository,
	events outbound.EventPublisher,
	logger *zap.Logger,
) inbound.ShoppingService {
	return &ShoppingService{
		items:  items,
		pantry: pantry,
		events: events,
		logger: logger.Named("shopping-service"),
		now:    time.Now,
	}
}

// AddItem puts an ingredient on the list. Without an explicit item type the
// ingredient text decides the category and the cold flag.
func (s *ShoppingService) AddItem(ctx context.Context, cmd inbound.AddShoppingItemCommand) (*inbound.ShoppingItemDTO, error) {
	c := ingredient.Classify(cmd.Ingredient)
	if strings.TrimSpace(cmd.ItemType) != "" {
		category, err := pantry.ParseCategory(cmd.ItemType)
		if err != nil {
			return nil, dto.ValidationError(err)
		}
		c.Category = category
	}
	if cmd.Cold != nil {
		c.Cold = *cmd.Cold
	}

	item, err := shopping.NewClassifiedItem(cmd.UserID, c, cmd.RecipeID)
	if err != nil {
		return nil, dto.ValidationError(err)
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, errors.NewDatabaseError("create shopping item", err)
	}

	out := dto.ShoppingItem(item)
	return &out, nil
}

// TogglePurchased flips the purchased flag. An item that becomes purchased
// is copied into the pantry; failing to do so does not undo the toggle.
func (s *ShoppingService) TogglePurchased(ctx context.Context, userID, itemID uuid.UUID) (*inbound.ShoppingItemDTO, error) {
	item, err := s.items.FindByID(ctx, userID, itemID)
	if stderrors.Is(err, shopping.ErrItemNotFound) {
		return nil, errors.NewShoppingItemNotFoundError(itemID.String())
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find shopping item", err)
	}

	purchased := item.TogglePurchased()
	if err := s.items.Update(ctx, item); err != nil {
		return nil, errors.NewDatabaseError("update shopping item", err)
	}

	if purchased {
		s.stock(ctx, item)
	}
	s.events.Publish(ctx, item.Events()...)

	out := dto.ShoppingItem(item)
	return &out, nil
}

func (s *ShoppingService) stock(ctx context.Context, item *shopping.Item) {
	entry, err := item.ToPantry(s.now())
	if err == nil {
		err = s.pantry.Create(ctx, entry)
	}
	if err != nil {
		s.logger.Error("Failed to add purchased item to pantry",
			zap.String("item_id", item.ID().String()),
			zap.String("ingredient", item.Ingredient()),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("Purchased item added to pantry",
		zap.String("item_id", item.ID().String()),
		zap.String("pantry_item_id", entry.ID().String()),
	)
}

// DeleteItem removes one item
func (s *ShoppingService) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	err := s.items.Delete(ctx, userID, itemID)
	if stderrors.Is(err, shopping.ErrItemNotFound) {
		return errors.NewShoppingItemNotFoundError(itemID.String())
	}
	if err != nil {
		return errors.NewDatabaseError("delete shopping item", err)
	}
	return nil
}

// ClearPurchased deletes every purchased item and returns how many went
func (s *ShoppingService) ClearPurchased(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.items.DeletePurchased(ctx, userID)
	if err != nil {
		return 0, errors.NewDatabaseError("clear purchased items", err)
	}
	s.logger.Info("Cleared purchased items",
		zap.String("user_id", userID.String()),
		zap.Int64("count", n),
	)
	return n, nil
}

// ListItems returns the list, newest first
func (s *ShoppingService) ListItems(ctx context.Context, userID uuid.UUID) ([]inbound.ShoppingItemDTO, error) {
	items, err := s.items.FindByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("list shopping items", err)
	}
	return dto.ShoppingItems(items), nil
}
