// Package shopping models the shopping cart. Items bought from the cart
// flow into the pantry.
package shopping

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/ingredient"
	"github.com/sousa/mealplan/internal/domain/pantry"
	"github.com/sousa/mealplan/internal/domain/shared"
)

var (
	ErrItemNotFound       = errors.New("shopping item not found")
	ErrIngredientRequired = errors.New("ingredient is required")
)

const EventItemPurchased = "shopping.item_purchased"

// ItemPurchasedEvent is raised when an item flips to purchased
type ItemPurchasedEvent struct {
	shared.BaseEvent
	Ingredient string `json:"ingredient"`
}

// Item is one line on the shopping list
type Item struct {
	shared.AggregateRoot

	id         uuid.UUID
	userID     uuid.UUID
	ingredient string
	purchased  bool
	recipeID   *uuid.UUID
	itemType   pantry.Category
	cold       bool
	createdAt  time.Time
	updatedAt  time.Time
}

// NewItem adds an ingredient to the list, classifying it
func NewItem(userID uuid.UUID, text string, recipeID *uuid.UUID) (*Item, error) {
	c := ingredient.Classify(text)
	return NewClassifiedItem(userID, c, recipeID)
}

// NewClassifiedItem adds an ingredient whose category was already decided
func NewClassifiedItem(userID uuid.UUID, c ingredient.Classification, recipeID *uuid.UUID) (*Item, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return nil, ErrIngredientRequired
	}
	category := c.Category
	if category == "" {
		category = pantry.CategoryPantry
	}
	now := time.Now().UTC()
	return &Item{
		id:         uuid.New(),
		userID:     userID,
		ingredient: name,
		recipeID:   recipeID,
		itemType:   category,
		cold:       c.Cold,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// TogglePurchased flips the flag and reports whether the item is now purchased
func (i *Item) TogglePurchased() bool {
	i.purchased = !i.purchased
	i.updatedAt = time.Now().UTC()
	if i.purchased {
		i.AddEvent(ItemPurchasedEvent{
			BaseEvent:  shared.NewBaseEvent(EventItemPurchased, i.id, i.userID),
			Ingredient: i.ingredient,
		})
	}
	return i.purchased
}

// ToPantry builds the pantry entry created when the item is bought
func (i *Item) ToPantry(at time.Time) (*pantry.Item, error) {
	p, err := pantry.NewItem(i.userID, pantry.Details{
		Name:     i.ingredient,
		Category: string(i.itemType),
		Status:   string(pantry.StatusGood),
		Cold:     i.cold,
	})
	if err != nil {
		return nil, err
	}
	p.MarkPurchased(at)
	return p, nil
}

func (i *Item) ID() uuid.UUID             { return i.id }
func (i *Item) UserID() uuid.UUID         { return i.userID }
func (i *Item) Ingredient() string        { return i.ingredient }
func (i *Item) Purchased() bool           { return i.purchased }
func (i *Item) RecipeID() *uuid.UUID      { return i.recipeID }
func (i *Item) ItemType() pantry.Category { return i.itemType }
func (i *Item) Cold() bool                { return i.cold }
func (i *Item) CreatedAt() time.Time      { return i.createdAt }
func (i *Item) UpdatedAt() time.Time      { return i.updatedAt }

// Snapshot is the persisted form of an item
type Snapshot struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Ingredient string
	Purchased  bool
	RecipeID   *uuid.UUID
	ItemType   pantry.Category
	Cold       bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Restore rebuilds an item from storage
func Restore(s Snapshot) *Item {
	return &Item{
		id:         s.ID,
		userID:     s.UserID,
		ingredient: s.Ingredient,
		purchased:  s.Purchased,
		recipeID:   s.RecipeID,
		itemType:   s.ItemType,
		cold:       s.Cold,
		createdAt:  s.CreatedAt,
		updatedAt:  s.UpdatedAt,
	}
}

// Snapshot exports the item
func (i *Item) Snapshot() Snapshot {
	return Snapshot{
		ID:         i.id,
		UserID:     i.userID,
		Ingredient: i.ingredient,
		Purchased:  i.purchased,
		RecipeID:   i.recipeID,
		ItemType:   i.itemType,
		Cold:       i.cold,
		CreatedAt:  i.createdAt,
		UpdatedAt:  i.updatedAt,
	}
}
