package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PantryService manages the pantry inventory
type PantryService interface {
	AddItem(ctx context.Context, cmd PantryItemCommand) (*PantryItemDTO, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, cmd PantryItemCommand) (*PantryItemDTO, error)
	DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error
	GetItem(ctx context.Context, userID, itemID uuid.UUID) (*PantryItemDTO, error)
	ListItems(ctx context.Context, userID uuid.UUID, category, status string) ([]PantryItemDTO, error)
	ExpiringSoon(ctx context.Context, userID uuid.UUID, within time.Duration) ([]PantryItemDTO, error)
}

// PantryItemCommand carries the editable fields of a pantry item
type PantryItemCommand struct {
	UserID    uuid.UUID
	Name      string
	Category  string
	Status    string
	Quantity  string
	ExpiresOn string
	Cold      bool
}

// PantryItemDTO is the wire form of a pantry item
type PantryItemDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	Quantity    string    `json:"quantity,omitempty"`
	ExpiresOn   *string   `json:"expires_on,omitempty"`
	ColdItem    bool      `json:"cold_item"`
	PurchasedAt *string   `json:"purchased_at,omitempty"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// ShoppingService manages the shopping cart
type ShoppingService interface {
	AddItem(ctx context.Context, cmd AddShoppingItemCommand) (*ShoppingItemDTO, error)
	TogglePurchased(ctx context.Context, userID, itemID uuid.UUID) (*ShoppingItemDTO, error)
	DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error
	ClearPurchased(ctx context.Context, userID uuid.UUID) (int64, error)
	ListItems(ctx context.Context, userID uuid.UUID) ([]ShoppingItemDTO, error)
}

// AddShoppingItemCommand adds one line to the cart. ItemType and Cold are
// derived from the ingredient text when ItemType is empty.
type AddShoppingItemCommand struct {
	UserID     uuid.UUID
	Ingredient string
	ItemType   string
	Cold       *bool
	RecipeID   *uuid.UUID
}

// ShoppingItemDTO is the wire form of a shopping item
type ShoppingItemDTO struct {
	ID         uuid.UUID  `json:"id"`
	Ingredient string     `json:"ingredient"`
	Purchased  bool       `json:"purchased"`
	RecipeID   *uuid.UUID `json:"recipe_id,omitempty"`
	ItemType   string     `json:"item_type"`
	IsCold     bool       `json:"is_cold"`
	CreatedAt  string     `json:"created_at"`
}

// ProfileService manages onboarding preferences
type ProfileService interface {
	CreateProfile(ctx context.Context, cmd ProfileCommand) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, cmd ProfileCommand) (*ProfileDTO, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
}

// ProfileCommand carries onboarding answers
type ProfileCommand struct {
	UserID       uuid.UUID
	IsVegetarian bool
	Cuisines     []string
}

// ProfileDTO is the wire form of a profile
type ProfileDTO struct {
	UserID       uuid.UUID `json:"user_id"`
	IsVegetarian bool      `json:"is_vegetarian"`
	Cuisines     []string  `json:"cuisines"`
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    string    `json:"updated_at"`
}
