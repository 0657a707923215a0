// Package pantry models the user's pantry inventory.
package pantry

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category groups pantry items on the pantry screen
type Category string

const (
	CategoryProduce   Category = "Produce"
	CategoryDairy     Category = "Dairy"
	CategoryPantry    Category = "Pantry"
	CategoryBakery    Category = "Bakery"
	CategoryMeat      Category = "Meat"
	CategoryFrozen    Category = "Frozen"
	CategoryBeverages Category = "Beverages"
	CategoryOther     Category = "Other"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryProduce, CategoryDairy, CategoryPantry, CategoryBakery,
	CategoryMeat, CategoryFrozen, CategoryBeverages, CategoryOther,
}

// ParseCategory matches case-insensitively. Empty input means Pantry.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryPantry, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// Status is the freshness state of an item
type Status string

const (
	StatusGood     Status = "good"
	StatusLow      Status = "low"
	StatusExpiring Status = "expiring"
)

// ParseStatus matches case-insensitively. Empty input means good.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusGood:
		return StatusGood, nil
	case StatusLow:
		return StatusLow, nil
	case StatusExpiring:
		return StatusExpiring, nil
	}
	return "", ErrInvalidStatus
}

const maxNameLength = 200

// Item is a single pantry entry
type Item struct {
	id          uuid.UUID
	userID      uuid.UUID
	name        string
	category    Category
	status      Status
	quantity    string
	expiresOn   *time.Time
	cold        bool
	purchasedAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// Details holds the editable fields of an item
type Details struct {
	Name      string
	Category  string
	Status    string
	Quantity  string
	ExpiresOn *time.Time
	Cold      bool
}

// NewItem creates a validated pantry item
func NewItem(userID uuid.UUID, d Details) (*Item, error) {
	now := time.Now().UTC()
	item := &Item{
		id:        uuid.New(),
		userID:    userID,
		createdAt: now,
		updatedAt: now,
	}
	if err := item.apply(d); err != nil {
		return nil, err
	}
	return item, nil
}

// Update replaces the editable fields
func (i *Item) Update(d Details) error {
	if err := i.apply(d); err != nil {
		return err
	}
	i.updatedAt = time.Now().UTC()
	return nil
}

func (i *Item) apply(d Details) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	category, err := ParseCategory(d.Category)
	if err != nil {
		return err
	}
	status, err := ParseStatus(d.Status)
	if err != nil {
		return err
	}

	i.name = name
	i.category = category
	i.status = status
	i.quantity = strings.TrimSpace(d.Quantity)
	i.expiresOn = d.ExpiresOn
	i.cold = d.Cold
	return nil
}

// MarkPurchased records when the item came in from the shopping list
func (i *Item) MarkPurchased(at time.Time) {
	at = at.UTC()
	i.purchasedAt = &at
}

// ExpiresWithin reports whether the item needs attention before now+window
func (i *Item) ExpiresWithin(now time.Time, window time.Duration) bool {
	if i.status == StatusExpiring {
		return true
	}
	if i.expiresOn == nil {
		return false
	}
	return !i.expiresOn.After(now.Add(window))
}

func (i *Item) ID() uuid.UUID           { return i.id }
func (i *Item) UserID() uuid.UUID       { return i.userID }
func (i *Item) Name() string            { return i.name }
func (i *Item) Category() Category      { return i.category }
func (i *Item) Status() Status          { return i.status }
func (i *Item) Quantity() string        { return i.quantity }
func (i *Item) ExpiresOn() *time.Time   { return i.expiresOn }
func (i *Item) Cold() bool              { return i.cold }
func (i *Item) PurchasedAt() *time.Time { return i.purchasedAt }
func (i *Item) CreatedAt() time.Time    { return i.createdAt }
func (i *Item) UpdatedAt() time.Time    { return i.updatedAt }

// Snapshot is the persisted form of an item
type Snapshot struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Category    Category
	Status      Status
	Quantity    string
	ExpiresOn   *time.Time
	Cold        bool
	PurchasedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Restore rebuilds an item from storage without validation
func Restore(s Snapshot) *Item {
	return &Item{
		id:          s.ID,
		userID:      s.UserID,
		name:        s.Name,
		category:    s.Category,
		status:      s.Status,
		quantity:    s.Quantity,
		expiresOn:   s.ExpiresOn,
		cold:        s.Cold,
		purchasedAt: s.PurchasedAt,
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
	}
}

// Snapshot exports the item for persistence
func (i *Item) Snapshot() Snapshot {
	return Snapshot{
		ID:          i.id,
		UserID:      i.userID,
		Name:        i.name,
		Category:    i.category,
		Status:      i.status,
		Quantity:    i.quantity,
		ExpiresOn:   i.expiresOn,
		Cold:        i.cold,
		PurchasedAt: i.purchasedAt,
		CreatedAt:   i.createdAt,
		UpdatedAt:   i.updatedAt,
	}
}
