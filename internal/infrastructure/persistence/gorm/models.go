// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID           uuid.UUID   `gorm:"type:char(36);primaryKey"`
	UserID       uuid.UUID   `gorm:"type:char(36);not null;index:idx_recipes_user_created,priority:1"`
	Title        string      `gorm:"type:varchar(255);not null"`
	Ingredients  StringSlice `gorm:"type:json"`
	Instructions StringSlice `gorm:"type:json"`
	PrepTime     string      `gorm:"type:varchar(100)"`
	Cuisine      string      `gorm:"type:varchar(100)"`
	Source       string      `gorm:"type:varchar(20);not null;default:'manual'"`
	CreatedAt    time.Time   `gorm:"index:idx_recipes_user_created,priority:2"`
	UpdatedAt    time.Time
}

func (RecipeModel) TableName() string { return "recipes" }

// PantryItemModel represents the GORM model for pantry items
type PantryItemModel struct {
	ID          uuid.UUID  `gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID  `gorm:"type:char(36);not null;index"`
	Name        string     `gorm:"type:varchar(255);not null"`
	Category    string     `gorm:"type:varchar(50);not null;default:'Pantry'"`
	Status      string     `gorm:"type:varchar(20);not null;default:'good'"`
	Quantity    string     `gorm:"type:varchar(100)"`
	ExpiresOn   *time.Time `gorm:"type:date"`
	ColdItem    bool       `gorm:"not null;default:false"`
	PurchasedAt *time.Time
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (PantryItemModel) TableName() string { return "pantry_items" }

// ScheduledMealModel represents the GORM model for calendar entries
type ScheduledMealModel struct {
	ID            uuid.UUID  `gorm:"type:char(36);primaryKey"`
	UserID        uuid.UUID  `gorm:"type:char(36);not null;index:idx_meals_slot,priority:1"`
	RecipeID      *uuid.UUID `gorm:"type:char(36);index"`
	MealTitle     string     `gorm:"type:varchar(255);not null"`
	MealType      string     `gorm:"type:varchar(20);not null;index:idx_meals_slot,priority:3"`
	ScheduledDate time.Time  `gorm:"type:date;not null;index:idx_meals_slot,priority:2"`
	ScheduledTime string     `gorm:"type:varchar(5)"`
	Notes         string     `gorm:"type:text"`
	Position      int        `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ScheduledMealModel) TableName() string { return "scheduled_meals" }

// ShoppingItemModel represents the GORM model for the shopping list
type ShoppingItemModel struct {
	ID         uuid.UUID  `gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID  `gorm:"type:char(36);not null;index"`
	Ingredient string     `gorm:"type:varchar(255);not null"`
	Purchased  bool       `gorm:"not null;default:false"`
	RecipeID   *uuid.UUID `gorm:"type:char(36);index"`
	ItemType   string     `gorm:"type:varchar(50);not null;default:'Pantry'"`
	IsCold     bool       `gorm:"not null;default:false"`
	CreatedAt  time.Time  `gorm:"index"`
	UpdatedAt  time.Time
}

func (ShoppingItemModel) TableName() string { return "shopping_items" }

// ProfileModel represents the GORM model for onboarding answers
type ProfileModel struct {
	UserID       uuid.UUID   `gorm:"type:char(36);primaryKey"`
	IsVegetarian bool        `gorm:"not null;default:false"`
	Cuisines     StringSlice `gorm:"type:json"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ProfileModel) TableName() string { return "profiles" }

// AllModels lists every model for AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&RecipeModel{},
		&PantryItemModel{},
		&ScheduledMealModel{},
		&ShoppingItemModel{},
		&ProfileModel{},
	}
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
