// Package mealplan schedules meals on the calendar and turns model
// suggestions into a week of planned meals.
package mealplan

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/domain/shared"
)

// MealType is the slot a meal occupies within a day
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

// MealTypes lists the slots in the order they appear in a day
var MealTypes = []MealType{Breakfast, Lunch, Dinner}

// ParseMealType accepts any casing, so "Dinner" and "dinner" are the same slot
func ParseMealType(s string) (MealType, error) {
	switch MealType(strings.ToLower(strings.TrimSpace(s))) {
	case Breakfast:
		return Breakfast, nil
	case Lunch:
		return Lunch, nil
	case Dinner:
		return Dinner, nil
	}
	return "", ErrInvalidMealType
}

// Order is the slot's index within a day
func (m MealType) Order() int {
	for i, t := range MealTypes {
		if t == m {
			return i
		}
	}
	return len(MealTypes)
}

const (
	EventMealScheduled = "meal.scheduled"
	EventMealMoved     = "meal.moved"
	maxTitleLength     = 200
	maxNotesLength     = 1000
)

// MealScheduledEvent is raised when a meal is put on the calendar
type MealScheduledEvent struct {
	shared.BaseEvent
	Date     string   `json:"scheduled_date"`
	MealType MealType `json:"meal_type"`
}

// MealMovedEvent is raised when a meal is dragged to another slot
type MealMovedEvent struct {
	shared.BaseEvent
	From string `json:"from"`
	To   string `json:"to"`
}

// ScheduledMeal is a meal placed on a day and slot
type ScheduledMeal struct {
	shared.AggregateRoot

	id            uuid.UUID
	userID        uuid.UUID
	recipeID      *uuid.UUID
	title         string
	mealType      MealType
	date          time.Time
	scheduledTime string
	notes         string
	position      int
	createdAt     time.Time
	updatedAt     time.Time
}

// Schedule describes where and what a meal is
type Schedule struct {
	RecipeID      *uuid.UUID
	Title         string
	MealType      string
	Date          string
	ScheduledTime string
	Notes         string
}

// NewScheduledMeal validates and creates a meal
func NewScheduledMeal(userID uuid.UUID, s Schedule) (*ScheduledMeal, error) {
	now := time.Now().UTC()
	m := &ScheduledMeal{
		id:        uuid.New(),
		userID:    userID,
		createdAt: now,
		updatedAt: now,
	}
	if err := m.apply(s); err != nil {
		return nil, err
	}
	m.AddEvent(MealScheduledEvent{
		BaseEvent: shared.NewBaseEvent(EventMealScheduled, m.id, userID),
		Date:      FormatDate(m.date),
		MealType:  m.mealType,
	})
	return m, nil
}

// Patch holds optional changes; nil fields are left alone
type Patch struct {
	RecipeID      **uuid.UUID
	Title         *string
	MealType      *string
	Date          *string
	ScheduledTime *string
	Notes         *string
}

// Update applies a partial change
func (m *ScheduledMeal) Update(p Patch) error {
	s := Schedule{
		RecipeID:      m.recipeID,
		Title:         m.title,
		MealType:      string(m.mealType),
		Date:          FormatDate(m.date),
		ScheduledTime: m.scheduledTime,
		Notes:         m.notes,
	}
	if p.RecipeID != nil {
		s.RecipeID = *p.RecipeID
	}
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.MealType != nil {
		s.MealType = *p.MealType
	}
	if p.Date != nil {
		s.Date = *p.Date
	}
	if p.ScheduledTime != nil {
		s.ScheduledTime = *p.ScheduledTime
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	if err := m.apply(s); err != nil {
		return err
	}
	m.updatedAt = time.Now().UTC()
	return nil
}

func (m *ScheduledMeal) apply(s Schedule) error {
	title := strings.TrimSpace(s.Title)
	if title == "" {
		return ErrTitleRequired
	}
	if len(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	mealType, err := ParseMealType(s.MealType)
	if err != nil {
		return err
	}
	date, err := ParseDate(s.Date)
	if err != nil {
		return err
	}
	at := strings.TrimSpace(s.ScheduledTime)
	if at != "" {
		if _, err := time.Parse("15:04", at); err != nil {
			return ErrInvalidTime
		}
	}
	notes := strings.TrimSpace(s.Notes)
	if len(notes) > maxNotesLength {
		return ErrNotesTooLong
	}

	m.recipeID = s.RecipeID
	m.title = title
	m.mealType = mealType
	m.date = date
	m.scheduledTime = at
	m.notes = notes
	return nil
}

// MoveTo changes the slot and position. Sibling renumbering is done by Reorder.
func (m *ScheduledMeal) MoveTo(date time.Time, mealType MealType, position int) {
	from := m.slotKey()
	m.date = TruncateDate(date)
	m.mealType = mealType
	m.position = position
	m.updatedAt = time.Now().UTC()
	m.AddEvent(MealMovedEvent{
		BaseEvent: shared.NewBaseEvent(EventMealMoved, m.id, m.userID),
		From:      from,
		To:        m.slotKey(),
	})
}

// SetPosition sets the order within the slot
func (m *ScheduledMeal) SetPosition(position int) {
	m.position = position
}

func (m *ScheduledMeal) slotKey() string {
	return FormatDate(m.date) + "/" + string(m.mealType)
}

// DetachRecipe clears the recipe link, used when the recipe is deleted
func (m *ScheduledMeal) DetachRecipe() {
	m.recipeID = nil
}

func (m *ScheduledMeal) ID() uuid.UUID         { return m.id }
func (m *ScheduledMeal) UserID() uuid.UUID     { return m.userID }
func (m *ScheduledMeal) RecipeID() *uuid.UUID  { return m.recipeID }
func (m *ScheduledMeal) Title() string         { return m.title }
func (m *ScheduledMeal) MealType() MealType    { return m.mealType }
func (m *ScheduledMeal) Date() time.Time       { return m.date }
func (m *ScheduledMeal) ScheduledTime() string { return m.scheduledTime }
func (m *ScheduledMeal) Notes() string         { return m.notes }
func (m *ScheduledMeal) Position() int         { return m.position }
func (m *ScheduledMeal) CreatedAt() time.Time  { return m.createdAt }
func (m *ScheduledMeal) UpdatedAt() time.Time  { return m.updatedAt }

// Snapshot is the persisted form of a scheduled meal
type Snapshot struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	RecipeID      *uuid.UUID
	Title         string
	MealType      MealType
	Date          time.Time
	ScheduledTime string
	Notes         string
	Position      int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Restore rebuilds a meal from storage
func Restore(s Snapshot) *ScheduledMeal {
	return &ScheduledMeal{
		id:            s.ID,
		userID:        s.UserID,
		recipeID:      s.RecipeID,
		title:         s.Title,
		mealType:      s.MealType,
		date:          TruncateDate(s.Date),
		scheduledTime: s.ScheduledTime,
		notes:         s.Notes,
		position:      s.Position,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
	}
}

// Snapshot exports the meal
func (m *ScheduledMeal) Snapshot() Snapshot {
	return Snapshot{
		ID:            m.id,
		UserID:        m.userID,
		RecipeID:      m.recipeID,
		Title:         m.title,
		MealType:      m.mealType,
		Date:          m.date,
		ScheduledTime: m.scheduledTime,
		Notes:         m.notes,
		Position:      m.position,
		CreatedAt:     m.createdAt,
		UpdatedAt:     m.updatedAt,
	}
}
